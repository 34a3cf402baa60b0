package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nhc-marketplace/storefront/pkg/logger"
)

const defaultIdleTTL = 30 * time.Minute

type RegistryParams struct {
	Deps    Deps
	IdleTTL time.Duration
	Now     func() time.Time
}

// Registry owns the live workspaces, creating them lazily per session id and
// evicting the idle ones.
type Registry struct {
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time
	logg    *logger.Logger
	group   singleflight.Group

	mu     sync.RWMutex
	items  map[string]*Workspace
	closed bool
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	if err := params.Deps.validate(); err != nil {
		return nil, err
	}
	idle := params.IdleTTL
	if idle <= 0 {
		idle = defaultIdleTTL
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		deps:    params.Deps,
		idleTTL: idle,
		now:     now,
		logg:    params.Deps.Logger,
		items:   make(map[string]*Workspace),
	}, nil
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the workspace of id, creating it on first use.
func (r *Registry) Get(ctx context.Context, id string) (*Workspace, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	r.mu.RLock()
	w, ok := r.items[id]
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return nil, errors.New("workspace registry closed")
	}
	if ok {
		w.Touch(r.now())
		return w, nil
	}

	v, err, _ := r.group.Do(id, func() (any, error) {
		r.mu.RLock()
		existing, ok := r.items[id]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}
		created, err := New(ctx, id, r.deps)
		if err != nil {
			return nil, err
		}
		created.Touch(r.now())

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			created.Close()
			return nil, errors.New("workspace registry closed")
		}
		r.items[id] = created
		n := len(r.items)
		r.mu.Unlock()

		r.deps.Metrics.SetWorkspaces(n)
		r.logg.Debug(r.logg.WithSessionID(ctx, id), "workspace created")
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Sweep closes workspaces idle for longer than the TTL and returns how many.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)
	var idle []*Workspace

	r.mu.Lock()
	for id, w := range r.items {
		if w.LastSeen().Before(cutoff) {
			idle = append(idle, w)
			delete(r.items, id)
		}
	}
	n := len(r.items)
	r.mu.Unlock()

	for _, w := range idle {
		w.Close()
	}
	r.deps.Metrics.SetWorkspaces(n)
	return len(idle)
}

// Close shuts every workspace down. Later Gets fail.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	items := r.items
	r.items = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, w := range items {
		w.Close()
	}
	r.deps.Metrics.SetWorkspaces(0)
}
