package categories

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// Source fetches the category tree from the marketplace.
type Source interface {
	CategoryHierarchy(ctx context.Context) ([]apiclient.Category, error)
}

type LoaderParams struct {
	Source  Source
	// TTL keeps a loaded tree for reuse. Zero fetches fresh on every Load.
	TTL     time.Duration
	// Timeout bounds the shared fetch, which outlives any single caller.
	// Zero leaves it to the source.
	Timeout time.Duration
	Logger  *logger.Logger
	Now     func() time.Time
}

// Loader is shared by all workspaces. Concurrent loads collapse into one request.
type Loader struct {
	source  Source
	ttl     time.Duration
	timeout time.Duration
	logg    *logger.Logger
	now     func() time.Time
	group   singleflight.Group

	mu       sync.RWMutex
	cached   *Hierarchy
	loadedAt time.Time
}

func NewLoader(params LoaderParams) (*Loader, error) {
	if params.Source == nil {
		return nil, errors.New("category source required")
	}
	if params.TTL < 0 || params.Timeout < 0 {
		return nil, errors.New("category cache ttl and timeout must not be negative")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Loader{source: params.Source, ttl: params.TTL, timeout: params.Timeout, logg: logg, now: now}, nil
}

// Load returns the category tree. On failure it returns an empty, usable
// hierarchy together with the error.
//
// The shared fetch is detached from ctx: a caller that gives up stops waiting
// without cancelling the request other workspaces joined.
func (l *Loader) Load(ctx context.Context) (*Hierarchy, error) {
	if h, ok := l.fresh(); ok {
		return h, nil
	}

	ch := l.group.DoChan("hierarchy", func() (any, error) {
		fetchCtx, cancel := l.detach(ctx)
		defer cancel()
		roots, err := l.source.CategoryHierarchy(fetchCtx)
		if err != nil {
			return nil, err
		}
		h := NewHierarchy(roots)
		l.mu.Lock()
		l.cached = h
		l.loadedAt = l.now()
		l.mu.Unlock()
		return h, nil
	})

	select {
	case <-ctx.Done():
		return NewHierarchy(nil), ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			l.logg.Warn(l.logg.WithField(ctx, "shared", res.Shared), "categories: load failed: "+res.Err.Error())
			return NewHierarchy(nil), res.Err
		}
		return res.Val.(*Hierarchy), nil
	}
}

func (l *Loader) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if l.timeout > 0 {
		return context.WithTimeout(ctx, l.timeout)
	}
	return context.WithCancel(ctx)
}

func (l *Loader) fresh() (*Hierarchy, bool) {
	if l.ttl == 0 {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cached == nil || l.now().Sub(l.loadedAt) >= l.ttl {
		return nil, false
	}
	return l.cached, true
}

// Invalidate forgets the cached tree.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}

// Refresh replaces the cached tree with a fresh fetch. A failed fetch keeps
// the previous tree.
func (l *Loader) Refresh(ctx context.Context) error {
	roots, err := l.source.CategoryHierarchy(ctx)
	if err != nil {
		return err
	}
	h := NewHierarchy(roots)
	l.mu.Lock()
	l.cached = h
	l.loadedAt = l.now()
	l.mu.Unlock()
	return nil
}
