// Package storage persists the small per-session values the storefront keeps
// between requests: the auth token, the role and the language preference.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by backends when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores string values partitioned by session id.
type Backend interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
	Purge(ctx context.Context, sessionID string) error
}

// KV is the durable key/value view one workspace sees.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Scoped binds a backend to a single session.
type Scoped struct {
	backend   Backend
	sessionID string
}

// NewScoped returns the KV view of sessionID inside backend.
func NewScoped(backend Backend, sessionID string) (*Scoped, error) {
	if backend == nil {
		return nil, errors.New("storage backend required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id required")
	}
	return &Scoped{backend: backend, sessionID: sessionID}, nil
}

// Get returns the value and whether it was present.
func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.backend.Get(ctx, s.sessionID, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, s.sessionID, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.sessionID, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Purge drops everything stored for the session.
func (s *Scoped) Purge(ctx context.Context) error {
	return s.backend.Purge(ctx, s.sessionID)
}

// SessionID returns the session the view is bound to.
func (s *Scoped) SessionID() string {
	return s.sessionID
}
