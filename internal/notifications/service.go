package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
)

const (
	DefaultTTL      = 3 * time.Second
	DefaultCapacity = 20
)

// Toast is a transient message shown to the user and gone after its TTL.
type Toast struct {
	ID        uuid.UUID              `json:"id"`
	Kind      enums.NotificationKind `json:"kind"`
	Message   string                 `json:"message"`
	CreatedAt time.Time              `json:"createdAt"`
	ExpiresAt time.Time              `json:"expiresAt"`
}

// Service is the toast feed of one workspace.
type Service interface {
	Notify(kind enums.NotificationKind, message string)
	Success(message string)
	Error(message string)
	Info(message string)
	// Pending lists live toasts, oldest first, without consuming them.
	Pending() []Toast
	// Drain returns the live toasts and empties the feed.
	Drain() []Toast
	Dismiss(id uuid.UUID) bool
}

type ServiceParams struct {
	TTL      time.Duration
	Capacity int
	Now      func() time.Time
}

type service struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

func NewService(params ServiceParams) (Service, error) {
	if params.TTL < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "toast ttl must not be negative")
	}
	if params.Capacity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "toast capacity must not be negative")
	}
	ttl := params.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	capacity := params.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{ttl: ttl, capacity: capacity, now: now}, nil
}

// Notify appends a toast. Once the feed is full the oldest toast is dropped.
func (s *service) Notify(kind enums.NotificationKind, message string) {
	if message == "" {
		return
	}
	if !kind.IsValid() {
		kind = enums.NotificationInfo
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.toasts = append(s.toasts, Toast{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	})
	if over := len(s.toasts) - s.capacity; over > 0 {
		s.toasts = append([]Toast(nil), s.toasts[over:]...)
	}
}

func (s *service) Success(message string) { s.Notify(enums.NotificationSuccess, message) }
func (s *service) Error(message string)   { s.Notify(enums.NotificationError, message) }
func (s *service) Info(message string)    { s.Notify(enums.NotificationInfo, message) }

func (s *service) Pending() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	return append([]Toast{}, s.toasts...)
}

func (s *service) Drain() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	out := s.toasts
	s.toasts = nil
	if out == nil {
		out = []Toast{}
	}
	return out
}

func (s *service) Dismiss(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i:i], s.toasts[i+1:]...)
			return true
		}
	}
	return false
}

func (s *service) pruneLocked(now time.Time) {
	keep := s.toasts[:0]
	for _, t := range s.toasts {
		if now.Before(t.ExpiresAt) {
			keep = append(keep, t)
		}
	}
	s.toasts = keep
}
