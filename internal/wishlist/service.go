package wishlist

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/observable"
)

// API is the wishlist slice of the marketplace client.
type API interface {
	Wishlist(ctx context.Context) ([]apiclient.WishlistItem, error)
	ToggleWishlist(ctx context.Context, productID int64) error
}

type Gate interface {
	IsLoggedIn() bool
}

type Notifier interface {
	Notify(kind enums.NotificationKind, message string)
}

type Translator interface {
	T(key string) string
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	API        API
	Gate       Gate
	Notifier   Notifier
	Translator Translator
	Logger     *logger.Logger
}

// Service keeps the saved products of one workspace. Toggles wait for the server.
type Service struct {
	api        API
	gate       Gate
	notifier   Notifier
	translator Translator
	logg       *logger.Logger
	ids        *observable.Subject[[]int64]

	mu    sync.Mutex
	items []apiclient.WishlistItem
	set   map[int64]struct{}
}

func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, errors.New("wishlist api required")
	}
	if params.Gate == nil {
		return nil, errors.New("wishlist session gate required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		api:        params.API,
		gate:       params.Gate,
		notifier:   params.Notifier,
		translator: params.Translator,
		logg:       logg,
		ids:        observable.NewSubject([]int64{}),
		items:      []apiclient.WishlistItem{},
		set:        make(map[int64]struct{}),
	}, nil
}

// Load replaces the saved products with the server list.
func (s *Service) Load(ctx context.Context) error {
	if !s.gate.IsLoggedIn() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	items, err := s.api.Wishlist(ctx)
	if err != nil {
		s.logg.Warn(ctx, "wishlist: load failed: "+err.Error())
		return err
	}
	s.mu.Lock()
	s.items = items
	s.set = make(map[int64]struct{}, len(items))
	for _, item := range items {
		s.set[item.ProductID] = struct{}{}
	}
	ids := s.idsLocked()
	s.mu.Unlock()
	s.ids.Set(ids)
	return nil
}

// Toggle saves or unsaves productID and reports whether it is now saved.
func (s *Service) Toggle(ctx context.Context, productID int64) (bool, error) {
	if !s.gate.IsLoggedIn() {
		s.notify(enums.NotificationError, "login_required")
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if err := s.api.ToggleWishlist(ctx, productID); err != nil {
		s.logg.Warn(ctx, "wishlist: toggle failed: "+err.Error())
		s.notify(enums.NotificationError, "something_went_wrong")
		return s.Contains(productID), err
	}

	s.mu.Lock()
	_, was := s.set[productID]
	if was {
		delete(s.set, productID)
		kept := s.items[:0:0]
		for _, item := range s.items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		s.items = kept
	} else {
		s.set[productID] = struct{}{}
	}
	ids := s.idsLocked()
	s.mu.Unlock()
	s.ids.Set(ids)

	if was {
		s.notify(enums.NotificationSuccess, "wishlist_removed")
		return false, nil
	}
	s.notify(enums.NotificationSuccess, "wishlist_added")
	// The toggle response carries no product details; refresh them.
	if err := s.Load(ctx); err != nil {
		s.logg.Warn(ctx, "wishlist: refresh after add failed: "+err.Error())
	}
	return true, nil
}

func (s *Service) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[productID]
	return ok
}

func (s *Service) Items() []apiclient.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiclient.WishlistItem{}, s.items...)
}

// IDs returns the saved product ids in ascending order.
func (s *Service) IDs() []int64 {
	return s.ids.Value()
}

func (s *Service) Subscribe(ctx context.Context) <-chan []int64 {
	return s.ids.Subscribe(ctx)
}

// Reset forgets everything, used on logout.
func (s *Service) Reset() {
	s.mu.Lock()
	s.items = []apiclient.WishlistItem{}
	s.set = make(map[int64]struct{})
	s.mu.Unlock()
	s.ids.Set([]int64{})
}

func (s *Service) Close() {
	s.ids.Close()
}

func (s *Service) idsLocked() []int64 {
	ids := make([]int64, 0, len(s.set))
	for id := range s.set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Service) notify(kind enums.NotificationKind, key string) {
	if s.notifier == nil {
		return
	}
	msg := key
	if s.translator != nil {
		msg = s.translator.T(key)
	}
	s.notifier.Notify(kind, msg)
}
