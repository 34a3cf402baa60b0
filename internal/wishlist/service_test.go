package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
)

type stubAPI struct {
	saved     map[int64]bool
	toggleErr error
	toggles   int
}

func (s *stubAPI) Wishlist(context.Context) ([]apiclient.WishlistItem, error) {
	out := []apiclient.WishlistItem{}
	for id, ok := range s.saved {
		if ok {
			out = append(out, apiclient.WishlistItem{ID: id * 100, ProductID: id})
		}
	}
	return out, nil
}

func (s *stubAPI) ToggleWishlist(_ context.Context, productID int64) error {
	s.toggles++
	if s.toggleErr != nil {
		return s.toggleErr
	}
	s.saved[productID] = !s.saved[productID]
	return nil
}

type gate bool

func (g gate) IsLoggedIn() bool { return bool(g) }

type recorder struct{ msgs []string }

func (r *recorder) Notify(_ enums.NotificationKind, msg string) { r.msgs = append(r.msgs, msg) }

func TestToggleAddsAndRemoves(t *testing.T) {
	api := &stubAPI{saved: map[int64]bool{2: true}}
	rec := &recorder{}
	svc, err := NewService(ServiceParams{API: api, Gate: gate(true), Notifier: rec})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !svc.Contains(2) {
		t.Fatal("expected product 2 to be saved")
	}

	saved, err := svc.Toggle(ctx, 5)
	if err != nil || !saved {
		t.Fatalf("expected product 5 saved, got %v %v", saved, err)
	}
	if ids := svc.IDs(); len(ids) != 2 || ids[0] != 2 || ids[1] != 5 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if len(svc.Items()) != 2 {
		t.Fatalf("expected refreshed items, got %d", len(svc.Items()))
	}

	saved, err = svc.Toggle(ctx, 2)
	if err != nil || saved {
		t.Fatalf("expected product 2 removed, got %v %v", saved, err)
	}
	if svc.Contains(2) || len(svc.Items()) != 1 {
		t.Fatal("product 2 should be gone")
	}
	if rec.msgs[len(rec.msgs)-1] != "wishlist_removed" {
		t.Fatalf("unexpected last toast %q", rec.msgs[len(rec.msgs)-1])
	}
}

func TestToggleFailureKeepsState(t *testing.T) {
	api := &stubAPI{saved: map[int64]bool{}, toggleErr: errors.New("down")}
	svc, _ := NewService(ServiceParams{API: api, Gate: gate(true)})

	saved, err := svc.Toggle(context.Background(), 9)
	if err == nil || saved {
		t.Fatalf("expected failure, got %v %v", saved, err)
	}
	if svc.Contains(9) {
		t.Fatal("failed toggle must not change state")
	}
}

func TestToggleRequiresLogin(t *testing.T) {
	api := &stubAPI{saved: map[int64]bool{}}
	svc, _ := NewService(ServiceParams{API: api, Gate: gate(false)})

	_, err := svc.Toggle(context.Background(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if api.toggles != 0 {
		t.Fatal("no call expected while logged out")
	}
}
