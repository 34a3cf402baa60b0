package workspace

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/cart"
	"github.com/nhc-marketplace/storefront/internal/catalog"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/internal/locale"
	"github.com/nhc-marketplace/storefront/internal/notifications"
	"github.com/nhc-marketplace/storefront/internal/orders"
	"github.com/nhc-marketplace/storefront/internal/promocodes"
	"github.com/nhc-marketplace/storefront/internal/session"
	"github.com/nhc-marketplace/storefront/internal/wishlist"
	"github.com/nhc-marketplace/storefront/pkg/config"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/metrics"
	"github.com/nhc-marketplace/storefront/pkg/storage"
)

// Deps are shared by every workspace of the process.
type Deps struct {
	Config       *config.Config
	Backend      storage.Backend
	API          *apiclient.Client
	Categories   *categories.Loader
	Translations *locale.Catalog
	Metrics      *metrics.CoordinatorMetrics
	Logger       *logger.Logger
}

func (d Deps) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("config required")
	case d.Backend == nil:
		return errors.New("storage backend required")
	case d.API == nil:
		return errors.New("api client required")
	case d.Categories == nil:
		return errors.New("category loader required")
	case d.Logger == nil:
		return errors.New("logger required")
	}
	return nil
}

// Workspace is the client state of one browser session.
type Workspace struct {
	ID            string
	Store         *storage.Scoped
	Locale        *locale.Service
	Session       *session.Service
	Cart          *cart.Composer
	Wishlist      *wishlist.Service
	Orders        *orders.Service
	PromoCodes    *promocodes.Service
	Notifications notifications.Service

	deps   Deps
	client *apiclient.Client
	logg   *logger.Logger
	life   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	screen   *catalog.Coordinator
	lastSeen time.Time
	closed   bool
}

// newCart is replaced in tests to fail construction part way through.
var newCart = cart.New

// New builds the coordinators of session id, restoring persisted token, role
// and language from the backend. When a later coordinator cannot be built the
// earlier ones are closed before returning.
func New(ctx context.Context, id string, deps Deps) (_ *Workspace, err error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	store, err := storage.NewScoped(deps.Backend, id)
	if err != nil {
		return nil, err
	}
	cfg := deps.Config
	logg := deps.Logger
	ctx = logg.WithSessionID(ctx, id)

	feed, err := notifications.NewService(notifications.ServiceParams{
		TTL:      cfg.Notifications.TTL,
		Capacity: cfg.Notifications.Capacity,
	})
	if err != nil {
		return nil, err
	}
	loc, err := locale.NewService(ctx, locale.ServiceParams{
		Store:       store,
		LanguageKey: cfg.Storage.LanguageKey,
		Catalog:     deps.Translations,
		Logger:      logg,
	})
	if err != nil {
		return nil, err
	}
	var built []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(built) - 1; i >= 0; i-- {
			built[i]()
		}
	}()
	built = append(built, loc.Close)

	sess, err := session.NewService(ctx, session.ServiceParams{
		Store:     store,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Auth:      deps.API,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	built = append(built, sess.Close)
	client := deps.API.WithToken(sess.Token)

	composer, err := newCart(cart.Params{
		API:        client,
		Gate:       sess,
		Policy:     cart.ShippingPolicy{FreeThreshold: cfg.Cart.Threshold(), Fee: cfg.Cart.Fee()},
		Notifier:   feed,
		Translator: loc,
		Metrics:    deps.Metrics,
		Logger:     logg,
	})
	if err != nil {
		return nil, err
	}
	built = append(built, composer.Close)

	saved, err := wishlist.NewService(wishlist.ServiceParams{API: client, Gate: sess, Notifier: feed, Translator: loc, Logger: logg})
	if err != nil {
		return nil, err
	}
	built = append(built, saved.Close)

	ord, err := orders.NewService(orders.ServiceParams{API: client, Gate: sess, Cart: composer, Notifier: feed, Translator: loc, Logger: logg})
	if err != nil {
		return nil, err
	}
	promos, err := promocodes.NewService(promocodes.ServiceParams{API: client, Gate: sess, Notifier: feed, Translator: loc, Logger: logg})
	if err != nil {
		return nil, err
	}

	life, cancel := context.WithCancel(logg.WithSessionID(context.Background(), id))
	w := &Workspace{
		ID:            id,
		Store:         store,
		Locale:        loc,
		Session:       sess,
		Cart:          composer,
		Wishlist:      saved,
		Orders:        ord,
		PromoCodes:    promos,
		Notifications: feed,
		deps:          deps,
		client:        client,
		logg:          logg,
		life:          life,
		cancel:        cancel,
		lastSeen:      time.Now(),
	}
	go w.followSession(sess.Subscribe(life))
	return w, nil
}

// followSession loads the cart and wishlist on sign-in and forgets them on sign-out.
func (w *Workspace) followSession(states <-chan session.State) {
	loggedIn := false
	for state := range states {
		if state.LoggedIn == loggedIn {
			continue
		}
		loggedIn = state.LoggedIn
		if !loggedIn {
			w.Cart.Reset()
			w.Wishlist.Reset()
			continue
		}
		if err := w.Cart.Load(w.life); err != nil && !errors.Is(err, cart.ErrClosed) {
			w.logg.Warn(w.life, "workspace: cart load after sign-in failed: "+err.Error())
		}
		if err := w.Wishlist.Load(w.life); err != nil {
			w.logg.Warn(w.life, "workspace: wishlist load after sign-in failed: "+err.Error())
		}
	}
}

// MountCatalog opens a new catalog screen seeded from query, closing the
// previous one so its late responses are dropped.
func (w *Workspace) MountCatalog(ctx context.Context, query url.Values) (*catalog.Coordinator, error) {
	cfg := w.deps.Config
	screen, err := catalog.New(catalog.Params{
		Products:       w.client,
		Categories:     w.deps.Categories,
		PageSize:       cfg.Catalog.PageSize,
		SearchDebounce: cfg.Catalog.SearchDebounce,
		Notifier:       w.Notifications,
		Translator:     w.Locale,
		Metrics:        w.deps.Metrics,
		Logger:         w.logg,
	})
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		screen.Close()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "workspace closed")
	}
	previous := w.screen
	w.screen = screen
	w.mu.Unlock()
	if previous != nil {
		previous.Close()
	}

	if err := screen.Mount(ctx, query); err != nil {
		return screen, err
	}
	return screen, nil
}

// Catalog returns the mounted catalog screen.
func (w *Workspace) Catalog() (*catalog.Coordinator, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.screen == nil || w.screen.Closed() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog screen not mounted")
	}
	return w.screen, nil
}

func (w *Workspace) UnmountCatalog() {
	w.mu.Lock()
	screen := w.screen
	w.screen = nil
	w.mu.Unlock()
	if screen != nil {
		screen.Close()
	}
}

// Product loads one product's detail page.
func (w *Workspace) Product(ctx context.Context, id int64) (apiclient.Product, error) {
	if id <= 0 {
		return apiclient.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	return w.client.Product(ctx, id)
}

// AddToCart adds a product by id, checking stock against the product detail.
func (w *Workspace) AddToCart(ctx context.Context, productID int64) error {
	if err := w.Session.RequireLogin(); err != nil {
		w.Notifications.Error(w.Locale.T("login_required"))
		return err
	}
	product, err := w.Product(ctx, productID)
	if err != nil {
		return err
	}
	return w.Cart.Add(ctx, product.ProductSummary)
}

// Logout signs out and notifies; cart and wishlist are cleared by the session follower.
func (w *Workspace) Logout(ctx context.Context) error {
	if err := w.Session.Logout(ctx); err != nil {
		return err
	}
	w.Notifications.Info(w.Locale.T("logged_out"))
	return nil
}

func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Close stops every coordinator. Persisted values stay in the backend.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	screen := w.screen
	w.screen = nil
	w.mu.Unlock()

	if screen != nil {
		screen.Close()
	}
	w.cancel()
	w.Cart.Close()
	w.Wishlist.Close()
	w.Session.Close()
	w.Locale.Close()
}
