package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/metrics"
	"github.com/nhc-marketplace/storefront/pkg/observable"
	"github.com/nhc-marketplace/storefront/pkg/optimistic"
)

var ErrClosed = errors.New("cart composer closed")

type Params struct {
	API        API
	Gate       Gate
	Policy     ShippingPolicy
	Notifier   Notifier
	Translator Translator
	Metrics    *metrics.CoordinatorMetrics
	Logger     *logger.Logger
}

// Composer holds the cart lines and applied promo of one workspace. Quantity
// changes are optimistic; removals and clearing wait for the server.
type Composer struct {
	api        API
	gate       Gate
	policy     ShippingPolicy
	notifier   Notifier
	translator Translator
	metrics    *metrics.CoordinatorMetrics
	logg       *logger.Logger
	count      *observable.Subject[int]

	life   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	loading  bool
	removing bool
	clearing bool
	applying bool
	items    []apiclient.CartItem
	promo    *Promo
	pending  *int64

	// confirmed is the last quantity the server acknowledged per line; edits
	// counts quantity writes per line so only the newest one rolls back.
	confirmed map[int64]int
	edits     map[int64]uint64
}

func New(params Params) (*Composer, error) {
	if params.API == nil {
		return nil, errors.New("cart api required")
	}
	if params.Gate == nil {
		return nil, errors.New("cart session gate required")
	}
	policy := params.Policy
	if policy.FreeThreshold.IsZero() && policy.Fee.IsZero() {
		policy = DefaultPolicy()
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	life, cancel := context.WithCancel(context.Background())
	return &Composer{
		api:        params.API,
		gate:       params.Gate,
		policy:     policy,
		notifier:   params.Notifier,
		translator: params.Translator,
		metrics:    params.Metrics,
		logg:       logg,
		count:      observable.NewSubject(0),
		life:       life,
		cancel:     cancel,
		items:      []apiclient.CartItem{},
		confirmed:  map[int64]int{},
		edits:      map[int64]uint64{},
	}, nil
}

// Load replaces the lines with the server cart.
func (c *Composer) Load(ctx context.Context) error {
	if err := c.requireLogin(); err != nil {
		return err
	}
	if err := c.begin(&c.loading); err != nil {
		return err
	}
	defer c.end(&c.loading)

	reqCtx, release := c.bind(ctx)
	items, err := c.api.Cart(reqCtx)
	release()
	if err != nil {
		c.fail(ctx, "cart: load failed", err, "error_loading")
		return err
	}
	return c.commit(func() { c.replace(items) })
}

// Add puts one unit of product into the cart.
func (c *Composer) Add(ctx context.Context, product apiclient.ProductSummary) error {
	if err := c.requireLogin(); err != nil {
		return err
	}
	if product.Stock <= 0 {
		msg := c.t("out_of_stock")
		c.notify(enums.NotificationError, msg)
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}

	reqCtx, release := c.bind(ctx)
	items, err := c.api.AddToCart(reqCtx, product.ID, 1)
	if err == nil && len(items) == 0 {
		items, err = c.api.Cart(reqCtx)
	}
	release()
	if err != nil {
		c.fail(ctx, "cart: add failed", err, "error_updating")
		return err
	}
	if err := c.commit(func() { c.replace(items) }); err != nil {
		return err
	}
	c.notify(enums.NotificationSuccess, c.t("added_to_cart"))
	return nil
}

// UpdateQuantity moves a line by delta. Reaching zero opens the removal
// confirmation instead of calling the server; exceeding stock is rejected
// without a call.
func (c *Composer) UpdateQuantity(ctx context.Context, productID int64, delta int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	item, ok := c.find(productID)
	if !ok {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	next := item.Quantity + delta
	if next <= 0 {
		id := productID
		c.pending = &id
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if next > item.Stock {
		return c.maxStock()
	}
	return c.setOptimistic(ctx, "cart.update_quantity", productID, next)
}

// SetQuantity writes an exact quantity, clamped to [1, stock].
func (c *Composer) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	item, ok := c.find(productID)
	c.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if quantity < 1 {
		quantity = 1
	}
	if quantity > item.Stock {
		quantity = item.Stock
		c.notify(enums.NotificationError, c.t("max_stock"))
	}
	if quantity == item.Quantity || quantity < 1 {
		return nil
	}
	return c.setOptimistic(ctx, "cart.set_quantity", productID, quantity)
}

// setOptimistic shows quantity immediately. When the server rejects it and no
// newer write to the line is pending, the line falls back to the last quantity
// the server confirmed.
func (c *Composer) setOptimistic(ctx context.Context, name string, productID int64, quantity int) error {
	reqCtx, release := c.bind(ctx)
	defer release()

	var edit uint64
	return optimistic.Apply(reqCtx, optimistic.Mutation{
		Name: name,
		Apply: func() func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			idx := c.index(productID)
			if idx < 0 {
				return nil
			}
			c.edits[productID]++
			edit = c.edits[productID]
			c.items[idx].Quantity = quantity
			return func() {
				c.mu.Lock()
				defer c.mu.Unlock()
				if c.closed || c.edits[productID] != edit {
					return
				}
				confirmed, ok := c.confirmed[productID]
				if i := c.index(productID); i >= 0 && ok {
					c.items[i].Quantity = confirmed
				}
			}
		},
		Commit: func(ctx context.Context) error {
			if _, err := c.api.UpdateCartItem(ctx, productID, quantity); err != nil {
				return err
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.closed {
				return nil
			}
			c.confirmed[productID] = quantity
			if i := c.index(productID); i >= 0 && c.edits[productID] == edit {
				c.items[i].Quantity = quantity
			}
			return nil
		},
		OnRollback: func(name string, err error) {
			c.metrics.IncRollback(name)
			c.fail(ctx, "cart: quantity rolled back", err, "error_updating")
		},
	})
}

// PendingRemoval is the line awaiting delete confirmation, if any.
func (c *Composer) PendingRemoval() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return 0, false
	}
	return *c.pending, true
}

func (c *Composer) CancelRemoval() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// ConfirmRemoval removes the pending line. Without one it does nothing.
func (c *Composer) ConfirmRemoval(ctx context.Context) error {
	id, ok := c.PendingRemoval()
	if !ok {
		return nil
	}
	return c.RemoveItem(ctx, id)
}

// RemoveItem deletes a line once the server confirms.
func (c *Composer) RemoveItem(ctx context.Context, productID int64) error {
	if err := c.begin(&c.removing); err != nil {
		return err
	}
	defer c.end(&c.removing)

	reqCtx, release := c.bind(ctx)
	err := c.api.RemoveCartItem(reqCtx, productID)
	release()
	if err != nil {
		c.fail(ctx, "cart: remove failed", err, "error_deleting")
		return err
	}
	err = c.commit(func() {
		if i := c.index(productID); i >= 0 {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
		}
		delete(c.confirmed, productID)
		if c.pending != nil && *c.pending == productID {
			c.pending = nil
		}
	})
	if err != nil {
		return err
	}
	c.notify(enums.NotificationSuccess, c.t("item_removed"))
	return nil
}

// Clear empties the cart once the server confirms, dropping any applied promo.
func (c *Composer) Clear(ctx context.Context) error {
	if err := c.begin(&c.clearing); err != nil {
		return err
	}
	defer c.end(&c.clearing)

	reqCtx, release := c.bind(ctx)
	err := c.api.ClearCart(reqCtx)
	release()
	if err != nil {
		c.fail(ctx, "cart: clear failed", err, "error_clearing")
		return err
	}
	err = c.commit(func() {
		c.replace(nil)
		c.promo = nil
		c.pending = nil
	})
	if err != nil {
		return err
	}
	c.notify(enums.NotificationSuccess, c.t("cart_cleared"))
	return nil
}

// ApplyPromo validates code against the current subtotal and applies the
// server's discount amount as is.
func (c *Composer) ApplyPromo(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		msg := c.t("enter_promo")
		c.notify(enums.NotificationError, msg)
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	if err := c.begin(&c.applying); err != nil {
		return err
	}
	defer c.end(&c.applying)

	c.mu.Lock()
	subtotal := CalculateSummary(c.items, nil, c.policy).Subtotal
	c.mu.Unlock()

	reqCtx, release := c.bind(ctx)
	result, err := c.api.ValidatePromo(reqCtx, code, subtotal)
	release()
	if err != nil {
		c.logg.Warn(ctx, "cart: promo validation failed: "+err.Error())
		msg := c.t("invalid_promo")
		if pkgerrors.IsCode(err, pkgerrors.CodeBusiness) {
			msg = pkgerrors.UserMessage(err, c.t)
		}
		c.notify(enums.NotificationError, msg)
		return err
	}
	if !result.IsValid {
		msg := result.Message
		if msg == "" {
			msg = c.t("invalid_promo")
		}
		c.notify(enums.NotificationError, msg)
		return pkgerrors.New(pkgerrors.CodeBusiness, msg)
	}

	err = c.commit(func() {
		c.promo = &Promo{
			Code:           strings.ToUpper(code),
			DiscountAmount: result.DiscountAmount,
			DiscountType:   result.DiscountType,
			DiscountValue:  result.DiscountValue,
		}
	})
	if err != nil {
		return err
	}
	msg := result.Message
	if msg == "" {
		msg = c.t("promo_applied")
	}
	c.notify(enums.NotificationSuccess, msg)
	return nil
}

func (c *Composer) RemovePromo() {
	c.mu.Lock()
	had := c.promo != nil
	c.promo = nil
	c.mu.Unlock()
	if had {
		c.notify(enums.NotificationInfo, c.t("promo_removed"))
	}
}

// Items returns a copy of the lines.
func (c *Composer) Items() []apiclient.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]apiclient.CartItem(nil), c.items...)
}

func (c *Composer) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CalculateSummary(c.items, c.promo, c.policy)
}

// Count is the number of lines, shown on the navbar badge.
func (c *Composer) Count() int {
	return c.count.Value()
}

func (c *Composer) SubscribeCount(ctx context.Context) <-chan int {
	return c.count.Subscribe(ctx)
}

// Reset forgets lines and promo, used on logout.
func (c *Composer) Reset() {
	_ = c.commit(func() {
		c.replace(nil)
		c.promo = nil
		c.pending = nil
	})
}

// Close cancels in-flight calls; results arriving afterwards are dropped.
func (c *Composer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.count.Close()
}

func (c *Composer) requireLogin() error {
	if c.gate.IsLoggedIn() {
		return nil
	}
	c.notify(enums.NotificationError, c.t("login_required"))
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
}

func (c *Composer) maxStock() error {
	msg := c.t("max_stock")
	c.notify(enums.NotificationError, msg)
	return pkgerrors.New(pkgerrors.CodeValidation, msg)
}

// begin raises an in-progress flag; a second caller gets a conflict.
func (c *Composer) begin(flag *bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if *flag {
		return pkgerrors.New(pkgerrors.CodeConflict, "cart operation already in progress")
	}
	*flag = true
	return nil
}

func (c *Composer) end(flag *bool) {
	c.mu.Lock()
	*flag = false
	c.mu.Unlock()
}

// commit applies fn under the lock unless the composer was closed meanwhile,
// then republishes the line count.
func (c *Composer) commit(fn func()) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	fn()
	if c.items == nil {
		c.items = []apiclient.CartItem{}
	}
	n := len(c.items)
	c.mu.Unlock()
	c.count.Set(n)
	return nil
}

// fail logs err and notifies either the server's business message or the
// localized fallback.
func (c *Composer) fail(ctx context.Context, msg string, err error, fallbackKey string) {
	c.logg.Warn(ctx, msg+": "+err.Error())
	text := c.t(fallbackKey)
	if pkgerrors.IsCode(err, pkgerrors.CodeBusiness) {
		text = pkgerrors.UserMessage(err, c.t)
	}
	c.notify(enums.NotificationError, text)
}

func (c *Composer) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

// replace swaps in server lines and records their quantities as confirmed.
// Callers hold c.mu.
func (c *Composer) replace(items []apiclient.CartItem) {
	if items == nil {
		items = []apiclient.CartItem{}
	}
	c.items = items
	c.confirmed = make(map[int64]int, len(items))
	for _, item := range items {
		c.confirmed[item.ProductID] = item.Quantity
	}
}

func (c *Composer) find(productID int64) (apiclient.CartItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.items[i], true
	}
	return apiclient.CartItem{}, false
}

func (c *Composer) index(productID int64) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Composer) t(key string) string {
	if c.translator == nil {
		return key
	}
	return c.translator.T(key)
}

func (c *Composer) notify(kind enums.NotificationKind, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(kind, msg)
	}
}
