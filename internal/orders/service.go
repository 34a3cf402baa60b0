package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	API        API
	Gate       Gate
	Cart       Cart
	Notifier   Notifier
	Translator Translator
	Logger     *logger.Logger
}

type Service struct {
	api        API
	gate       Gate
	cart       Cart
	notifier   Notifier
	translator Translator
	logg       *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, errors.New("orders api required")
	}
	if params.Gate == nil {
		return nil, errors.New("orders session gate required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		api:        params.API,
		gate:       params.Gate,
		cart:       params.Cart,
		notifier:   params.Notifier,
		translator: params.Translator,
		logg:       logg,
	}, nil
}

// Place turns the cart into an order. Shipping name, phone and address are
// required and the cart must not be empty. For card payments the result carries
// the off-site checkout URL.
func (s *Service) Place(ctx context.Context, req apiclient.CreateOrder) (apiclient.PlacedOrder, error) {
	if err := s.requireLogin(); err != nil {
		return apiclient.PlacedOrder{}, err
	}
	req.ShippingName = strings.TrimSpace(req.ShippingName)
	req.ShippingPhone = strings.TrimSpace(req.ShippingPhone)
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.ShippingCity = strings.TrimSpace(req.ShippingCity)
	req.ShippingNotes = strings.TrimSpace(req.ShippingNotes)

	missing := map[string]string{}
	if req.ShippingName == "" {
		missing["shippingName"] = "is required"
	}
	if req.ShippingPhone == "" {
		missing["shippingPhone"] = "is required"
	}
	if req.ShippingAddress == "" {
		missing["shippingAddress"] = "is required"
	}
	if len(missing) > 0 {
		msg := s.t("fill_required")
		s.notify(enums.NotificationError, msg)
		return apiclient.PlacedOrder{}, pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(missing)
	}
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return apiclient.PlacedOrder{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	req.PaymentMethod = method.String()
	if s.cart != nil && s.cart.Count() == 0 {
		msg := s.t("cart_empty")
		s.notify(enums.NotificationError, msg)
		return apiclient.PlacedOrder{}, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}

	placed, err := s.api.PlaceOrder(ctx, req)
	if err != nil {
		s.logg.Warn(ctx, "orders: place failed: "+err.Error())
		msg := s.t("error_placing_order")
		if pkgerrors.IsCode(err, pkgerrors.CodeBusiness) {
			msg = pkgerrors.UserMessage(err, s.t)
		}
		s.notify(enums.NotificationError, msg)
		return apiclient.PlacedOrder{}, err
	}

	ctx = s.logg.WithField(ctx, "order_number", placed.Order.OrderNumber)
	s.logg.Info(ctx, "orders: placed")
	s.notify(enums.NotificationSuccess, s.t("order_placed"))
	if s.cart != nil {
		if err := s.cart.Load(ctx); err != nil {
			s.logg.Warn(ctx, "orders: cart refresh after checkout failed: "+err.Error())
		}
	}
	return placed, nil
}

func (s *Service) Mine(ctx context.Context) ([]apiclient.OrderSummary, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}
	return s.api.MyOrders(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (apiclient.Order, error) {
	if err := s.requireLogin(); err != nil {
		return apiclient.Order{}, err
	}
	if id <= 0 {
		return apiclient.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	return s.api.Order(ctx, id)
}

// Cancel asks the server to cancel an order. Orders past confirmation are
// rejected locally when their status is known.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.Cancellable() {
		return pkgerrors.New(pkgerrors.CodeConflict, "order can no longer be cancelled")
	}
	if err := s.api.CancelOrder(ctx, id); err != nil {
		s.logg.Warn(ctx, "orders: cancel failed: "+err.Error())
		msg := s.t("something_went_wrong")
		if pkgerrors.IsCode(err, pkgerrors.CodeBusiness) {
			msg = pkgerrors.UserMessage(err, s.t)
		}
		s.notify(enums.NotificationError, msg)
		return err
	}
	s.notify(enums.NotificationSuccess, s.t("order_cancelled"))
	return nil
}

func (s *Service) requireLogin() error {
	if s.gate.IsLoggedIn() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
}

func (s *Service) t(key string) string {
	if s.translator == nil {
		return key
	}
	return s.translator.T(key)
}

func (s *Service) notify(kind enums.NotificationKind, msg string) {
	if s.notifier != nil {
		s.notifier.Notify(kind, msg)
	}
}
