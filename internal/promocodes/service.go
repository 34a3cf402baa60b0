package promocodes

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// API is the admin promo code slice of the marketplace client.
type API interface {
	PromoCodes(ctx context.Context) ([]apiclient.PromoCode, error)
	CreatePromoCode(ctx context.Context, req apiclient.CreatePromoCode) (apiclient.PromoCode, error)
	UpdatePromoCode(ctx context.Context, id int64, req apiclient.UpdatePromoCode) (apiclient.PromoCode, error)
	DeletePromoCode(ctx context.Context, id int64) error
}

// Gate answers role checks for the signed-in session.
type Gate interface {
	HasRole(roles ...enums.Role) bool
}

type Notifier interface {
	Notify(kind enums.NotificationKind, message string)
}

type Translator interface {
	T(key string) string
}

// CreateInput is the admin form for a new promo code.
type CreateInput struct {
	Code            string              `json:"code" validate:"required,max=50"`
	DescriptionAr   string              `json:"descriptionAr,omitempty" validate:"max=500"`
	DescriptionEn   string              `json:"descriptionEn,omitempty" validate:"max=500"`
	Type            string              `json:"type" validate:"required"`
	Value           decimal.Decimal     `json:"value"`
	MaxDiscount     decimal.NullDecimal `json:"maxDiscount"`
	MinOrderAmount  decimal.NullDecimal `json:"minOrderAmount"`
	MaxUsageCount   *int                `json:"maxUsageCount,omitempty" validate:"omitempty,min=1"`
	MaxUsagePerUser *int                `json:"maxUsagePerUser,omitempty" validate:"omitempty,min=1"`
	StartDate       string              `json:"startDate,omitempty"`
	EndDate         string              `json:"endDate,omitempty"`
}

type ServiceParams struct {
	API        API
	Gate       Gate
	Notifier   Notifier
	Translator Translator
	Logger     *logger.Logger
}

// Service manages promo codes for admins. The list is cached so toggles can
// send the flipped state.
type Service struct {
	api        API
	gate       Gate
	notifier   Notifier
	translator Translator
	logg       *logger.Logger

	mu    sync.Mutex
	codes []apiclient.PromoCode
}

func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, errors.New("promo code api required")
	}
	if params.Gate == nil {
		return nil, errors.New("promo code role gate required")
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
		codes:      []apiclient.PromoCode{},
	}, nil
}

func (s *Service) List(ctx context.Context) ([]apiclient.PromoCode, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	codes, err := s.api.PromoCodes(ctx)
	if err != nil {
		s.logg.Warn(ctx, "promocodes: list failed: "+err.Error())
		return nil, err
	}
	s.mu.Lock()
	s.codes = codes
	s.mu.Unlock()
	return append([]apiclient.PromoCode{}, codes...), nil
}

// Create validates the form, upper-cases the code and refreshes the list.
func (s *Service) Create(ctx context.Context, in CreateInput) (apiclient.PromoCode, error) {
	if err := s.requireAdmin(); err != nil {
		return apiclient.PromoCode{}, err
	}
	req, err := s.buildCreate(in)
	if err != nil {
		s.notify(enums.NotificationError, pkgerrors.UserMessage(err, s.t))
		return apiclient.PromoCode{}, err
	}
	created, err := s.api.CreatePromoCode(ctx, req)
	if err != nil {
		s.fail(ctx, "promocodes: create failed", err)
		return apiclient.PromoCode{}, err
	}
	s.notify(enums.NotificationSuccess, s.t("promo_created"))
	s.refresh(ctx)
	return created, nil
}

func (s *Service) buildCreate(in CreateInput) (apiclient.CreatePromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" || !in.Value.IsPositive() {
		return apiclient.CreatePromoCode{}, pkgerrors.New(pkgerrors.CodeValidation, s.t("fill_required"))
	}
	kind, err := enums.ParsePromoType(in.Type)
	if err != nil {
		return apiclient.CreatePromoCode{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo type")
	}
	if kind == enums.PromoTypePercentage && in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return apiclient.CreatePromoCode{}, pkgerrors.New(pkgerrors.CodeValidation, "percentage must not exceed 100")
	}
	if in.MaxDiscount.Valid && in.MaxDiscount.Decimal.IsNegative() {
		return apiclient.CreatePromoCode{}, pkgerrors.New(pkgerrors.CodeValidation, "max discount must not be negative")
	}
	if in.MinOrderAmount.Valid && in.MinOrderAmount.Decimal.IsNegative() {
		return apiclient.CreatePromoCode{}, pkgerrors.New(pkgerrors.CodeValidation, "min order amount must not be negative")
	}
	return apiclient.CreatePromoCode{
		Code:            code,
		DescriptionAr:   strings.TrimSpace(in.DescriptionAr),
		DescriptionEn:   strings.TrimSpace(in.DescriptionEn),
		Type:            kind.Wire(),
		Value:           in.Value,
		MaxDiscount:     in.MaxDiscount,
		MinOrderAmount:  in.MinOrderAmount,
		MaxUsageCount:   in.MaxUsageCount,
		MaxUsagePerUser: in.MaxUsagePerUser,
		StartDate:       strings.TrimSpace(in.StartDate),
		EndDate:         strings.TrimSpace(in.EndDate),
	}, nil
}

// Toggle flips IsActive of a listed code and returns the new state.
func (s *Service) Toggle(ctx context.Context, id int64) (bool, error) {
	if err := s.requireAdmin(); err != nil {
		return false, err
	}
	current, ok := s.find(id)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}
	next := !current.IsActive
	if _, err := s.api.UpdatePromoCode(ctx, id, apiclient.UpdatePromoCode{IsActive: &next}); err != nil {
		s.fail(ctx, "promocodes: toggle failed", err)
		return current.IsActive, err
	}
	s.mu.Lock()
	for i := range s.codes {
		if s.codes[i].ID == id {
			s.codes[i].IsActive = next
		}
	}
	s.mu.Unlock()
	s.notify(enums.NotificationSuccess, s.t("promo_updated"))
	return next, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.api.DeletePromoCode(ctx, id); err != nil {
		s.fail(ctx, "promocodes: delete failed", err)
		return err
	}
	s.notify(enums.NotificationSuccess, s.t("promo_deleted"))
	s.refresh(ctx)
	return nil
}

// Codes returns the last listed codes.
func (s *Service) Codes() []apiclient.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiclient.PromoCode{}, s.codes...)
}

func (s *Service) find(id int64) (apiclient.PromoCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range s.codes {
		if code.ID == id {
			return code, true
		}
	}
	return apiclient.PromoCode{}, false
}

func (s *Service) refresh(ctx context.Context) {
	if _, err := s.List(ctx); err != nil {
		s.logg.Warn(ctx, "promocodes: refresh failed: "+err.Error())
	}
}

func (s *Service) requireAdmin() error {
	if s.gate.HasRole(enums.RoleAdmin) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
}

func (s *Service) fail(ctx context.Context, msg string, err error) {
	s.logg.Warn(ctx, msg+": "+err.Error())
	text := s.t("something_went_wrong")
	if pkgerrors.IsCode(err, pkgerrors.CodeBusiness) {
		text = pkgerrors.UserMessage(err, s.t)
	}
	s.notify(enums.NotificationError, text)
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
