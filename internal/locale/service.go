package locale

import (
	"context"
	"errors"

	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/observable"
	"github.com/nhc-marketplace/storefront/pkg/storage"
	"github.com/shopspring/decimal"
)

// ServiceParams groups dependencies for the locale service.
type ServiceParams struct {
	Store       storage.KV
	LanguageKey string
	Catalog     *Catalog
	Logger      *logger.Logger
}

// Service owns the active language of one workspace.
type Service struct {
	store   storage.KV
	key     string
	catalog *Catalog
	lang    *observable.Subject[enums.Lang]
	logg    *logger.Logger
}

// NewService seeds the language from storage, falling back to English when the
// stored value is missing or unknown.
func NewService(ctx context.Context, params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, errors.New("locale store required")
	}
	if params.LanguageKey == "" {
		return nil, errors.New("language key required")
	}
	catalog := params.Catalog
	if catalog == nil {
		var err error
		if catalog, err = DefaultCatalog(); err != nil {
			return nil, err
		}
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	initial := enums.DefaultLang
	saved, ok, err := params.Store.Get(ctx, params.LanguageKey)
	if err != nil {
		logg.Warn(ctx, "locale: reading saved language failed, using default")
	} else if ok {
		if lang, parseErr := enums.ParseLang(saved); parseErr == nil {
			initial = lang
		}
	}

	return &Service{
		store:   params.Store,
		key:     params.LanguageKey,
		catalog: catalog,
		lang:    observable.NewSubject(initial),
		logg:    logg,
	}, nil
}

// Lang returns the active language.
func (s *Service) Lang() enums.Lang {
	return s.lang.Value()
}

// Switch changes and persists the active language.
func (s *Service) Switch(ctx context.Context, lang enums.Lang) error {
	if !lang.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported language").
			WithDetails(map[string]any{"lang": string(lang)})
	}
	s.lang.Set(lang)
	if err := s.store.Set(ctx, s.key, string(lang)); err != nil {
		s.logg.Error(ctx, "locale: persisting language failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist language")
	}
	return nil
}

// Subscribe streams the active language, starting with the current one.
func (s *Service) Subscribe(ctx context.Context) <-chan enums.Lang {
	return s.lang.Subscribe(ctx)
}

// T translates key into the active language; unknown keys come back unchanged.
func (s *Service) T(key string) string {
	return s.catalog.Lookup(key, s.Lang())
}

func (s *Service) IsRTL() bool {
	return s.Lang().IsRTL()
}

// Name picks the Arabic or English variant of a bilingual field.
func (s *Service) Name(ar, en string) string {
	if s.Lang() == enums.LangArabic && ar != "" {
		return ar
	}
	if en == "" {
		return ar
	}
	return en
}

func (s *Service) FormatPrice(amount decimal.Decimal) string {
	return FormatPrice(amount, s.Lang())
}

func (s *Service) FormatSaving(amount decimal.Decimal) string {
	return FormatSaving(amount, s.Lang())
}

// Close ends all language subscriptions.
func (s *Service) Close() {
	s.lang.Close()
}
