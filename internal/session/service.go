package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/observable"
	"github.com/nhc-marketplace/storefront/pkg/storage"
)

const (
	tokenSuffix = "Token"
	roleSuffix  = "Role"
)

// Authenticator is the slice of the marketplace API the session needs.
type Authenticator interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (apiclient.AuthResult, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (apiclient.AuthResult, error)
}

// State is what the rest of the workspace observes about authentication.
type State struct {
	LoggedIn bool       `json:"loggedIn"`
	Role     enums.Role `json:"role,omitempty"`
}

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	Store     storage.KV
	KeyPrefix string
	Auth      Authenticator
	Logger    *logger.Logger
	Now       func() time.Time
}

// Service derives the logged-in state from the persisted token. Login, SaveToken
// and Logout are the only writers.
type Service struct {
	store    storage.KV
	tokenKey string
	roleKey  string
	auth     Authenticator
	logg     *logger.Logger
	now      func() time.Time

	mu    sync.RWMutex
	token string
	state *observable.Subject[State]
}

// NewService reads the persisted token and role. A JWT whose exp has passed is
// discarded so the session boots logged out.
func NewService(ctx context.Context, params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, errors.New("session store required")
	}
	if params.Auth == nil {
		return nil, errors.New("session authenticator required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	s := &Service{
		store:    params.Store,
		tokenKey: params.KeyPrefix + tokenSuffix,
		roleKey:  params.KeyPrefix + roleSuffix,
		auth:     params.Auth,
		logg:     logg,
		now:      now,
		state:    observable.NewSubject(State{}),
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) restore(ctx context.Context) error {
	token, ok, err := s.store.Get(ctx, s.tokenKey)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(token) == "" {
		return nil
	}
	if expired(token, s.now()) {
		s.logg.Info(ctx, "session: persisted token expired, signing out")
		return s.clear(ctx)
	}
	rawRole, _, err := s.store.Get(ctx, s.roleKey)
	if err != nil {
		return err
	}
	role, _ := enums.ParseRole(rawRole)

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.state.Set(State{LoggedIn: true, Role: role})
	return nil
}

// expired reports whether token is a JWT with an exp claim in the past.
// Opaque tokens are never considered expired here; the server decides.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Login authenticates with the marketplace and stores the issued token.
func (s *Service) Login(ctx context.Context, req apiclient.LoginRequest) (State, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	result, err := s.auth.Login(ctx, req)
	if err != nil {
		return State{}, err
	}
	if result.Token == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeBusiness, fallback(result.Message, "login did not return a token"))
	}
	if err := s.SaveToken(ctx, result.Token, result.Role); err != nil {
		return State{}, err
	}
	return s.State(), nil
}

// Register creates an account. When the server issues a token straight away the
// session is signed in; otherwise the account awaits approval.
func (s *Service) Register(ctx context.Context, req apiclient.RegisterRequest) (apiclient.AuthResult, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil || !role.SelfRegistrable() {
		return apiclient.AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "role must be Customer, Vendor or DeliveryAgent")
	}
	if req.Password != req.ConfirmPassword {
		return apiclient.AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	req.Role = role.String()
	result, err := s.auth.Register(ctx, req)
	if err != nil {
		return apiclient.AuthResult{}, err
	}
	if result.Token != "" {
		if err := s.SaveToken(ctx, result.Token, fallback(result.Role, req.Role)); err != nil {
			return apiclient.AuthResult{}, err
		}
	}
	return result, nil
}

// SaveToken persists token and role and marks the session logged in.
func (s *Service) SaveToken(ctx context.Context, token, rawRole string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	role, _ := enums.ParseRole(rawRole)
	if err := s.store.Set(ctx, s.tokenKey, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist token")
	}
	if err := s.store.Set(ctx, s.roleKey, role.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist role")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.state.Set(State{LoggedIn: true, Role: role})
	s.logg.Info(s.logg.WithActorRole(ctx, role.String()), "session: signed in")
	return nil
}

// Logout forgets the token and role.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	s.logg.Info(ctx, "session: signed out")
	return nil
}

func (s *Service) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.state.Set(State{})
	if err := s.store.Delete(ctx, s.tokenKey); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.roleKey)
}

// Token returns the bearer token, or "" when logged out. It satisfies apiclient.TokenSource.
func (s *Service) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Service) State() State {
	return s.state.Value()
}

func (s *Service) IsLoggedIn() bool {
	return s.State().LoggedIn
}

func (s *Service) Role() enums.Role {
	return s.State().Role
}

// HasRole reports whether the session is logged in with one of roles.
func (s *Service) HasRole(roles ...enums.Role) bool {
	st := s.State()
	if !st.LoggedIn {
		return false
	}
	for _, r := range roles {
		if st.Role == r {
			return true
		}
	}
	return false
}

// Subscribe streams the auth state, starting with the current one.
func (s *Service) Subscribe(ctx context.Context) <-chan State {
	return s.state.Subscribe(ctx)
}

// RequireLogin returns an unauthorized error when the session is anonymous.
func (s *Service) RequireLogin() error {
	if !s.IsLoggedIn() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return nil
}

func (s *Service) Close() {
	s.state.Close()
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
