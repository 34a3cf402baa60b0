package promocodes

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
)

type stubAPI struct {
	codes   []apiclient.PromoCode
	created []apiclient.CreatePromoCode
	updates map[int64]bool
	deleted []int64
}

func (s *stubAPI) PromoCodes(context.Context) ([]apiclient.PromoCode, error) {
	return append([]apiclient.PromoCode(nil), s.codes...), nil
}

func (s *stubAPI) CreatePromoCode(_ context.Context, req apiclient.CreatePromoCode) (apiclient.PromoCode, error) {
	s.created = append(s.created, req)
	code := apiclient.PromoCode{ID: int64(len(s.codes) + 1), Code: req.Code, IsActive: true}
	s.codes = append(s.codes, code)
	return code, nil
}

func (s *stubAPI) UpdatePromoCode(_ context.Context, id int64, req apiclient.UpdatePromoCode) (apiclient.PromoCode, error) {
	if s.updates == nil {
		s.updates = map[int64]bool{}
	}
	s.updates[id] = *req.IsActive
	return apiclient.PromoCode{ID: id, IsActive: *req.IsActive}, nil
}

func (s *stubAPI) DeletePromoCode(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type roleGate enums.Role

func (g roleGate) HasRole(roles ...enums.Role) bool {
	for _, r := range roles {
		if r == enums.Role(g) {
			return true
		}
	}
	return false
}

func newService(t *testing.T, api *stubAPI, role enums.Role) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{API: api, Gate: roleGate(role)})
	require.NoError(t, err)
	return svc
}

func TestCreateUppercasesAndRefreshes(t *testing.T) {
	api := &stubAPI{}
	svc := newService(t, api, enums.RoleAdmin)

	_, err := svc.Create(context.Background(), CreateInput{Code: " summer25 ", Type: "Percentage", Value: decimal.NewFromInt(25)})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, "SUMMER25", api.created[0].Code)
	assert.Equal(t, 0, api.created[0].Type)
	assert.Len(t, svc.Codes(), 1)
}

func TestCreateValidates(t *testing.T) {
	api := &stubAPI{}
	svc := newService(t, api, enums.RoleAdmin)
	ctx := context.Background()

	cases := []CreateInput{
		{Code: "", Type: "Fixed", Value: decimal.NewFromInt(5)},
		{Code: "ZERO", Type: "Fixed"},
		{Code: "BIG", Type: "Percentage", Value: decimal.NewFromInt(150)},
		{Code: "ODD", Type: "bogus", Value: decimal.NewFromInt(5)},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %+v", in)
	}
	assert.Empty(t, api.created)
}

func TestToggleFlipsListedCode(t *testing.T) {
	api := &stubAPI{codes: []apiclient.PromoCode{{ID: 3, Code: "A", IsActive: true}}}
	svc := newService(t, api, enums.RoleAdmin)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "toggle before list")

	_, err = svc.List(ctx)
	require.NoError(t, err)
	active, err := svc.Toggle(ctx, 3)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, map[int64]bool{3: false}, api.updates)
	assert.False(t, svc.Codes()[0].IsActive)
}

func TestNonAdminIsForbidden(t *testing.T) {
	api := &stubAPI{}
	svc := newService(t, api, enums.RoleCustomer)

	_, err := svc.List(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), 1), pkgerrors.CodeForbidden))
	assert.Empty(t, api.deleted)
}
