package warehouses

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/llanero/admin-backend/internal/testdb"
	"github.com/llanero/admin-backend/pkg/db/models"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(testdb.New(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateListAndFilter(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	actor := uuid.New()

	inactive := false
	_, err := svc.Create(ctx, actor, CreateWarehouseInput{Name: "Bodegón Centro", Address: "Av. Bolívar", DeliveryFeeUSD: decimal.NewFromFloat(1.5)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, CreateWarehouseInput{Name: "Restaurante Llano", Address: "Calle 5", IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, CreateWarehouseInput{Name: "Bodegón Norte", Address: "Av. Principal"})
	require.NoError(t, err)

	page, err := svc.List(ctx, pagination.Params{Page: 1, PageSize: 2}, ListFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.TotalCount)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	require.Equal(t, "Bodegón Centro", page.Data[0].Name)

	page, err = svc.List(ctx, pagination.Params{}, ListFilter{Search: "bodeg"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.TotalCount)

	active := false
	page, err = svc.List(ctx, pagination.Params{}, ListFilter{IsActive: &active})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalCount)
	require.Equal(t, "Restaurante Llano", page.Data[0].Name)
	require.False(t, page.Data[0].IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.Nil, CreateWarehouseInput{Name: " ", Address: "x"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), uuid.Nil, CreateWarehouseInput{Name: "x", Address: "y", DeliveryFeeUSD: decimal.NewFromInt(-1)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateReturnsAuthoritativeRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	actor := uuid.New()

	created, err := svc.Create(ctx, uuid.Nil, CreateWarehouseInput{Name: "Bodegón", Address: "Calle 1"})
	require.NoError(t, err)

	name := "Bodegón La Esquina"
	fee := decimal.RequireFromString("2.499")
	updated, err := svc.Update(ctx, actor, created.ID, UpdateWarehouseInput{Name: &name, DeliveryFeeUSD: &fee})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, "2.5", updated.DeliveryFeeUSD.String())
	require.NotNil(t, updated.UpdatedBy)
	require.Equal(t, actor, *updated.UpdatedBy)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, name, got.Name)

	toggled, err := svc.SetActive(ctx, actor, created.ID, false)
	require.NoError(t, err)
	require.False(t, toggled.IsActive)
}

func TestDeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, uuid.Nil, CreateWarehouseInput{Name: "Temporal", Address: "Calle 2"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))

	_, err = svc.Get(ctx, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type failingRepo struct {
	Repository
}

func (failingRepo) List(context.Context, pagination.Params, ListFilter) (pagination.Page[models.Warehouse], error) {
	return pagination.Page[models.Warehouse]{}, errors.New("permission denied for table warehouses")
}

func TestBackendErrorKeepsMessage(t *testing.T) {
	svc, err := NewService(failingRepo{})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), pagination.Params{}, ListFilter{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
	require.Equal(t, map[string]any{"cause": "permission denied for table warehouses"}, typed.Details())
}
