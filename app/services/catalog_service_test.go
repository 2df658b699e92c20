package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/orm"
	"github.com/chiquebutik/butik/pkg/testkit"
)

func TestCatalogBrowse(t *testing.T) {
	db := testkit.DB(t)
	svc := services.NewCatalogService(repositories.NewProductRepository(db))
	ctx := context.Background()
	testkit.Product(t, db, "Sommarklänning", "499.00")
	testkit.Product(t, db, "Vinterkappa", "1299.00", testkit.WithCategory("jackor"))

	page, err := svc.List(ctx, " jackor ", orm.Page{Limit: 500})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, orm.MaxLimit, page.Page.Limit)

	found, err := svc.Search(ctx, "SOMMAR", orm.Page{})
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := svc.Search(ctx, "   ", orm.Page{})
	require.NoError(t, err)
	assert.Empty(t, none)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"jackor", "klänningar"}, cats)

	_, err = svc.Get(ctx, 0)
	assert.Equal(t, errs.InvalidArgument, errs.KindOf(err))
}

func TestOrderHistoryIsScopedToUser(t *testing.T) {
	db := testkit.DB(t)
	svc := services.NewOrderService(repositories.NewOrderRepository(db))
	ctx := context.Background()
	owner, other := "user-1", "user-2"
	require.NoError(t, db.Create(&models.Order{UserID: &owner, StripeSession: "cs_a", Currency: "sek", Status: models.OrderStatusPaid}).Error)
	require.NoError(t, db.Create(&models.Order{UserID: &other, StripeSession: "cs_b", Currency: "sek", Status: models.OrderStatusPaid}).Error)

	rows, err := svc.History(ctx, owner, orm.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "cs_a", rows[0].StripeSession)

	_, err = svc.History(ctx, "", orm.Page{})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
}
