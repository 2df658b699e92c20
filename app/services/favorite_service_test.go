package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/testkit"
)

func TestFavoriteToggleRoundTrip(t *testing.T) {
	db := testkit.DB(t)
	ctx := context.Background()
	svc := services.NewFavoriteService(repositories.NewProductRepository(db), repositories.NewFavoriteRepository(db))
	p := testkit.Product(t, db, "Klänning", "499.00", testkit.WithSizes("S"))

	res, err := svc.Toggle(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.True(t, res.Added)
	require.NotNil(t, res.Favorite)
	assert.Equal(t, p.ID, res.Favorite.ProductID)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Klänning", list[0].Product.Title)
	assert.Len(t, list[0].Product.Sizes, 1)

	res, err = svc.Toggle(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Nil(t, res.Favorite)

	list, err = svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavoriteToggleErrors(t *testing.T) {
	db := testkit.DB(t)
	ctx := context.Background()
	svc := services.NewFavoriteService(repositories.NewProductRepository(db), repositories.NewFavoriteRepository(db))

	_, err := svc.Toggle(ctx, "", 1)
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
	_, err = svc.Toggle(ctx, "user-1", 0)
	assert.Equal(t, errs.InvalidArgument, errs.KindOf(err))
	_, err = svc.Toggle(ctx, "user-1", 42)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}
