package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

func TestWishlistToggle(t *testing.T) {
	products := newMockProductRepo()
	svc := services.NewWishlistService(newMockWishlistRepo(), products, zap.NewNop())
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := products.add(&models.Product{Title: "Plant", Price: 7, IsActive: true})

	res, appErr := svc.ToggleProduct(ctx, userID, p.ID.Hex())
	require.Nil(t, appErr)
	assert.True(t, res.Added)
	assert.Equal(t, "Product added to wishlist", res.Message)
	assert.Equal(t, []primitive.ObjectID{p.ID}, res.Wishlist.Products)
	require.Len(t, res.Wishlist.Items, 1)
	assert.Equal(t, "Plant", res.Wishlist.Items[0].Title)

	res, appErr = svc.ToggleProduct(ctx, userID, p.ID.Hex())
	require.Nil(t, appErr)
	assert.False(t, res.Added)
	assert.Equal(t, "Product removed from wishlist", res.Message)
	assert.Empty(t, res.Wishlist.Products)

	_, appErr = svc.ToggleProduct(ctx, userID, primitive.NewObjectID().Hex())
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)

	_, appErr = svc.ToggleProduct(ctx, userID, "not-an-id")
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestWishlistGetAndClear(t *testing.T) {
	products := newMockProductRepo()
	svc := services.NewWishlistService(newMockWishlistRepo(), products, zap.NewNop())
	ctx := context.Background()
	userID := primitive.NewObjectID()

	w, appErr := svc.GetWishlist(ctx, userID)
	require.Nil(t, appErr)
	assert.Empty(t, w.Products)

	p := products.add(&models.Product{Title: "Plant", IsActive: true})
	_, appErr = svc.ToggleProduct(ctx, userID, p.ID.Hex())
	require.Nil(t, appErr)

	w, appErr = svc.ClearWishlist(ctx, userID)
	require.Nil(t, appErr)
	assert.Empty(t, w.Products)
}
