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

func newCartService() (services.CartService, *mockProductRepo) {
	products := newMockProductRepo()
	return services.NewCartService(newMockCartRepo(), products, zap.NewNop()), products
}

func assertCartTotal(t *testing.T, cart *models.Cart) {
	t.Helper()
	var want float64
	for _, it := range cart.Items {
		want += it.Price * float64(it.Quantity)
	}
	assert.InDelta(t, want, cart.TotalPrice, 0.001)
}

func TestAddToCart_MergesSameVariant(t *testing.T) {
	svc, products := newCartService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	tee := products.add(&models.Product{Title: "Tee", Price: 12.5, Stock: 10, IsActive: true})

	cart, appErr := svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: tee.ID.Hex(), Quantity: 1, SelectedSize: "M"})
	require.Nil(t, appErr)
	cart, appErr = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: tee.ID.Hex(), Quantity: 2, SelectedSize: "M"})
	require.Nil(t, appErr)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assertCartTotal(t, cart)
	require.NotNil(t, cart.Items[0].ProductDetails)
	assert.Equal(t, "Tee", cart.Items[0].ProductDetails.Title)

	cart, appErr = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: tee.ID.Hex(), Quantity: 1, SelectedSize: "L"})
	require.Nil(t, appErr)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 50.0, cart.TotalPrice)
}

func TestAddToCart_UsesPriceSnapshot(t *testing.T) {
	svc, products := newCartService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	mug := products.add(&models.Product{Title: "Mug", Price: 10, Stock: 10, IsActive: true})

	_, appErr := svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: mug.ID.Hex(), Quantity: 1})
	require.Nil(t, appErr)
	products.products[mug.ID].Price = 99

	cart, appErr := svc.UpdateQuantity(ctx, userID, &models.CartItemRequest{ProductID: mug.ID.Hex(), Quantity: 2})
	require.Nil(t, appErr)
	assert.Equal(t, 20.0, cart.TotalPrice)
}

func TestAddToCart_StockChecks(t *testing.T) {
	svc, products := newCartService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	lamp := products.add(&models.Product{Title: "Lamp", Price: 30, Stock: 2, IsActive: true})

	_, appErr := svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: lamp.ID.Hex(), Quantity: 2})
	require.Nil(t, appErr)

	_, appErr = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: lamp.ID.Hex(), Quantity: 1})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindInvalidState, appErr.Kind)
	assert.Equal(t, apperrors.MsgInsufficientStock, appErr.Message)

	_, appErr = svc.UpdateQuantity(ctx, userID, &models.CartItemRequest{ProductID: lamp.ID.Hex(), Quantity: 3})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindInvalidState, appErr.Kind)

	_, appErr = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: primitive.NewObjectID().Hex(), Quantity: 1})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

func TestRemoveAndClearCart(t *testing.T) {
	svc, products := newCartService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	a := products.add(&models.Product{Title: "A", Price: 3, Stock: 10, IsActive: true})
	b := products.add(&models.Product{Title: "B", Price: 4, Stock: 10, IsActive: true})

	_, _ = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: a.ID.Hex(), Quantity: 1, SelectedColor: "red"})
	_, _ = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: a.ID.Hex(), Quantity: 1, SelectedColor: "blue"})
	_, _ = svc.AddToCart(ctx, userID, &models.CartItemRequest{ProductID: b.ID.Hex(), Quantity: 2})

	cart, appErr := svc.RemoveItem(ctx, userID, a.ID.Hex(), "red", "")
	require.Nil(t, appErr)
	assert.Len(t, cart.Items, 2)
	assertCartTotal(t, cart)

	cart, appErr = svc.RemoveItem(ctx, userID, a.ID.Hex(), "", "")
	require.Nil(t, appErr)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 8.0, cart.TotalPrice)

	_, appErr = svc.RemoveItem(ctx, userID, a.ID.Hex(), "", "")
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)

	cart, appErr = svc.ClearCart(ctx, userID)
	require.Nil(t, appErr)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
}

func TestGetCart_CreatesEmptyCart(t *testing.T) {
	svc, _ := newCartService()
	cart, appErr := svc.GetCart(context.Background(), primitive.NewObjectID())
	require.Nil(t, appErr)
	assert.False(t, cart.ID.IsZero())
	assert.Empty(t, cart.Items)
}
