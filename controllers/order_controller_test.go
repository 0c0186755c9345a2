package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/controllers"
	"github.com/khushipatel79/e-commerce-BE/middleware"
	"github.com/khushipatel79/e-commerce-BE/models"
)

func orderRouter(svc *mockOrderSvc, role string) http.Handler {
	r := newRouter()
	oc := controllers.NewOrderController(svc)
	g := r.Group("", withUser(primitive.NewObjectID(), role))
	g.POST("/orders/checkout", oc.Checkout)
	g.GET("/orders/my-orders", oc.ListMyOrders)
	g.PATCH("/orders/my-orders/:id/cancel", oc.CancelOrder)
	g.PATCH("/orders/admin/:id/status", oc.UpdateOrderStatus)
	return r
}

func TestCheckout_Created(t *testing.T) {
	svc := &mockOrderSvc{order: &models.Order{OrderNumber: "ORD-2026-1234", TotalPrice: 40}}
	r := orderRouter(svc, models.RoleUser)

	w := doJSON(r, http.MethodPost, "/orders/checkout", map[string]any{"paymentMethod": "COD"}, "Idempotency-Key", " abc-123 ")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "abc-123", svc.gotKey)
	assert.Empty(t, w.Header().Get(middleware.IdempotentReplayHeader))
	order, ok := decode(w)["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ORD-2026-1234", order["orderNumber"])
}

func TestCheckout_Replayed(t *testing.T) {
	svc := &mockOrderSvc{order: &models.Order{OrderNumber: "ORD-2026-1234"}, replayed: true}
	r := orderRouter(svc, models.RoleUser)

	w := doJSON(r, http.MethodPost, "/orders/checkout", map[string]any{"paymentMethod": "Card"}, "Idempotency-Key", "abc-123")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(middleware.IdempotentReplayHeader))
}

func TestCheckout_BadRequest(t *testing.T) {
	r := orderRouter(&mockOrderSvc{}, models.RoleUser)

	t.Run("unknown payment method", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/orders/checkout", map[string]any{"paymentMethod": "Bitcoin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(w)
		assert.Equal(t, "Invalid request", body["error"])
		assert.NotEmpty(t, body["details"])
	})

	t.Run("missing payment method", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/orders/checkout", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/orders/checkout", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckout_ServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  *apperrors.Error
		code int
	}{
		{"empty cart", apperrors.InvalidState(apperrors.MsgEmptyCart), http.StatusBadRequest},
		{"key in flight", apperrors.Conflict("A checkout with this Idempotency-Key is already in progress"), http.StatusConflict},
		{"store down", apperrors.Internal(assert.AnError), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := orderRouter(&mockOrderSvc{err: tc.err}, models.RoleUser)
			w := doJSON(r, http.MethodPost, "/orders/checkout", map[string]any{"paymentMethod": "COD"})
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.err.Message, decode(w)["error"])
		})
	}
}

func TestUpdateOrderStatus_ValidatesEnum(t *testing.T) {
	svc := &mockOrderSvc{order: &models.Order{OrderStatus: models.OrderStatusShipped}}
	r := orderRouter(svc, models.RoleAdmin)

	w := doJSON(r, http.MethodPatch, "/orders/admin/abc/status", map[string]any{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotStatus)

	w = doJSON(r, http.MethodPatch, "/orders/admin/abc/status", map[string]any{"status": "Shipped"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusShipped, svc.gotStatus)
}

func TestCancelOrder_PassesRole(t *testing.T) {
	svc := &mockOrderSvc{order: &models.Order{OrderStatus: models.OrderStatusCancelled}}
	r := orderRouter(svc, models.RoleAdmin)

	w := doJSON(r, http.MethodPatch, "/orders/my-orders/ORD-2026-1001/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.gotActor.IsAdmin())

	svc.err = apperrors.InvalidState("Only pending orders can be cancelled")
	w = doJSON(r, http.MethodPatch, "/orders/my-orders/ORD-2026-1001/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMyOrders_Pagination(t *testing.T) {
	r := orderRouter(&mockOrderSvc{}, models.RoleUser)
	w := doJSON(r, http.MethodGet, "/orders/my-orders?page=0&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)

	meta, ok := decode(w)["meta"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, meta["page"])
	assert.EqualValues(t, controllers.MaxPageSize, meta["limit"])
}
