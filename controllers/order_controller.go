package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/middleware"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 128
)

type OrderController struct {
	svc services.OrderService
}

func NewOrderController(svc services.OrderService) *OrderController {
	return &OrderController{svc: svc}
}

// Checkout handles POST /orders/checkout
func (c *OrderController) Checkout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.CheckoutRequest
	if !bindJSON(ctx, &req) {
		return
	}
	key := strings.TrimSpace(ctx.GetHeader(idempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key is too long"})
		return
	}

	order, replayed, appErr := c.svc.Checkout(ctx.Request.Context(), userID, &req, key)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	if replayed {
		ctx.Header(middleware.IdempotentReplayHeader, "true")
		ctx.JSON(http.StatusOK, gin.H{"message": "Order already placed", "order": order})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// ListMyOrders handles GET /orders/my-orders
func (c *OrderController) ListMyOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, limit := parsePaginationParams(ctx)
	result, appErr := c.svc.ListMyOrders(ctx.Request.Context(), userID, page, limit)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetOrder handles GET /orders/my-orders/:id (id or order number)
func (c *OrderController) GetOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	order, appErr := c.svc.GetOrder(ctx.Request.Context(), actor, ctx.Param("id"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder handles PATCH /orders/my-orders/:id/cancel
func (c *OrderController) CancelOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	order, appErr := c.svc.CancelOrder(ctx.Request.Context(), actor, ctx.Param("id"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
}

// ListAllOrders handles GET /orders/admin/all
func (c *OrderController) ListAllOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	result, appErr := c.svc.ListAllOrders(ctx.Request.Context(), page, limit, strings.TrimSpace(ctx.Query("status")))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UpdateOrderStatus handles PATCH /orders/admin/:id/status
func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}
	order, appErr := c.svc.UpdateOrderStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}
