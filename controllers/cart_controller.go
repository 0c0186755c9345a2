package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type CartController struct {
	svc services.CartService
}

func NewCartController(svc services.CartService) *CartController {
	return &CartController{svc: svc}
}

// GetCart handles GET /cart
func (c *CartController) GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cart, appErr := c.svc.GetCart(ctx.Request.Context(), userID)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddToCart handles POST /cart
func (c *CartController) AddToCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.CartItemRequest
	if !bindJSON(ctx, &req) {
		return
	}
	cart, appErr := c.svc.AddToCart(ctx.Request.Context(), userID, &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateQuantity handles PATCH /cart
func (c *CartController) UpdateQuantity(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.CartItemRequest
	if !bindJSON(ctx, &req) {
		return
	}
	cart, appErr := c.svc.UpdateQuantity(ctx.Request.Context(), userID, &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem handles DELETE /cart/items/:productId
func (c *CartController) RemoveItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cart, appErr := c.svc.RemoveItem(
		ctx.Request.Context(),
		userID,
		ctx.Param("productId"),
		ctx.Query("selectedColor"),
		ctx.Query("selectedSize"),
	)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// ClearCart handles DELETE /cart
func (c *CartController) ClearCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cart, appErr := c.svc.ClearCart(ctx.Request.Context(), userID)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}
