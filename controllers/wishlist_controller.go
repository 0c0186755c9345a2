package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/services"
)

type WishlistController struct {
	svc services.WishlistService
}

func NewWishlistController(svc services.WishlistService) *WishlistController {
	return &WishlistController{svc: svc}
}

// GetWishlist handles GET /wishlist
func (c *WishlistController) GetWishlist(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	wishlist, appErr := c.svc.GetWishlist(ctx.Request.Context(), userID)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}

// ToggleProduct handles POST /wishlist/:productId
func (c *WishlistController) ToggleProduct(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	result, appErr := c.svc.ToggleProduct(ctx.Request.Context(), userID, ctx.Param("productId"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ClearWishlist handles DELETE /wishlist
func (c *WishlistController) ClearWishlist(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	wishlist, appErr := c.svc.ClearWishlist(ctx.Request.Context(), userID)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Wishlist cleared", "wishlist": wishlist})
}
