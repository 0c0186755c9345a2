package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type ReviewController struct {
	svc services.ReviewService
}

func NewReviewController(svc services.ReviewService) *ReviewController {
	return &ReviewController{svc: svc}
}

// CreateReview handles POST /reviews
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.CreateReviewRequest
	if !bindJSON(ctx, &req) {
		return
	}
	review, appErr := c.svc.CreateReview(ctx.Request.Context(), userID, &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Review submitted for approval", "review": review})
}

// GetProductReviews handles GET /reviews/product/:productId
func (c *ReviewController) GetProductReviews(ctx *gin.Context) {
	reviews, appErr := c.svc.GetProductReviews(ctx.Request.Context(), ctx.Param("productId"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// DeleteReview handles DELETE /reviews/:id
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	if appErr := c.svc.DeleteReview(ctx.Request.Context(), actor, ctx.Param("id")); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// ListPendingReviews handles GET /reviews/admin/pending
func (c *ReviewController) ListPendingReviews(ctx *gin.Context) {
	reviews, appErr := c.svc.ListPendingReviews(ctx.Request.Context())
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// SetReviewStatus handles PATCH /reviews/admin/:id/status
func (c *ReviewController) SetReviewStatus(ctx *gin.Context) {
	var req models.ReviewStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}
	review, appErr := c.svc.SetReviewApproval(ctx.Request.Context(), ctx.Param("id"), *req.IsApproved)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"review": review})
}
