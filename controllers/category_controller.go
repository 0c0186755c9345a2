package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type CategoryController struct {
	svc services.CategoryService
}

func NewCategoryController(svc services.CategoryService) *CategoryController {
	return &CategoryController{svc: svc}
}

// CreateCategory handles POST /categories
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req models.CreateCategoryRequest
	if !bindJSON(ctx, &req) {
		return
	}
	category, appErr := c.svc.CreateCategory(ctx.Request.Context(), actor, &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories handles GET /categories
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	result, appErr := c.svc.ListCategories(
		ctx.Request.Context(),
		page,
		limit,
		strings.TrimSpace(ctx.Query("search")),
		strings.TrimSpace(ctx.Query("parentCategory")),
	)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetCategory handles GET /categories/:id (id or slug)
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	category, appErr := c.svc.GetCategory(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles PATCH /categories/:id
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	var req models.UpdateCategoryRequest
	if !bindJSON(ctx, &req) {
		return
	}
	category, appErr := c.svc.UpdateCategory(ctx.Request.Context(), ctx.Param("id"), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles DELETE /categories/:id
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	if appErr := c.svc.DeleteCategory(ctx.Request.Context(), ctx.Param("id")); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
