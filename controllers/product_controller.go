package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type ProductController struct {
	svc       services.ProductService
	validator *RequestValidator
}

func NewProductController(svc services.ProductService) *ProductController {
	return &ProductController{svc: svc, validator: NewRequestValidator()}
}

// CreateProduct handles POST /products
func (c *ProductController) CreateProduct(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req models.CreateProductRequest
	if !bindJSON(ctx, &req) {
		return
	}
	product, appErr := c.svc.CreateProduct(ctx.Request.Context(), actor, &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// ListProducts handles GET /products
func (c *ProductController) ListProducts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	filter, err := c.validator.ParseFilters(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, appErr := c.svc.ListProducts(ctx.Request.Context(), page, limit, filter)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetProduct handles GET /products/:id (id or slug)
func (c *ProductController) GetProduct(ctx *gin.Context) {
	product, appErr := c.svc.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// GetRelatedProducts handles GET /products/:id/related
func (c *ProductController) GetRelatedProducts(ctx *gin.Context) {
	products, appErr := c.svc.GetRelatedProducts(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// UpdateProduct handles PATCH /products/:id
func (c *ProductController) UpdateProduct(ctx *gin.Context) {
	var req models.UpdateProductRequest
	if !bindJSON(ctx, &req) {
		return
	}
	product, appErr := c.svc.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles DELETE /products/:id
func (c *ProductController) DeleteProduct(ctx *gin.Context) {
	if appErr := c.svc.DeleteProduct(ctx.Request.Context(), ctx.Param("id")); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// PresignImageUpload handles POST /products/:id/images/presign
func (c *ProductController) PresignImageUpload(ctx *gin.Context) {
	filename := strings.TrimSpace(ctx.DefaultQuery("filename", "upload"))
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}
	contentType := ctx.DefaultQuery("content_type", "image/jpeg")

	resp, appErr := c.svc.PresignImageUpload(ctx.Request.Context(), ctx.Param("id"), filename, contentType, parsePresignExpiry(ctx))
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
