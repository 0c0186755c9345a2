package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/middleware"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

// Validation constants
const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	DefaultPresignExpiry = 900
	MaxPresignExpiry     = 3600
)

// productQuery is the raw product listing query string.
type productQuery struct {
	Search     string   `form:"search" validate:"max=200"`
	Category   string   `form:"category"`
	MinPrice   *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice   *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	Colors     string   `form:"colors"`
	Sizes      string   `form:"sizes"`
	Sort       string   `form:"sort" validate:"omitempty,oneof=price_asc price_desc newest"`
	IsFeatured *bool    `form:"isFeatured"`
}

// RequestValidator handles query validation that gin's body binding does not cover.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParseFilters validates and parses the product listing filters.
func (rv *RequestValidator) ParseFilters(c *gin.Context) (models.ProductFilter, error) {
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return models.ProductFilter{}, errors.New("invalid filter values")
	}
	if err := rv.validate.Struct(&q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.ProductFilter{}, errors.New("invalid value for '" + lowerFirst(verrs[0].Field()) + "'")
		}
		return models.ProductFilter{}, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return models.ProductFilter{}, errors.New("minPrice must be less than or equal to maxPrice")
	}

	return models.ProductFilter{
		Search:     strings.TrimSpace(q.Search),
		Category:   strings.TrimSpace(q.Category),
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Colors:     splitList(q.Colors),
		Sizes:      splitList(q.Sizes),
		Sort:       q.Sort,
		IsFeatured: q.IsFeatured,
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// parsePaginationParams reads page and limit, falling back to defaults on bad input.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// parsePresignExpiry reads "expires" in seconds, default 900, capped at one hour.
func parsePresignExpiry(ctx *gin.Context) time.Duration {
	expires, err := strconv.ParseInt(ctx.DefaultQuery("expires", strconv.Itoa(DefaultPresignExpiry)), 10, 64)
	if err != nil || expires <= 0 {
		expires = DefaultPresignExpiry
	}
	if expires > MaxPresignExpiry {
		expires = MaxPresignExpiry
	}
	return time.Duration(expires) * time.Second
}

func respondError(ctx *gin.Context, appErr *apperrors.Error) {
	ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

// bindJSON binds the body, answering 400 itself on failure.
func bindJSON(ctx *gin.Context, dst any) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return false
	}
	return true
}

func currentUserID(ctx *gin.Context) (primitive.ObjectID, bool) {
	id, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func currentActor(ctx *gin.Context) (services.Actor, bool) {
	a, err := middleware.GetActor(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return a, false
	}
	return a, true
}
