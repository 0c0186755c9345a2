package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/controllers"
	"github.com/khushipatel79/e-commerce-BE/models"
)

func productRouter(svc *mockProductSvc) http.Handler {
	r := newRouter()
	pc := controllers.NewProductController(svc)
	r.GET("/products", pc.ListProducts)
	r.POST("/products/:id/images/presign", withUser(primitive.NewObjectID(), models.RoleAdmin), pc.PresignImageUpload)
	return r
}

func TestListProducts_Filters(t *testing.T) {
	svc := &mockProductSvc{}
	r := productRouter(svc)

	w := doJSON(r, http.MethodGet, "/products?page=2&limit=5&search=%20shoe%20&category=running&minPrice=10&maxPrice=50&colors=red,%20blue,&sizes=42&sort=price_asc&isFeatured=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, "shoe", svc.filter.Search)
	assert.Equal(t, "running", svc.filter.Category)
	require.NotNil(t, svc.filter.MinPrice)
	require.NotNil(t, svc.filter.MaxPrice)
	assert.Equal(t, 10.0, *svc.filter.MinPrice)
	assert.Equal(t, 50.0, *svc.filter.MaxPrice)
	assert.Equal(t, []string{"red", "blue"}, svc.filter.Colors)
	assert.Equal(t, []string{"42"}, svc.filter.Sizes)
	assert.Equal(t, models.SortPriceAsc, svc.filter.Sort)
	require.NotNil(t, svc.filter.IsFeatured)
	assert.True(t, *svc.filter.IsFeatured)
}

func TestListProducts_InvalidFilters(t *testing.T) {
	cases := []struct {
		name  string
		query string
		msg   string
	}{
		{"inverted price range", "minPrice=60&maxPrice=50", "minPrice must be less than or equal to maxPrice"},
		{"unknown sort", "sort=cheapest", "invalid value for 'sort'"},
		{"negative price", "minPrice=-1", "invalid value for 'minPrice'"},
		{"non numeric price", "maxPrice=abc", "invalid filter values"},
		{"non boolean featured", "isFeatured=maybe", "invalid filter values"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockProductSvc{}
			w := doJSON(productRouter(svc), http.MethodGet, "/products?"+tc.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, decode(w)["error"])
			assert.Zero(t, svc.page, "service must not be called")
		})
	}
}

func TestPresignImageUpload_Defaults(t *testing.T) {
	svc := &mockProductSvc{}
	w := doJSON(productRouter(svc), http.MethodPost, "/products/abc/images/presign", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "upload", svc.presign.filename)
	assert.Equal(t, "image/jpeg", svc.presign.contentType)
	assert.Equal(t, 900*time.Second, svc.presign.expires)
	assert.EqualValues(t, 900, decode(w)["expires_in"])
}

func TestPresignImageUpload_Params(t *testing.T) {
	t.Run("expiry capped at one hour", func(t *testing.T) {
		svc := &mockProductSvc{}
		w := doJSON(productRouter(svc), http.MethodPost, "/products/abc/images/presign?expires=99999&filename=front.png&content_type=image/png", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Hour, svc.presign.expires)
		assert.Equal(t, "front.png", svc.presign.filename)
		assert.Equal(t, "image/png", svc.presign.contentType)
	})

	t.Run("path in filename rejected", func(t *testing.T) {
		svc := &mockProductSvc{}
		w := doJSON(productRouter(svc), http.MethodPost, "/products/abc/images/presign?filename=../etc/passwd", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error mapped", func(t *testing.T) {
		svc := &mockProductSvc{err: apperrors.NotFound("Product not found")}
		w := doJSON(productRouter(svc), http.MethodPost, "/products/abc/images/presign", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found", decode(w)["error"])
	})
}
