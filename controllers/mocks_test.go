package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/middleware"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

// ---- mocks: each embeds the interface and overrides what a test needs ----

type mockOrderSvc struct {
	services.OrderService

	order    *models.Order
	replayed bool
	err      *apperrors.Error

	gotKey    string
	gotStatus string
	gotActor  services.Actor
}

func (m *mockOrderSvc) Checkout(_ context.Context, _ primitive.ObjectID, _ *models.CheckoutRequest, key string) (*models.Order, bool, *apperrors.Error) {
	m.gotKey = key
	return m.order, m.replayed, m.err
}

func (m *mockOrderSvc) UpdateOrderStatus(_ context.Context, _ string, status string) (*models.Order, *apperrors.Error) {
	m.gotStatus = status
	return m.order, m.err
}

func (m *mockOrderSvc) CancelOrder(_ context.Context, actor services.Actor, _ string) (*models.Order, *apperrors.Error) {
	m.gotActor = actor
	return m.order, m.err
}

func (m *mockOrderSvc) ListMyOrders(_ context.Context, _ primitive.ObjectID, page, limit int) (*models.PageResult[models.Order], *apperrors.Error) {
	return models.NewPageResult([]models.Order{}, models.Pagination{Page: page, Limit: limit}, 0), m.err
}

type mockProductSvc struct {
	services.ProductService

	filter  models.ProductFilter
	page    int
	limit   int
	presign struct {
		filename    string
		contentType string
		expires     time.Duration
	}
	err *apperrors.Error
}

func (m *mockProductSvc) ListProducts(_ context.Context, page, limit int, filter models.ProductFilter) (*models.PageResult[models.Product], *apperrors.Error) {
	m.page, m.limit, m.filter = page, limit, filter
	if m.err != nil {
		return nil, m.err
	}
	return models.NewPageResult([]models.Product{}, models.Pagination{Page: page, Limit: limit}, 0), nil
}

func (m *mockProductSvc) PresignImageUpload(_ context.Context, _ string, filename, contentType string, expires time.Duration) (*models.PresignUploadResponse, *apperrors.Error) {
	m.presign.filename, m.presign.contentType, m.presign.expires = filename, contentType, expires
	if m.err != nil {
		return nil, m.err
	}
	return &models.PresignUploadResponse{UploadURL: "https://s3.example.com/put", Method: "PUT", Key: "products/x.jpg", ExpiresIn: int64(expires.Seconds())}, nil
}

type mockReviewSvc struct {
	services.ReviewService

	approved *bool
}

func (m *mockReviewSvc) SetReviewApproval(_ context.Context, id string, approved bool) (*models.Review, *apperrors.Error) {
	m.approved = &approved
	return &models.Review{IsApproved: approved}, nil
}

type mockAuthSvc struct {
	services.AuthService

	loginErr *apperrors.Error
}

func (m *mockAuthSvc) Login(_ context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.AuthResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil
}

// ---- helpers ----

// withUser stands in for AuthMiddleware.
func withUser(id primitive.ObjectID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, id.Hex())
		c.Set(middleware.RoleContextKey, role)
		c.Next()
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}
