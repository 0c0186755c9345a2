package logger_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/khushipatel79/e-commerce-BE/common/logger"
)

func TestRequestIDFromPlainContext(t *testing.T) {
	ctx := logger.WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", logger.RequestID(ctx))
	assert.Equal(t, "unknown", logger.RequestID(context.Background()))
}

func TestRequestIDFromGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Equal(t, "unknown", logger.RequestID(c))

	c.Set(logger.RequestIDKey, "req-2")
	assert.Equal(t, "req-2", logger.RequestID(c))
}

func TestInitializeInstallsLogger(t *testing.T) {
	l := logger.Initialize("development")
	assert.NotNil(t, l)
	assert.Same(t, l, logger.Log)
}
