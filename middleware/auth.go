package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/khushipatel79/e-commerce-BE/common/auth"
	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"
)

// AuthMiddleware requires a valid Bearer access token and stores its identity on the context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing token"})
			return
		}

		claims, err := tokens.ParseAndValidateToken(strings.TrimSpace(token), auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.MsgInvalidToken})
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Set(RoleContextKey, claims.Role)
		c.Set(EmailContextKey, claims.Email)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Admins only."})
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (primitive.ObjectID, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	raw, ok := val.(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, errors.New("user ID has invalid type in context")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errors.New("user ID in token is malformed")
	}
	return id, nil
}

// GetActor returns the authenticated caller with the role carried by the token.
func GetActor(c *gin.Context) (services.Actor, error) {
	id, err := GetUserID(c)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: id, Role: c.GetString(RoleContextKey)}, nil
}
