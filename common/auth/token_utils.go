package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenTypeAccess = "access"

	refreshTokenBytes = 40
	resetTokenBytes   = 32
)

// Claims is the identity carried by a validated access token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenManager signs and verifies access tokens and derives storage hashes for opaque tokens.
type TokenManager struct {
	secretKey []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, accessTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenManager{secretKey: []byte(secret), accessTTL: accessTTL, now: time.Now}
}

// AccessTTL is how long a freshly issued access token stays valid.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// GenerateAccessToken signs a short lived HS256 access token.
func (m *TokenManager) GenerateAccessToken(userID, email, role string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"typ":   TokenTypeAccess,
		"exp":   now.Add(m.accessTTL).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ParseAndValidateToken parses a JWT token string and returns its claims.
// If expectedType is non-empty, the claim "typ" must match it.
func (m *TokenManager) ParseAndValidateToken(tokenStr, expectedType string) (*Claims, error) {
	if len(m.secretKey) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})

	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := mc["typ"].(string); !ok || typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)
	return &Claims{UserID: sub, Email: email, Role: role}, nil
}

// HashToken returns the keyed digest under which an opaque token is stored.
func (m *TokenManager) HashToken(raw string) string {
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewRefreshToken returns a random opaque refresh token and its storage hash.
func (m *TokenManager) NewRefreshToken() (raw, hash string, err error) {
	return m.newOpaque(refreshTokenBytes)
}

// NewResetToken returns a random opaque password reset token and its storage hash.
func (m *TokenManager) NewResetToken() (raw, hash string, err error) {
	return m.newOpaque(resetTokenBytes)
}

func (m *TokenManager) newOpaque(n int) (string, string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	return raw, m.HashToken(raw), nil
}
