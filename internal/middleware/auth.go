package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"casedesk/internal/config"
	"casedesk/internal/domain"
)

const (
	ContextKeySubject = "subject"
)

// apiKeySubject is recorded as the caller when the static API key matched.
const apiKeySubject = "api-key"

// TokenValidator accepts either the static API key or an HS256 JWT.
type TokenValidator struct {
	cfg config.AuthConfig
}

// NewTokenValidator creates a TokenValidator from auth settings.
func NewTokenValidator(cfg config.AuthConfig) *TokenValidator {
	return &TokenValidator{cfg: cfg}
}

// Enabled reports whether any credential is configured.
func (v *TokenValidator) Enabled() bool {
	return v.cfg.Enabled()
}

// Validate returns the caller's subject for a bearer token.
func (v *TokenValidator) Validate(token string) (string, error) {
	if v.cfg.APIKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(v.cfg.APIKey)) == 1 {
		return apiKeySubject, nil
	}
	if v.cfg.JWTSecret == "" {
		return "", domain.ErrUnauthorized
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.JWTIssuer))
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

// AuthMiddleware returns Gin middleware that requires a valid bearer token.
// With no credentials configured every request passes.
func AuthMiddleware(validator *TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validator.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		subject, err := validator.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeySubject, subject)
		c.Next()
	}
}

// GetSubject returns the authenticated caller, or "" on open deployments.
func GetSubject(c *gin.Context) string {
	val, exists := c.Get(ContextKeySubject)
	if !exists {
		return ""
	}
	return val.(string)
}
