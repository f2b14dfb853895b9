// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
	"github.com/building-ledger/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// UserRoleKey is the context key for the authenticated user's role.
	UserRoleKey ContextKey = "user_role"

	// RoleManager marks users allowed to run money-moving operations.
	RoleManager = "manager"
)

// AuthMiddleware provides bearer token authentication.
type AuthMiddleware struct {
	verifier adapter.TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(verifier adapter.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate returns a Gin middleware handler that enforces bearer
// token authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Authorization header is required",
				Code:  string(domainerror.ErrCodeMissingToken),
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid authorization header format",
				Code:  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.verifier.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid or expired token",
				Code:  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserRoleKey), claims.Role)

		c.Next()
	}
}

// RequireManager returns a handler that rejects non-manager users. It must
// run after Authenticate.
func (m *AuthMiddleware) RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetUserRoleFromContext(c)
		if role != RoleManager {
			c.JSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "Manager role required",
				Code:  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRoleFromContext extracts the user role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	role, exists := c.Get(string(UserRoleKey))
	if !exists {
		return "", false
	}
	roleStr, ok := role.(string)
	return roleStr, ok
}
