package middleware

import (
	"net/http"
	"strings"

	"github.com/articlehub/articlehub-backend/internal/response"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// RequireAppUserJWT validates an app-user (admin domain) JWT.
func RequireAppUserJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireDomain(authService, service.TokenTypeAdmin, response.ErrAdminAccessOnly)
}

// RequireStudentJWT validates a student JWT.
func RequireStudentJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireDomain(authService, service.TokenTypeStudent, response.ErrStudentAccessOnly)
}

func requireDomain(authService *service.AuthService, want service.TokenType, wrongDomain response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if claims.TokenType != want {
			response.AbortFail(c, http.StatusForbidden, wrongDomain)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when a token is presented and lets anonymous requests through.
// A token that is presented but invalid is still rejected.
func OptionalJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// extractToken reads the bearer token from the Authorization header, falling back to ?token=
// for WebSocket upgrades which cannot set headers from the browser.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		// A non-bearer Authorization header counts as a malformed token, not an absent one.
		return authHeader
	}

	return c.Query("token")
}
