package middleware

import (
	"net/http"
	"strings"

	"acaiteria/internal/auth"
	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenValidator validates access tokens. auth.Service implements it.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.TokenClaims, error)
}

// JWTAuth middleware validates JWT tokens
func JWTAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			// Store claims in context
			c.Set("claims", claims)
			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)

			return next(c)
		}
	}
}

// RequireRole middleware ensures user has required role
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole, ok := c.Get("user_role").(string)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "User role not found")
			}

			for _, role := range roles {
				if userRole == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// AdminOnly middleware ensures only the store admin can access
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}

// CustomerOnly middleware ensures only customers can access
func CustomerOnly() echo.MiddlewareFunc {
	return RequireRole(models.RoleCustomer)
}

// UserID returns the authenticated user id set by JWTAuth
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get("user_id").(uuid.UUID)
	return id, ok
}
