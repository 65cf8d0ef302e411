package middleware

import (
	"strings"

	"mikopo-backend/internal/config"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/pkg/jwt"
	"mikopo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// AuthMiddleware creates authentication middleware. On success it stores
// the resolved session in the request locals; handlers pass that session
// into services explicitly.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		c.Locals(sessionKey, &domain.Session{
			User: domain.SessionUser{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  domain.Role(claims.Role),
				Name:  claims.Name,
			},
		})

		return c.Next()
	}
}

// SessionFromCtx returns the session stored by AuthMiddleware, or nil on
// unauthenticated routes.
func SessionFromCtx(c *fiber.Ctx) *domain.Session {
	sess, _ := c.Locals(sessionKey).(*domain.Session)
	return sess
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromCtx(c)
		if sess == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if sess.User.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}
