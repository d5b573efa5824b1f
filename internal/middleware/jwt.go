// Package middleware provides shared request processing: access-token
// validation, policy gating, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/config"
	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/service"
	"github.com/averdin/northwind-api/internal/utils"
)

// claimsKey is the context key protected handlers read claims from.
const claimsKey = "claims"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the caller's claims into the request context.
// Handlers behind it read the identity via ClaimsFrom(c).
func JWTAuth(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tc, err := utils.ParseAccessToken(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTIssuer, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			role, ok := model.ParseRole(tc.Role)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid role claim"})
			}
			c.Set(claimsKey, service.Claims{Subject: tc.Subject, Role: role})
			return next(c)
		}
	}
}

// ClaimsFrom extracts the authenticated claims stored by JWTAuth. The
// second return value is false when the request is unauthenticated.
func ClaimsFrom(c echo.Context) (service.Claims, bool) {
	claims, ok := c.Get(claimsKey).(service.Claims)
	return claims, ok
}
