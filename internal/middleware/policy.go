package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/service"
)

// RequirePolicy returns a middleware that rejects requests whose
// authenticated claims do not satisfy the named policy. It assumes
// JWTAuth has already stored the claims; an unauthenticated request
// is rejected outright.
func RequirePolicy(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok || !service.EvaluatePolicy(name, claims) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
