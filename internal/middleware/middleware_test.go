package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averdin/northwind-api/internal/config"
	"github.com/averdin/northwind-api/internal/middleware"
	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/service"
	"github.com/averdin/northwind-api/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:   "middleware-test-secret",
		JWTAudience: "northwind-clients",
		JWTIssuer:   "northwind-api",
		AccessTTL:   15 * time.Minute,
	}
}

func invoke(mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, service.Claims, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var claims service.Claims
	var seen bool
	handler := mw(func(c echo.Context) error {
		claims, seen = middleware.ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, claims, seen
}

func TestJWTAuth(t *testing.T) {
	cfg := testConfig()
	mw := middleware.JWTAuth(cfg)

	t.Run("missing bearer is rejected", func(t *testing.T) {
		rec, _, seen := invoke(mw, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		rec, _, seen := invoke(mw, "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen)
	})

	t.Run("token signed elsewhere is rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", cfg.JWTAudience, cfg.JWTIssuer,
			"sub-1", "Admin", time.Minute)
		require.NoError(t, err)
		rec, _, seen := invoke(mw, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen)
	})

	t.Run("valid token injects claims", func(t *testing.T) {
		tok, err := utils.NewAccessToken(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTIssuer,
			"sub-1", "SupplierAdmin", time.Minute)
		require.NoError(t, err)
		rec, claims, seen := invoke(mw, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, seen)
		assert.Equal(t, "sub-1", claims.Subject)
		assert.Equal(t, model.RoleSupplierAdmin, claims.Role)
	})
}

func TestRequirePolicy(t *testing.T) {
	run := func(policy string, claims *service.Claims) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodDelete, "/v1/categories/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if claims != nil {
			c.Set("claims", *claims)
		}
		handler := middleware.RequirePolicy(policy)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		_ = handler(c)
		return rec
	}

	t.Run("unauthenticated request is forbidden", func(t *testing.T) {
		rec := run(service.PolicySupplierAdmin, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("insufficient role is forbidden", func(t *testing.T) {
		rec := run(service.PolicySupplierAdmin, &service.Claims{Subject: "s", Role: model.RoleSupplier})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes every gate", func(t *testing.T) {
		for _, policy := range []string{service.PolicyAdmin, service.PolicySupplierAdmin, service.PolicySupplier} {
			rec := run(policy, &service.Claims{Subject: "a", Role: model.RoleAdmin})
			assert.Equal(t, http.StatusOK, rec.Code, policy)
		}
	})
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	newCtx := func() (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	t.Run("rate limiter without redis passes through", func(t *testing.T) {
		c, rec := newCtx()
		mw := middleware.NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
		require.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("cache without redis passes through", func(t *testing.T) {
		c, rec := newCtx()
		mw := middleware.NewRedisCache(config.CacheConfig{Enabled: true}, nil)
		require.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	})
}
