package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/middleware"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth  *service.AuthService
	Users *repository.UserRepo
}

func NewAuthHandler(a *service.AuthService, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Auth: a, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	Identifier string `json:"identifier"`
	UserName   string `json:"user_name"`
	Role       string `json:"role"`
}
type authResp struct {
	User         userPart  `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expires      time.Time `json:"refresh_expires"`
}

// Login: verify credentials and return a fresh token pair. Unknown
// user and wrong password produce the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.Password) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_name/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.GetByCredentials(ctx, req.UserName, req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.Auth.IssueCredentials(u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue credentials failed"})
	}
	if ok, err := h.Auth.Save(ctx, u); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save credentials failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:         userPart{Identifier: u.Identifier.String(), UserName: u.UserName, Role: u.Role.String()},
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken.Value,
		Expires:      *u.RefreshToken.ExpiryDate,
	})
}

// Refresh: rotate the refresh token and return a new pair. An expired
// token is reported distinctly from an unknown one.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.GetByRefreshToken(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if u.RefreshToken.ExpiryDate == nil || u.RefreshToken.ExpiryDate.Before(time.Now().UTC()) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token expired"})
	}

	if err := h.Auth.IssueCredentials(u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue credentials failed"})
	}
	if ok, err := h.Auth.Save(ctx, u); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save credentials failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:         userPart{Identifier: u.Identifier.String(), UserName: u.UserName, Role: u.Role.String()},
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken.Value,
		Expires:      *u.RefreshToken.ExpiryDate,
	})
}

// Logout: revoke the authenticated user's credentials (protected).
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, claims.Subject)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	h.Auth.RevokeCredentials(u)
	if ok, err := h.Auth.Save(ctx, u); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
