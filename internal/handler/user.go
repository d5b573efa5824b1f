package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/middleware"
	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

type userStore interface {
	ListAll(ctx context.Context) ([]*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
}

// UserHandler serves user administration. List, create and delete are
// Admin-only (enforced at the route); the lookups additionally allow a
// user to read their own record.
type UserHandler struct {
	Users userStore
	Admin *service.UserService
}

func NewUserHandler(u userStore, admin *service.UserService) *UserHandler {
	return &UserHandler{Users: u, Admin: admin}
}

type adminUserPart struct {
	ID         uint64 `json:"id"`
	Identifier string `json:"identifier"`
	UserName   string `json:"user_name"`
	Role       string `json:"role"`
}

type createUserReq struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func toAdminUserPart(u *model.User) adminUserPart {
	return adminUserPart{
		ID:         u.ID,
		Identifier: u.Identifier.String(),
		UserName:   u.UserName,
		Role:       u.Role.String(),
	}
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]adminUserPart, 0, len(items))
	for _, u := range items {
		out = append(out, toAdminUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/users/:id. Admins may read any record; other
// callers only the record matching their own identity claim.
func (h *UserHandler) Get(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !service.CanAccessUser(claims, u.Identifier.String()) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toAdminUserPart(u))
}

// GetByName handles GET /v1/users/by-name/:username with the same
// access rule as Get. The lookup is case-sensitive, like login.
func (h *UserHandler) GetByName(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	name := strings.TrimSpace(c.Param("username"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUserName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !service.CanAccessUser(claims, u.Identifier.String()) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toAdminUserPart(u))
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_name is required"})
	}
	role, ok := model.ParseRole(strings.TrimSpace(req.Role))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &model.User{UserName: req.UserName, Role: role}
	if ok, err := h.Admin.Create(ctx, u, req.Password); err != nil || !ok {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, toAdminUserPart(u))
}

// Delete handles DELETE /v1/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ok, err := h.Admin.Delete(ctx, u); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
