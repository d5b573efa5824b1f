package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

type categoryStore interface {
	ListAll(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	Create(ctx context.Context, cat *model.Category) (bool, error)
	Update(ctx context.Context, cat *model.Category) (bool, error)
}

// CategoryHandler serves the category endpoints, including the nested
// product collection. A product removed through the nested DELETE is
// detached from the category, never deleted.
type CategoryHandler struct {
	Categories categoryStore
	Products   productStore
	Lifecycle  *service.CategoryService
}

func NewCategoryHandler(cat categoryStore, p productStore, svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: cat, Products: p, Lifecycle: svc}
}

type categoryPart struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryPart(cat *model.Category) categoryPart {
	return categoryPart{ID: cat.ID, Name: cat.Name, Description: cat.Description}
}

// List handles GET /v1/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Categories.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]categoryPart, 0, len(items))
	for _, cat := range items {
		out = append(out, toCategoryPart(cat))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	cat, status, msg := h.resolve(c)
	if cat == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toCategoryPart(cat))
}

// Create handles POST /v1/categories. Category names are unique.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := &model.Category{Name: req.Name, Description: req.Description}
	if ok, err := h.Categories.Create(ctx, cat); err != nil || !ok {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create category"})
	}
	return c.JSON(http.StatusCreated, toCategoryPart(cat))
}

// Update handles PUT /v1/categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	cat, status, msg := h.resolve(c)
	if cat == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cat.Name = req.Name
	cat.Description = req.Description

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Categories.Update(ctx, cat)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}
	return c.JSON(http.StatusOK, toCategoryPart(cat))
}

// Delete handles DELETE /v1/categories/:id. Products of the category
// survive with their category reference cleared.
func (h *CategoryHandler) Delete(c echo.Context) error {
	cat, status, msg := h.resolve(c)
	if cat == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Lifecycle.Delete(ctx, cat)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- nested products -----

// ListProducts handles GET /v1/categories/:id/products.
func (h *CategoryHandler) ListProducts(c echo.Context) error {
	cat, status, msg := h.resolve(c)
	if cat == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Products.ListByCategory(ctx, cat.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toProductParts(items)})
}

// AddProduct handles POST /v1/categories/:id/products: the new
// product is attached to the category regardless of the payload.
func (h *CategoryHandler) AddProduct(c echo.Context) error {
	cat, status, msg := h.resolve(c)
	if cat == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	p, err := bindProduct(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p.CategoryID = &cat.ID

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Products.Create(ctx, p); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create product"})
	}
	return c.JSON(http.StatusCreated, toProductPart(p))
}

// GetProduct handles GET /v1/categories/:id/products/:pid.
func (h *CategoryHandler) GetProduct(c echo.Context) error {
	_, p, status, msg := h.resolveProduct(c)
	if p == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toProductPart(p))
}

// UpdateProduct handles PUT /v1/categories/:id/products/:pid. The
// category reference stays pinned to the path.
func (h *CategoryHandler) UpdateProduct(c echo.Context) error {
	cat, p, status, msg := h.resolveProduct(c)
	if p == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	upd, err := bindProduct(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	upd.ID = p.ID
	upd.CategoryID = &cat.ID
	upd.SupplierID = p.SupplierID

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Products.Update(ctx, upd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found in category"})
	}
	return c.JSON(http.StatusOK, toProductPart(upd))
}

// DetachProduct handles DELETE /v1/categories/:id/products/:pid: the
// product is detached from the category and retained.
func (h *CategoryHandler) DetachProduct(c echo.Context) error {
	_, p, status, msg := h.resolveProduct(c)
	if p == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Products.DetachFromCategory(ctx, p.ID); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "detach failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// resolve loads the category named by the :id parameter.
func (h *CategoryHandler) resolve(c echo.Context) (*model.Category, int, string) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, http.StatusBadRequest, "invalid id"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, http.StatusNotFound, "category not found"
		}
		return nil, http.StatusInternalServerError, "db error"
	}
	return cat, 0, ""
}

// resolveProduct loads the category and a product that must belong to
// it; a product attached elsewhere is reported as not found.
func (h *CategoryHandler) resolveProduct(c echo.Context) (*model.Category, *model.Product, int, string) {
	cat, status, msg := h.resolve(c)
	if cat == nil {
		return nil, nil, status, msg
	}
	pid, err := paramID(c, "pid")
	if err != nil {
		return nil, nil, http.StatusBadRequest, "invalid product id"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil, http.StatusNotFound, "product not found"
		}
		return nil, nil, http.StatusInternalServerError, "db error"
	}
	if p.CategoryID == nil || *p.CategoryID != cat.ID {
		return nil, nil, http.StatusNotFound, "product not found in category"
	}
	return cat, p, 0, ""
}
