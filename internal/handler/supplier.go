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

type supplierStore interface {
	ListAll(ctx context.Context) ([]*model.Supplier, error)
	GetByID(ctx context.Context, id uint64) (*model.Supplier, error)
	Create(ctx context.Context, s *model.Supplier) (bool, error)
	Update(ctx context.Context, s *model.Supplier) (bool, error)
}

// SupplierHandler serves the supplier endpoints and the nested
// product collection. Suppliers own exactly one location that lives
// and dies with them; their products are only ever detached.
type SupplierHandler struct {
	Suppliers supplierStore
	Products  productStore
	Lifecycle *service.SupplierService
}

func NewSupplierHandler(s supplierStore, p productStore, svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{Suppliers: s, Products: p, Lifecycle: svc}
}

type supplierPart struct {
	ID           uint64        `json:"id"`
	CompanyName  string        `json:"company_name"`
	ContactName  string        `json:"contact_name"`
	ContactTitle string        `json:"contact_title"`
	Location     *locationPart `json:"location"`
}

type supplierReq struct {
	CompanyName  string        `json:"company_name"`
	ContactName  string        `json:"contact_name"`
	ContactTitle string        `json:"contact_title"`
	Location     *locationPart `json:"location"`
}

func toSupplierPart(s *model.Supplier) supplierPart {
	return supplierPart{
		ID:           s.ID,
		CompanyName:  s.CompanyName,
		ContactName:  s.ContactName,
		ContactTitle: s.ContactTitle,
		Location:     toLocationPart(s.Location),
	}
}

// List handles GET /v1/suppliers.
func (h *SupplierHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Suppliers.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]supplierPart, 0, len(items))
	for _, s := range items {
		out = append(out, toSupplierPart(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/suppliers/:id.
func (h *SupplierHandler) Get(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toSupplierPart(s))
}

// Create handles POST /v1/suppliers. The response carries the entity
// as persisted, re-read after the commit.
func (h *SupplierHandler) Create(c echo.Context) error {
	var req supplierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &model.Supplier{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactTitle: req.ContactTitle,
		Location:     fromLocationPart(req.Location),
	}
	if ok, err := h.Suppliers.Create(ctx, s); err != nil || !ok {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location address already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create supplier"})
	}

	persisted, err := h.Suppliers.GetByID(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, toSupplierPart(persisted))
}

// Update handles PUT /v1/suppliers/:id.
func (h *SupplierHandler) Update(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req supplierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}
	s.CompanyName = req.CompanyName
	s.ContactName = req.ContactName
	s.ContactTitle = req.ContactTitle
	if req.Location != nil {
		loc := fromLocationPart(req.Location)
		loc.ID = s.Location.ID
		s.Location = loc
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Suppliers.Update(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location address already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
	}
	return c.JSON(http.StatusOK, toSupplierPart(s))
}

// Delete handles DELETE /v1/suppliers/:id. Products of the supplier
// are detached first; the supplier goes with its location.
func (h *SupplierHandler) Delete(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Lifecycle.Delete(ctx, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- nested products -----

// ListProducts handles GET /v1/suppliers/:id/products.
func (h *SupplierHandler) ListProducts(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Products.ListBySupplier(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toProductParts(items)})
}

// AddProduct handles POST /v1/suppliers/:id/products.
func (h *SupplierHandler) AddProduct(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	p, err := bindProduct(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p.SupplierID = &s.ID

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Products.Create(ctx, p); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create product"})
	}
	return c.JSON(http.StatusCreated, toProductPart(p))
}

// GetProduct handles GET /v1/suppliers/:id/products/:pid.
func (h *SupplierHandler) GetProduct(c echo.Context) error {
	_, p, status, msg := h.resolveProduct(c)
	if p == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toProductPart(p))
}

// UpdateProduct handles PUT /v1/suppliers/:id/products/:pid. The
// supplier reference stays pinned to the path.
func (h *SupplierHandler) UpdateProduct(c echo.Context) error {
	s, p, status, msg := h.resolveProduct(c)
	if p == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	upd, err := bindProduct(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	upd.ID = p.ID
	upd.SupplierID = &s.ID
	upd.CategoryID = p.CategoryID

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Products.Update(ctx, upd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found for supplier"})
	}
	return c.JSON(http.StatusOK, toProductPart(upd))
}

// DetachProduct handles DELETE /v1/suppliers/:id/products/:pid: the
// product is detached and retained.
func (h *SupplierHandler) DetachProduct(c echo.Context) error {
	_, p, status, msg := h.resolveProduct(c)
	if p == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Products.DetachFromSupplier(ctx, p.ID); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "detach failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SupplierHandler) resolve(c echo.Context) (*model.Supplier, int, string) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, http.StatusBadRequest, "invalid id"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return nil, http.StatusNotFound, "supplier not found"
		}
		return nil, http.StatusInternalServerError, "db error"
	}
	return s, 0, ""
}

func (h *SupplierHandler) resolveProduct(c echo.Context) (*model.Supplier, *model.Product, int, string) {
	s, status, msg := h.resolve(c)
	if s == nil {
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
	if p.SupplierID == nil || *p.SupplierID != s.ID {
		return nil, nil, http.StatusNotFound, "product not found for supplier"
	}
	return s, p, 0, ""
}
