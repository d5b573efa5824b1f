package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
)

// productStore is the slice of the product repository the handlers
// consume. The category and supplier handlers share it for their
// nested product collections.
type productStore interface {
	ListAll(ctx context.Context) ([]*model.Product, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]*model.Product, error)
	ListBySupplier(ctx context.Context, supplierID uint64) ([]*model.Product, error)
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (bool, error)
	Update(ctx context.Context, p *model.Product) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	DetachFromCategory(ctx context.Context, productID uint64) (bool, error)
	DetachFromSupplier(ctx context.Context, productID uint64) (bool, error)
}

// ProductHandler serves the top-level catalog endpoints.
type ProductHandler struct {
	Products productStore
}

func NewProductHandler(p productStore) *ProductHandler {
	return &ProductHandler{Products: p}
}

type productPart struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	CategoryID      *uint64         `json:"category_id"`
	SupplierID      *uint64         `json:"supplier_id"`
	QuantityPerUnit string          `json:"quantity_per_unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitsInStock    int32           `json:"units_in_stock"`
	UnitsOnOrder    int32           `json:"units_on_order"`
	ReorderLevel    int32           `json:"reorder_level"`
	Discontinued    int8            `json:"discontinued"`
}

type productReq struct {
	Name            string          `json:"name"`
	CategoryID      *uint64         `json:"category_id"`
	SupplierID      *uint64         `json:"supplier_id"`
	QuantityPerUnit string          `json:"quantity_per_unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitsInStock    int32           `json:"units_in_stock"`
	UnitsOnOrder    int32           `json:"units_on_order"`
	ReorderLevel    int32           `json:"reorder_level"`
	Discontinued    int8            `json:"discontinued"`
}

func toProductPart(p *model.Product) productPart {
	return productPart{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		QuantityPerUnit: p.QuantityPerUnit,
		UnitPrice:       p.UnitPrice,
		UnitsInStock:    p.UnitsInStock,
		UnitsOnOrder:    p.UnitsOnOrder,
		ReorderLevel:    p.ReorderLevel,
		Discontinued:    p.Discontinued,
	}
}

func toProductParts(ps []*model.Product) []productPart {
	out := make([]productPart, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductPart(p))
	}
	return out
}

// bindProduct validates a product payload into a model. The caller
// may pin the category or supplier reference afterwards.
func bindProduct(c echo.Context) (*model.Product, error) {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.UnitPrice.IsNegative() {
		return nil, errors.New("unit_price must not be negative")
	}
	if req.UnitsInStock < 0 {
		return nil, errors.New("units_in_stock must not be negative")
	}
	if req.Discontinued != 0 && req.Discontinued != 1 {
		return nil, errors.New("discontinued must be 0 or 1")
	}
	return &model.Product{
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		SupplierID:      req.SupplierID,
		QuantityPerUnit: req.QuantityPerUnit,
		UnitPrice:       req.UnitPrice,
		UnitsInStock:    req.UnitsInStock,
		UnitsOnOrder:    req.UnitsOnOrder,
		ReorderLevel:    req.ReorderLevel,
		Discontinued:    req.Discontinued,
	}, nil
}

// List handles GET /v1/products.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Products.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toProductParts(items)})
}

// Get handles GET /v1/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toProductPart(p))
}

// Create handles POST /v1/products.
func (h *ProductHandler) Create(c echo.Context) error {
	p, err := bindProduct(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Products.Create(ctx, p); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create product"})
	}
	return c.JSON(http.StatusCreated, toProductPart(p))
}

// Update handles PUT /v1/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := bindProduct(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Products.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	ok, err := h.Products.Update(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, toProductPart(p))
}

// Delete handles DELETE /v1/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Products.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
