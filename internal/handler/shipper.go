package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

type shipperStore interface {
	ListAll(ctx context.Context) ([]*model.Shipper, error)
	GetByID(ctx context.Context, id uint64) (*model.Shipper, error)
	Create(ctx context.Context, s *model.Shipper) (bool, error)
	Update(ctx context.Context, s *model.Shipper) (bool, error)
}

// ShipperHandler serves the shipper endpoints and the nested order
// collection. Attaching an order sets shipper, shipped date and ship
// name together; detaching clears all three as a unit.
type ShipperHandler struct {
	Shippers  shipperStore
	Orders    orderStore
	Lifecycle *service.ShipperService
}

func NewShipperHandler(s shipperStore, o orderStore, svc *service.ShipperService) *ShipperHandler {
	return &ShipperHandler{Shippers: s, Orders: o, Lifecycle: svc}
}

type shipperPart struct {
	ID          uint64 `json:"id"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

type shipperReq struct {
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

func toShipperPart(s *model.Shipper) shipperPart {
	return shipperPart{ID: s.ID, CompanyName: s.CompanyName, Phone: s.Phone}
}

// List handles GET /v1/shippers.
func (h *ShipperHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Shippers.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]shipperPart, 0, len(items))
	for _, s := range items {
		out = append(out, toShipperPart(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/shippers/:id.
func (h *ShipperHandler) Get(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toShipperPart(s))
}

// Create handles POST /v1/shippers.
func (h *ShipperHandler) Create(c echo.Context) error {
	var req shipperReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &model.Shipper{CompanyName: req.CompanyName, Phone: req.Phone}
	if ok, err := h.Shippers.Create(ctx, s); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create shipper"})
	}
	return c.JSON(http.StatusCreated, toShipperPart(s))
}

// Update handles PUT /v1/shippers/:id.
func (h *ShipperHandler) Update(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req shipperReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}
	s.CompanyName = req.CompanyName
	s.Phone = req.Phone

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Shippers.Update(ctx, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shipper not found"})
	}
	return c.JSON(http.StatusOK, toShipperPart(s))
}

// Delete handles DELETE /v1/shippers/:id. Orders of the shipper are
// un-shipped, not deleted.
func (h *ShipperHandler) Delete(c echo.Context) error {
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
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shipper not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- nested orders -----

// ListOrders handles GET /v1/shippers/:id/orders.
func (h *ShipperHandler) ListOrders(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Orders.ListByShipper(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toOrderParts(items)})
}

// GetOrder handles GET /v1/shippers/:id/orders/:oid.
func (h *ShipperHandler) GetOrder(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	oid, err := paramID(c, "oid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.Orders.GetByIDAndShipper(ctx, oid, s.ID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toOrderPart(o))
}

// AttachOrder handles PUT /v1/shippers/:id/orders/:oid: the order is
// assigned to the shipper with its shipped date and ship name in the
// same update.
func (h *ShipperHandler) AttachOrder(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	oid, err := paramID(c, "oid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req struct {
		ShippedDate time.Time `json:"shipped_date"`
		ShipName    string    `json:"ship_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ShippedDate.IsZero() {
		req.ShippedDate = time.Now().UTC()
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Orders.GetByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ok, err := h.Orders.AssignShipper(ctx, oid, s.ID, req.ShippedDate, req.ShipName); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach failed"})
	}

	o, err := h.Orders.GetByIDAndShipper(ctx, oid, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toOrderPart(o))
}

// DetachOrder handles DELETE /v1/shippers/:id/orders/:oid: the order
// is un-shipped and retained. Shipper id, shipped date and ship name
// are cleared together, never partially.
func (h *ShipperHandler) DetachOrder(c echo.Context) error {
	s, status, msg := h.resolve(c)
	if s == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	oid, err := paramID(c, "oid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Orders.GetByIDAndShipper(ctx, oid, s.ID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ok, err := h.Orders.Unship(ctx, oid); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "detach failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShipperHandler) resolve(c echo.Context) (*model.Shipper, int, string) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, http.StatusBadRequest, "invalid id"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Shippers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShipperNotFound) {
			return nil, http.StatusNotFound, "shipper not found"
		}
		return nil, http.StatusInternalServerError, "db error"
	}
	return s, 0, ""
}
