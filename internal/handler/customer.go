package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/queue"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

type customerStore interface {
	ListAll(ctx context.Context) ([]*model.Customer, error)
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
	Create(ctx context.Context, cu *model.Customer) (bool, error)
	Update(ctx context.Context, cu *model.Customer) (bool, error)
}

// orderStore is the slice of the order repository the handlers
// consume; the shipper handler shares it for its nested orders.
type orderStore interface {
	ListByCustomer(ctx context.Context, customerID uint64) ([]*model.Order, error)
	ListByShipper(ctx context.Context, shipperID uint64) ([]*model.Order, error)
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	GetByIDAndCustomer(ctx context.Context, id, customerID uint64) (*model.Order, error)
	GetByIDAndShipper(ctx context.Context, id, shipperID uint64) (*model.Order, error)
	AssignShipper(ctx context.Context, orderID, shipperID uint64, shippedDate time.Time, shipName string) (bool, error)
	Unship(ctx context.Context, orderID uint64) (bool, error)
	DeleteWithDetails(ctx context.Context, orderID uint64) (bool, error)
}

// CustomerHandler serves the customer endpoints and the nested order
// collection, including order placement.
type CustomerHandler struct {
	Customers customerStore
	Orders    orderStore
	Placement *service.OrderService
	Lifecycle *service.CustomerService
}

func NewCustomerHandler(cust customerStore, o orderStore,
	placement *service.OrderService, lifecycle *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{Customers: cust, Orders: o, Placement: placement, Lifecycle: lifecycle}
}

type customerPart struct {
	ID           uint64        `json:"id"`
	CompanyCode  string        `json:"company_code"`
	CompanyName  string        `json:"company_name"`
	ContactName  string        `json:"contact_name"`
	ContactTitle string        `json:"contact_title"`
	Location     *locationPart `json:"location"`
}

type customerReq struct {
	CompanyCode  string        `json:"company_code"`
	CompanyName  string        `json:"company_name"`
	ContactName  string        `json:"contact_name"`
	ContactTitle string        `json:"contact_title"`
	Location     *locationPart `json:"location"`
}

func toCustomerPart(cu *model.Customer) customerPart {
	return customerPart{
		ID:           cu.ID,
		CompanyCode:  cu.CompanyCode,
		CompanyName:  cu.CompanyName,
		ContactName:  cu.ContactName,
		ContactTitle: cu.ContactTitle,
		Location:     toLocationPart(cu.Location),
	}
}

type orderLinePart struct {
	ProductID uint64          `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

type orderPart struct {
	ID           uint64          `json:"id"`
	CustomerID   uint64          `json:"customer_id"`
	ShipperID    *uint64         `json:"shipper_id,omitempty"`
	OrderDate    time.Time       `json:"order_date"`
	RequiredDate time.Time       `json:"required_date"`
	ShippedDate  *time.Time      `json:"shipped_date,omitempty"`
	ShipName     *string         `json:"ship_name,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Details      []orderLinePart `json:"details"`
}

func toOrderPart(o *model.Order) orderPart {
	details := make([]orderLinePart, 0, len(o.Details))
	for _, d := range o.Details {
		details = append(details, orderLinePart{
			ProductID: d.ProductID,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		})
	}
	return orderPart{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		ShipperID:    o.ShipperID,
		OrderDate:    o.OrderDate,
		RequiredDate: o.RequiredDate,
		ShippedDate:  o.ShippedDate,
		ShipName:     o.ShipName,
		Total:        o.Total,
		Details:      details,
	}
}

func toOrderParts(os []*model.Order) []orderPart {
	out := make([]orderPart, 0, len(os))
	for _, o := range os {
		out = append(out, toOrderPart(o))
	}
	return out
}

type placeOrderReq struct {
	RequiredDate time.Time `json:"required_date"`
	Details      []struct {
		ProductID uint64          `json:"product_id"`
		Quantity  int32           `json:"quantity"`
		Discount  decimal.Decimal `json:"discount"`
	} `json:"details"`
}

// List handles GET /v1/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Customers.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]customerPart, 0, len(items))
	for _, cu := range items {
		out = append(out, toCustomerPart(cu))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	cu, status, msg := h.resolve(c)
	if cu == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toCustomerPart(cu))
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cu := &model.Customer{
		CompanyCode:  req.CompanyCode,
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactTitle: req.ContactTitle,
		Location:     fromLocationPart(req.Location),
	}
	if ok, err := h.Customers.Create(ctx, cu); err != nil || !ok {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location address already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"})
	}
	return c.JSON(http.StatusCreated, toCustomerPart(cu))
}

// Update handles PUT /v1/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	cu, status, msg := h.resolve(c)
	if cu == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}
	cu.CompanyCode = req.CompanyCode
	cu.CompanyName = req.CompanyName
	cu.ContactName = req.ContactName
	cu.ContactTitle = req.ContactTitle
	if req.Location != nil {
		loc := fromLocationPart(req.Location)
		loc.ID = cu.Location.ID
		cu.Location = loc
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Customers.Update(ctx, cu)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location address already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}
	return c.JSON(http.StatusOK, toCustomerPart(cu))
}

// Delete handles DELETE /v1/customers/:id. The customer's orders are
// deleted with it; orders are customer-owned data.
func (h *CustomerHandler) Delete(c echo.Context) error {
	cu, status, msg := h.resolve(c)
	if cu == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Lifecycle.Delete(ctx, cu)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- nested orders -----

// ListOrders handles GET /v1/customers/:id/orders.
func (h *CustomerHandler) ListOrders(c echo.Context) error {
	cu, status, msg := h.resolve(c)
	if cu == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Orders.ListByCustomer(ctx, cu.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toOrderParts(items)})
}

// PlaceOrder handles POST /v1/customers/:id/orders. Validation errors
// from the placement engine map to 400; a partial order is never
// persisted.
func (h *CustomerHandler) PlaceOrder(c echo.Context) error {
	cu, status, msg := h.resolve(c)
	if cu == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Details) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "details required"})
	}

	order := &model.Order{RequiredDate: req.RequiredDate}
	for _, d := range req.Details {
		order.Details = append(order.Details, model.OrderDetail{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Placement.Place(ctx, cu, order); err != nil {
		var qe *service.QuantityError
		var nfe *service.ProductsNotFoundError
		switch {
		case errors.As(err, &qe):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": qe.Error()})
		case errors.As(err, &nfe):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":       "products not found",
				"product_ids": nfe.IDList(),
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "placement failed"})
		}
	}
	if ok, err := h.Placement.Save(ctx, order); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save order"})
	}

	// Broker downtime must not fail the request.
	go func(ev queue.OrderPlacedEvent) {
		pctx, pcancel := context.WithTimeout(context.Background(), dbTimeout)
		defer pcancel()
		if err := queue.PublishOrderPlaced(pctx, ev); err != nil {
			log.Printf("handler: publish order.placed failed: %v", err)
		}
	}(queue.OrderPlacedEvent{
		OrderID:     order.ID,
		CustomerID:  cu.ID,
		CompanyName: cu.CompanyName,
		LineCount:   len(order.Details),
		Total:       order.Total.String(),
		OrderDate:   order.OrderDate.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toOrderPart(order))
}

// GetOrder handles GET /v1/customers/:id/orders/:oid.
func (h *CustomerHandler) GetOrder(c echo.Context) error {
	_, o, status, msg := h.resolveOrder(c)
	if o == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toOrderPart(o))
}

// UpdateOrder handles PUT /v1/customers/:id/orders/:oid. The only
// mutable field is the required date, and only while unshipped.
func (h *CustomerHandler) UpdateOrder(c echo.Context) error {
	_, o, status, msg := h.resolveOrder(c)
	if o == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	var req struct {
		RequiredDate time.Time `json:"required_date"`
	}
	if err := c.Bind(&req); err != nil || req.RequiredDate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "required_date required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Placement.ChangeRequiredDate(ctx, o, req.RequiredDate)
	if err != nil {
		if errors.Is(err, service.ErrOrderShipped) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "order has already been shipped"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, toOrderPart(o))
}

// DeleteOrder handles DELETE /v1/customers/:id/orders/:oid.
func (h *CustomerHandler) DeleteOrder(c echo.Context) error {
	_, o, status, msg := h.resolveOrder(c)
	if o == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Orders.DeleteWithDetails(ctx, o.ID); err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CustomerHandler) resolve(c echo.Context) (*model.Customer, int, string) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, http.StatusBadRequest, "invalid id"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cu, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, http.StatusNotFound, "customer not found"
		}
		return nil, http.StatusInternalServerError, "db error"
	}
	return cu, 0, ""
}

// resolveOrder loads the customer and an order scoped to it.
func (h *CustomerHandler) resolveOrder(c echo.Context) (*model.Customer, *model.Order, int, string) {
	cu, status, msg := h.resolve(c)
	if cu == nil {
		return nil, nil, status, msg
	}
	oid, err := paramID(c, "oid")
	if err != nil {
		return nil, nil, http.StatusBadRequest, "invalid order id"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.Orders.GetByIDAndCustomer(ctx, oid, cu.ID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil, http.StatusNotFound, "order not found"
		}
		return nil, nil, http.StatusInternalServerError, "db error"
	}
	return cu, o, 0, ""
}
