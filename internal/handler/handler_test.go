package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averdin/northwind-api/internal/handler"
	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

// ----- store fakes -----

type categoryStoreFake struct {
	cat      *model.Category
	updateOK bool
	updates  int
}

func (f *categoryStoreFake) ListAll(ctx context.Context) ([]*model.Category, error) {
	return nil, nil
}

func (f *categoryStoreFake) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	if f.cat == nil || f.cat.ID != id {
		return nil, repository.ErrCategoryNotFound
	}
	cp := *f.cat
	return &cp, nil
}

func (f *categoryStoreFake) Create(ctx context.Context, cat *model.Category) (bool, error) {
	return true, nil
}

func (f *categoryStoreFake) Update(ctx context.Context, cat *model.Category) (bool, error) {
	f.updates++
	return f.updateOK, nil
}

type productStoreFake struct {
	p        *model.Product
	updateOK bool
}

func (f *productStoreFake) ListAll(ctx context.Context) ([]*model.Product, error) { return nil, nil }

func (f *productStoreFake) ListByCategory(ctx context.Context, categoryID uint64) ([]*model.Product, error) {
	return nil, nil
}

func (f *productStoreFake) ListBySupplier(ctx context.Context, supplierID uint64) ([]*model.Product, error) {
	return nil, nil
}

func (f *productStoreFake) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	if f.p == nil || f.p.ID != id {
		return nil, repository.ErrProductNotFound
	}
	cp := *f.p
	return &cp, nil
}

func (f *productStoreFake) Create(ctx context.Context, p *model.Product) (bool, error) {
	return true, nil
}

func (f *productStoreFake) Update(ctx context.Context, p *model.Product) (bool, error) {
	return f.updateOK, nil
}

func (f *productStoreFake) Delete(ctx context.Context, id uint64) (bool, error) { return true, nil }

func (f *productStoreFake) DetachFromCategory(ctx context.Context, productID uint64) (bool, error) {
	return true, nil
}

func (f *productStoreFake) DetachFromSupplier(ctx context.Context, productID uint64) (bool, error) {
	return true, nil
}

type supplierStoreFake struct {
	s        *model.Supplier
	updateOK bool
}

func (f *supplierStoreFake) ListAll(ctx context.Context) ([]*model.Supplier, error) {
	return nil, nil
}

func (f *supplierStoreFake) GetByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	if f.s == nil || f.s.ID != id {
		return nil, repository.ErrSupplierNotFound
	}
	cp := *f.s
	return &cp, nil
}

func (f *supplierStoreFake) Create(ctx context.Context, s *model.Supplier) (bool, error) {
	return true, nil
}

func (f *supplierStoreFake) Update(ctx context.Context, s *model.Supplier) (bool, error) {
	return f.updateOK, nil
}

type customerStoreFake struct {
	cu       *model.Customer
	updateOK bool
}

func (f *customerStoreFake) ListAll(ctx context.Context) ([]*model.Customer, error) {
	return nil, nil
}

func (f *customerStoreFake) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	if f.cu == nil || f.cu.ID != id {
		return nil, repository.ErrCustomerNotFound
	}
	cp := *f.cu
	return &cp, nil
}

func (f *customerStoreFake) Create(ctx context.Context, cu *model.Customer) (bool, error) {
	return true, nil
}

func (f *customerStoreFake) Update(ctx context.Context, cu *model.Customer) (bool, error) {
	return f.updateOK, nil
}

type shipperStoreFake struct {
	s        *model.Shipper
	updateOK bool
}

func (f *shipperStoreFake) ListAll(ctx context.Context) ([]*model.Shipper, error) {
	return nil, nil
}

func (f *shipperStoreFake) GetByID(ctx context.Context, id uint64) (*model.Shipper, error) {
	if f.s == nil || f.s.ID != id {
		return nil, repository.ErrShipperNotFound
	}
	cp := *f.s
	return &cp, nil
}

func (f *shipperStoreFake) Create(ctx context.Context, s *model.Shipper) (bool, error) {
	return true, nil
}

func (f *shipperStoreFake) Update(ctx context.Context, s *model.Shipper) (bool, error) {
	return f.updateOK, nil
}

// orderStoreFake backs both the handlers' order lookups and the
// placement engine's required-date update.
type orderStoreFake struct {
	o          *model.Order
	requiredOK bool
}

func (f *orderStoreFake) ListByCustomer(ctx context.Context, customerID uint64) ([]*model.Order, error) {
	return nil, nil
}

func (f *orderStoreFake) ListByShipper(ctx context.Context, shipperID uint64) ([]*model.Order, error) {
	return nil, nil
}

func (f *orderStoreFake) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	if f.o == nil || f.o.ID != id {
		return nil, repository.ErrOrderNotFound
	}
	cp := *f.o
	return &cp, nil
}

func (f *orderStoreFake) GetByIDAndCustomer(ctx context.Context, id, customerID uint64) (*model.Order, error) {
	if f.o == nil || f.o.ID != id || f.o.CustomerID != customerID {
		return nil, repository.ErrOrderNotFound
	}
	cp := *f.o
	return &cp, nil
}

func (f *orderStoreFake) GetByIDAndShipper(ctx context.Context, id, shipperID uint64) (*model.Order, error) {
	if f.o == nil || f.o.ID != id || f.o.ShipperID == nil || *f.o.ShipperID != shipperID {
		return nil, repository.ErrOrderNotFound
	}
	cp := *f.o
	return &cp, nil
}

func (f *orderStoreFake) AssignShipper(ctx context.Context, orderID, shipperID uint64, shippedDate time.Time, shipName string) (bool, error) {
	return true, nil
}

func (f *orderStoreFake) Unship(ctx context.Context, orderID uint64) (bool, error) {
	return true, nil
}

func (f *orderStoreFake) DeleteWithDetails(ctx context.Context, orderID uint64) (bool, error) {
	return true, nil
}

func (f *orderStoreFake) Create(ctx context.Context, o *model.Order) (bool, error) {
	return true, nil
}

func (f *orderStoreFake) UpdateRequiredDate(ctx context.Context, orderID uint64, required time.Time) (bool, error) {
	return f.requiredOK, nil
}

type userStoreFake struct {
	u *model.User
}

func (f *userStoreFake) ListAll(ctx context.Context) ([]*model.User, error) { return nil, nil }

func (f *userStoreFake) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	if f.u == nil || f.u.ID != id {
		return nil, repository.ErrUserNotFound
	}
	cp := *f.u
	return &cp, nil
}

func (f *userStoreFake) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	if f.u == nil || f.u.UserName != userName {
		return nil, repository.ErrUserNotFound
	}
	cp := *f.u
	return &cp, nil
}

// ----- request helpers -----

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string, claims *service.Claims) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if claims != nil {
		c.Set("claims", *claims)
	}
	require.NoError(t, h(c))
	return rec
}

func errBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	s, _ := m["error"].(string)
	return s
}

// ----- update handlers must surface a vanished row -----

func TestCategoryUpdateVanishedRow(t *testing.T) {
	body := `{"name":"Seafood","description":"fish and shellfish"}`
	params := map[string]string{"id": "3"}

	t.Run("row gone between resolve and update", func(t *testing.T) {
		store := &categoryStoreFake{cat: &model.Category{ID: 3, Name: "Seafood"}}
		h := handler.NewCategoryHandler(store, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/categories/3", body, params, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "category not found", errBody(t, rec))
		assert.Equal(t, 1, store.updates)
	})

	t.Run("row updated", func(t *testing.T) {
		store := &categoryStoreFake{cat: &model.Category{ID: 3, Name: "Seafood"}, updateOK: true}
		h := handler.NewCategoryHandler(store, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/categories/3", body, params, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestProductUpdateVanishedRow(t *testing.T) {
	body := `{"name":"Chai"}`
	params := map[string]string{"id": "9"}

	t.Run("row gone", func(t *testing.T) {
		store := &productStoreFake{p: &model.Product{ID: 9, Name: "Chai"}}
		h := handler.NewProductHandler(store)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/products/9", body, params, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "product not found", errBody(t, rec))
	})

	t.Run("row updated", func(t *testing.T) {
		store := &productStoreFake{p: &model.Product{ID: 9, Name: "Chai"}, updateOK: true}
		h := handler.NewProductHandler(store)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/products/9", body, params, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSupplierUpdateVanishedRow(t *testing.T) {
	body := `{"company_name":"Exotic Liquids"}`
	params := map[string]string{"id": "4"}

	t.Run("row gone", func(t *testing.T) {
		store := &supplierStoreFake{s: &model.Supplier{ID: 4, CompanyName: "Exotic Liquids"}}
		h := handler.NewSupplierHandler(store, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/suppliers/4", body, params, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "supplier not found", errBody(t, rec))
	})

	t.Run("row updated", func(t *testing.T) {
		store := &supplierStoreFake{s: &model.Supplier{ID: 4, CompanyName: "Exotic Liquids"}, updateOK: true}
		h := handler.NewSupplierHandler(store, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/suppliers/4", body, params, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCustomerUpdateVanishedRow(t *testing.T) {
	body := `{"company_name":"Around the Horn"}`
	params := map[string]string{"id": "7"}

	t.Run("row gone", func(t *testing.T) {
		store := &customerStoreFake{cu: &model.Customer{ID: 7, CompanyName: "Around the Horn"}}
		h := handler.NewCustomerHandler(store, nil, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/customers/7", body, params, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "customer not found", errBody(t, rec))
	})

	t.Run("row updated", func(t *testing.T) {
		store := &customerStoreFake{cu: &model.Customer{ID: 7, CompanyName: "Around the Horn"}, updateOK: true}
		h := handler.NewCustomerHandler(store, nil, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/customers/7", body, params, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestShipperUpdateVanishedRow(t *testing.T) {
	body := `{"company_name":"United Package"}`
	params := map[string]string{"id": "2"}

	t.Run("row gone", func(t *testing.T) {
		store := &shipperStoreFake{s: &model.Shipper{ID: 2, CompanyName: "United Package"}}
		h := handler.NewShipperHandler(store, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/shippers/2", body, params, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "shipper not found", errBody(t, rec))
	})

	t.Run("row updated", func(t *testing.T) {
		store := &shipperStoreFake{s: &model.Shipper{ID: 2, CompanyName: "United Package"}, updateOK: true}
		h := handler.NewShipperHandler(store, nil, nil)
		rec := doJSON(t, h.Update, http.MethodPut, "/v1/shippers/2", body, params, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestNestedProductUpdateVanishedRow(t *testing.T) {
	catID := uint64(3)
	cats := &categoryStoreFake{cat: &model.Category{ID: catID, Name: "Beverages"}}
	products := &productStoreFake{p: &model.Product{ID: 9, Name: "Chai", CategoryID: &catID}}
	h := handler.NewCategoryHandler(cats, products, nil)

	rec := doJSON(t, h.UpdateProduct, http.MethodPut, "/v1/categories/3/products/9",
		`{"name":"Chai"}`, map[string]string{"id": "3", "pid": "9"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found in category", errBody(t, rec))
}

func TestOrderRequiredDateUpdateVanishedRow(t *testing.T) {
	customers := &customerStoreFake{cu: &model.Customer{ID: 7, CompanyName: "Around the Horn"}}
	body := `{"required_date":"2026-10-01T00:00:00Z"}`
	params := map[string]string{"id": "7", "oid": "11"}

	t.Run("row gone", func(t *testing.T) {
		orders := &orderStoreFake{o: &model.Order{ID: 11, CustomerID: 7}}
		h := handler.NewCustomerHandler(customers, orders, service.NewOrderService(nil, orders), nil)
		rec := doJSON(t, h.UpdateOrder, http.MethodPut, "/v1/customers/7/orders/11", body, params, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "order not found", errBody(t, rec))
	})

	t.Run("row updated", func(t *testing.T) {
		orders := &orderStoreFake{o: &model.Order{ID: 11, CustomerID: 7}, requiredOK: true}
		h := handler.NewCustomerHandler(customers, orders, service.NewOrderService(nil, orders), nil)
		rec := doJSON(t, h.UpdateOrder, http.MethodPut, "/v1/customers/7/orders/11", body, params, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// ----- user lookup by name -----

func TestUserGetByName(t *testing.T) {
	u := &model.User{ID: 7, Identifier: uuid.New(), UserName: "nancy", Role: model.RoleCustomer}
	h := handler.NewUserHandler(&userStoreFake{u: u}, nil)
	params := map[string]string{"username": "nancy"}

	t.Run("own record", func(t *testing.T) {
		claims := &service.Claims{Subject: u.Identifier.String(), Role: model.RoleCustomer}
		rec := doJSON(t, h.GetByName, http.MethodGet, "/v1/users/by-name/nancy", "", params, claims)
		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "nancy", got["user_name"])
	})

	t.Run("admin reads any record", func(t *testing.T) {
		claims := &service.Claims{Subject: uuid.NewString(), Role: model.RoleAdmin}
		rec := doJSON(t, h.GetByName, http.MethodGet, "/v1/users/by-name/nancy", "", params, claims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("someone else's record", func(t *testing.T) {
		claims := &service.Claims{Subject: uuid.NewString(), Role: model.RoleSupplierAdmin}
		rec := doJSON(t, h.GetByName, http.MethodGet, "/v1/users/by-name/nancy", "", params, claims)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown name", func(t *testing.T) {
		claims := &service.Claims{Subject: u.Identifier.String(), Role: model.RoleAdmin}
		rec := doJSON(t, h.GetByName, http.MethodGet, "/v1/users/by-name/marge", "",
			map[string]string{"username": "marge"}, claims)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
