package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/service"
)

// productFinderFake serves products from a fixed map.
type productFinderFake struct {
	products map[uint64]*model.Product
}

func (f *productFinderFake) GetByID(_ context.Context, id uint64) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrProductNotFound
}

// orderStoreFake records persisted orders and required-date updates.
type orderStoreFake struct {
	created       []*model.Order
	requiredDates map[uint64]time.Time
}

func (f *orderStoreFake) Create(_ context.Context, o *model.Order) (bool, error) {
	o.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, o)
	return true, nil
}

func (f *orderStoreFake) UpdateRequiredDate(_ context.Context, orderID uint64, required time.Time) (bool, error) {
	if f.requiredDates == nil {
		f.requiredDates = make(map[uint64]time.Time)
	}
	f.requiredDates[orderID] = required
	return true, nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func catalogFixture() *productFinderFake {
	return &productFinderFake{products: map[uint64]*model.Product{
		1: {ID: 1, Name: "Chai", UnitPrice: price("2.79"), UnitsInStock: 40},
		2: {ID: 2, Name: "Chang", UnitPrice: price("2.79"), UnitsInStock: 17},
		3: {ID: 3, Name: "Aniseed Syrup", UnitPrice: price("3.95"), UnitsInStock: 13},
		4: {ID: 4, Name: "Discontinued Mix", UnitPrice: price("9.99"), UnitsInStock: 50, Discontinued: 1},
		5: {ID: 5, Name: "Scarce Tea", UnitPrice: price("4.50"), UnitsInStock: 3},
	}}
}

func testCustomer() *model.Customer {
	return &model.Customer{
		ID:          7,
		CompanyName: "Around the Horn",
		Location:    &model.Location{ID: 42, Address: "120 Hanover Sq."},
	}
}

func TestPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the exact decimal total", func(t *testing.T) {
		svc := service.NewOrderService(catalogFixture(), &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 2},
			{ProductID: 3, Quantity: 3},
		}}

		require.NoError(t, svc.Place(ctx, testCustomer(), order))

		// 5×2.79 + 2×2.79 + 3×3.95 = 31.38
		assert.True(t, order.Total.Equal(price("31.38")), "got %s", order.Total)
		assert.True(t, order.Details[0].UnitPrice.Equal(price("2.79")))
		assert.True(t, order.Details[2].UnitPrice.Equal(price("3.95")))
	})

	t.Run("subtracts per-line discounts", func(t *testing.T) {
		svc := service.NewOrderService(catalogFixture(), &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{
			{ProductID: 1, Quantity: 5, Discount: price("1.00")},
			{ProductID: 3, Quantity: 3, Discount: price("0.85")},
		}}

		require.NoError(t, svc.Place(ctx, testCustomer(), order))

		// (13.95 − 1.00) + (11.85 − 0.85) = 23.95
		assert.True(t, order.Total.Equal(price("23.95")), "got %s", order.Total)
	})

	t.Run("snapshots customer, location and order date", func(t *testing.T) {
		svc := service.NewOrderService(catalogFixture(), &orderStoreFake{})
		cu := testCustomer()
		order := &model.Order{Details: []model.OrderDetail{{ProductID: 1, Quantity: 1}}}

		before := time.Now().UTC()
		require.NoError(t, svc.Place(ctx, cu, order))

		assert.Equal(t, cu.ID, order.CustomerID)
		assert.Equal(t, cu.Location.ID, order.LocationID)
		assert.WithinDuration(t, before, order.OrderDate, 2*time.Second)
		assert.Equal(t, time.UTC, order.OrderDate.Location())
	})

	t.Run("clamps quantity to stock without error", func(t *testing.T) {
		svc := service.NewOrderService(catalogFixture(), &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{{ProductID: 5, Quantity: 10}}}

		require.NoError(t, svc.Place(ctx, testCustomer(), order))

		assert.Equal(t, int32(3), order.Details[0].Quantity)
		assert.True(t, order.Total.Equal(price("13.50")), "got %s", order.Total) // 3×4.50
	})

	t.Run("clamping does not touch catalog stock", func(t *testing.T) {
		catalog := catalogFixture()
		svc := service.NewOrderService(catalog, &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{{ProductID: 5, Quantity: 10}}}

		require.NoError(t, svc.Place(ctx, testCustomer(), order))

		assert.Equal(t, int32(3), catalog.products[5].UnitsInStock)
	})

	t.Run("non-positive quantity fails before any lookup", func(t *testing.T) {
		svc := service.NewOrderService(catalogFixture(), &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 0},
		}}

		err := svc.Place(ctx, testCustomer(), order)
		var qe *service.QuantityError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, uint64(2), qe.ProductID)
	})

	t.Run("missing and discontinued products are batched into one error", func(t *testing.T) {
		svc := service.NewOrderService(catalogFixture(), &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{
			{ProductID: 1, Quantity: 1},
			{ProductID: 99, Quantity: 1}, // not in catalog
			{ProductID: 4, Quantity: 1},  // discontinued
		}}

		err := svc.Place(ctx, testCustomer(), order)
		var nfe *service.ProductsNotFoundError
		require.ErrorAs(t, err, &nfe)
		assert.Equal(t, []uint64{99, 4}, nfe.ProductIDs)
		assert.Equal(t, "[99,4]", nfe.IDList())
	})

	t.Run("only missing products are batched", func(t *testing.T) {
		catalog := &productFinderFake{products: map[uint64]*model.Product{
			1: {ID: 1, UnitPrice: price("1.00"), UnitsInStock: 5},
		}}
		svc := service.NewOrderService(catalog, &orderStoreFake{})
		order := &model.Order{Details: []model.OrderDetail{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 1},
			{ProductID: 3, Quantity: 1},
		}}

		err := svc.Place(ctx, testCustomer(), order)
		var nfe *service.ProductsNotFoundError
		require.ErrorAs(t, err, &nfe)
		assert.Equal(t, "[2,3]", nfe.IDList())
	})
}

func TestSaveOrder(t *testing.T) {
	store := &orderStoreFake{}
	svc := service.NewOrderService(catalogFixture(), store)
	order := &model.Order{Details: []model.OrderDetail{{ProductID: 1, Quantity: 1}}}
	require.NoError(t, svc.Place(context.Background(), testCustomer(), order))

	ok, err := svc.Save(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, store.created, 1)
	assert.Equal(t, order, store.created[0])
}

func TestChangeRequiredDate(t *testing.T) {
	ctx := context.Background()
	newDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	t.Run("updates an unshipped order", func(t *testing.T) {
		store := &orderStoreFake{}
		svc := service.NewOrderService(catalogFixture(), store)
		o := &model.Order{ID: 11, RequiredDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}

		ok, err := svc.ChangeRequiredDate(ctx, o, newDate)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, newDate, o.RequiredDate)
		assert.Equal(t, newDate, store.requiredDates[11])
	})

	t.Run("shipped order is immutable", func(t *testing.T) {
		store := &orderStoreFake{}
		svc := service.NewOrderService(catalogFixture(), store)
		shipped := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		original := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		o := &model.Order{ID: 12, RequiredDate: original, ShippedDate: &shipped}

		ok, err := svc.ChangeRequiredDate(ctx, o, newDate)
		assert.ErrorIs(t, err, service.ErrOrderShipped)
		assert.False(t, ok)
		assert.Equal(t, original, o.RequiredDate)
		assert.Empty(t, store.requiredDates)
	})
}
