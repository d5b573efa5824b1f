package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/service"
)

// lifecycleFake implements every lifecycle store interface and keeps
// the order in which calls arrived, so tests can assert that detaches
// are committed before the parent delete is issued.
type lifecycleFake struct {
	calls     []string
	detachErr error
	deleteOK  bool
}

func (f *lifecycleFake) Delete(_ context.Context, id uint64) (bool, error) {
	f.calls = append(f.calls, "delete")
	return f.deleteOK, nil
}

func (f *lifecycleFake) DetachAllFromCategory(_ context.Context, _ uint64) error {
	f.calls = append(f.calls, "detach")
	return f.detachErr
}

func (f *lifecycleFake) DetachAllFromSupplier(_ context.Context, _ uint64) error {
	f.calls = append(f.calls, "detach")
	return f.detachErr
}

func (f *lifecycleFake) DeleteWithLocation(_ context.Context, _ *model.Supplier) (bool, error) {
	f.calls = append(f.calls, "delete")
	return f.deleteOK, nil
}

func (f *lifecycleFake) DeleteCascade(_ context.Context, _ *model.Customer) (bool, error) {
	f.calls = append(f.calls, "delete")
	return f.deleteOK, nil
}

func (f *lifecycleFake) DeleteDetachingOrders(_ context.Context, _ uint64) (bool, error) {
	f.calls = append(f.calls, "delete")
	return f.deleteOK, nil
}

func TestCategoryDelete(t *testing.T) {
	cat := &model.Category{ID: 3, Name: "Beverages"}

	t.Run("detaches products before deleting the category", func(t *testing.T) {
		f := &lifecycleFake{deleteOK: true}
		svc := service.NewCategoryService(f, f)

		ok, err := svc.Delete(context.Background(), cat)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"detach", "delete"}, f.calls)
	})

	t.Run("a failed detach aborts the delete", func(t *testing.T) {
		f := &lifecycleFake{detachErr: errors.New("boom")}
		svc := service.NewCategoryService(f, f)

		ok, err := svc.Delete(context.Background(), cat)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"detach"}, f.calls)
	})
}

func TestSupplierDelete(t *testing.T) {
	sup := &model.Supplier{ID: 5, CompanyName: "Exotic Liquids"}

	t.Run("detaches products before deleting supplier and location", func(t *testing.T) {
		f := &lifecycleFake{deleteOK: true}
		svc := service.NewSupplierService(f, f)

		ok, err := svc.Delete(context.Background(), sup)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"detach", "delete"}, f.calls)
	})

	t.Run("a failed detach aborts the delete", func(t *testing.T) {
		f := &lifecycleFake{detachErr: errors.New("boom")}
		svc := service.NewSupplierService(f, f)

		ok, err := svc.Delete(context.Background(), sup)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"detach"}, f.calls)
	})
}

func TestCustomerDelete(t *testing.T) {
	f := &lifecycleFake{deleteOK: true}
	svc := service.NewCustomerService(f)

	ok, err := svc.Delete(context.Background(), &model.Customer{ID: 7, CompanyName: "Around the Horn"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"delete"}, f.calls)
}

func TestShipperDelete(t *testing.T) {
	f := &lifecycleFake{deleteOK: true}
	svc := service.NewShipperService(f)

	ok, err := svc.Delete(context.Background(), &model.Shipper{ID: 2, CompanyName: "United Package"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"delete"}, f.calls)
}
