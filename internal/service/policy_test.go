package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/service"
)

func TestEvaluatePolicy(t *testing.T) {
	t.Run("admin satisfies every policy", func(t *testing.T) {
		c := service.Claims{Subject: "a", Role: model.RoleAdmin}
		assert.True(t, service.EvaluatePolicy(service.PolicyAdmin, c))
		assert.True(t, service.EvaluatePolicy(service.PolicySupplierAdmin, c))
		assert.True(t, service.EvaluatePolicy(service.PolicySupplier, c))
	})

	t.Run("supplier admin satisfies its tier and below", func(t *testing.T) {
		c := service.Claims{Subject: "sa", Role: model.RoleSupplierAdmin}
		assert.False(t, service.EvaluatePolicy(service.PolicyAdmin, c))
		assert.True(t, service.EvaluatePolicy(service.PolicySupplierAdmin, c))
		assert.True(t, service.EvaluatePolicy(service.PolicySupplier, c))
	})

	t.Run("supplier satisfies only the supplier policy", func(t *testing.T) {
		c := service.Claims{Subject: "s", Role: model.RoleSupplier}
		assert.False(t, service.EvaluatePolicy(service.PolicyAdmin, c))
		assert.False(t, service.EvaluatePolicy(service.PolicySupplierAdmin, c))
		assert.True(t, service.EvaluatePolicy(service.PolicySupplier, c))
	})

	t.Run("customer and shipper satisfy none", func(t *testing.T) {
		for _, role := range []model.Role{model.RoleCustomer, model.RoleShipper} {
			c := service.Claims{Subject: "x", Role: role}
			assert.False(t, service.EvaluatePolicy(service.PolicyAdmin, c))
			assert.False(t, service.EvaluatePolicy(service.PolicySupplierAdmin, c))
			assert.False(t, service.EvaluatePolicy(service.PolicySupplier, c))
		}
	})

	t.Run("unknown policy never passes", func(t *testing.T) {
		c := service.Claims{Subject: "a", Role: model.RoleAdmin}
		assert.False(t, service.EvaluatePolicy("Owner", c))
		assert.False(t, service.EvaluatePolicy("", c))
	})
}

func TestCanAccessUser(t *testing.T) {
	t.Run("admin reaches any record", func(t *testing.T) {
		c := service.Claims{Subject: "admin-id", Role: model.RoleAdmin}
		assert.True(t, service.CanAccessUser(c, "someone-else"))
	})

	t.Run("non-admin reaches only their own record", func(t *testing.T) {
		c := service.Claims{Subject: "cust-id", Role: model.RoleCustomer}
		assert.True(t, service.CanAccessUser(c, "cust-id"))
		assert.False(t, service.CanAccessUser(c, "other-id"))
	})

	t.Run("mismatch fails regardless of tier", func(t *testing.T) {
		c := service.Claims{Subject: "sa-id", Role: model.RoleSupplierAdmin}
		assert.False(t, service.CanAccessUser(c, "other-id"))
	})
}
