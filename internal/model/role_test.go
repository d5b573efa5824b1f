package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/averdin/northwind-api/internal/model"
)

func nowPtr() *time.Time {
	t := time.Now().UTC()
	return &t
}

func TestParseRole(t *testing.T) {
	t.Run("accepts each role case-insensitively", func(t *testing.T) {
		cases := map[string]model.Role{
			"Admin":         model.RoleAdmin,
			"admin":         model.RoleAdmin,
			"ADMIN":         model.RoleAdmin,
			"SupplierAdmin": model.RoleSupplierAdmin,
			"supplieradmin": model.RoleSupplierAdmin,
			"Supplier":      model.RoleSupplier,
			"customer":      model.RoleCustomer,
			"SHIPPER":       model.RoleShipper,
		}
		for in, want := range cases {
			got, ok := model.ParseRole(in)
			assert.True(t, ok, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		for _, in := range []string{"", "root", "Admins", "Supplier Admin"} {
			_, ok := model.ParseRole(in)
			assert.False(t, ok, in)
		}
	})
}

func TestRefreshTokenIsRevoked(t *testing.T) {
	now := nowPtr()
	t.Run("live token is not revoked", func(t *testing.T) {
		tok := model.RefreshToken{Value: "v", CreateDate: now, ExpiryDate: now}
		assert.False(t, tok.IsRevoked())
	})
	t.Run("revoked token has revoke set and expiry cleared", func(t *testing.T) {
		tok := model.RefreshToken{CreateDate: now, RevokeDate: now}
		assert.True(t, tok.IsRevoked())
	})
	t.Run("both timestamps set is not a revoked state", func(t *testing.T) {
		tok := model.RefreshToken{ExpiryDate: now, RevokeDate: now}
		assert.False(t, tok.IsRevoked())
	})
}
