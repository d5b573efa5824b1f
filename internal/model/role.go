package model

import "strings"

// Role is the closed set of authorization roles a user can hold.
// The string form is used both as the JWT "role" claim and as the
// value persisted in the users table, so there is exactly one
// canonical representation per role.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleSupplierAdmin Role = "SupplierAdmin"
	RoleSupplier      Role = "Supplier"
	RoleCustomer      Role = "Customer"
	RoleShipper       Role = "Shipper"
)

// Roles lists every valid role. Used for request validation messages.
var Roles = []Role{RoleAdmin, RoleSupplierAdmin, RoleSupplier, RoleCustomer, RoleShipper}

// ParseRole maps a string onto a Role, case-insensitively. It is the
// single parsing point shared by request validation and claim reading;
// the second return value is false when the input is not a known role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// String returns the canonical form used in claims and storage.
func (r Role) String() string { return string(r) }
