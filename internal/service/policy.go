// Package service holds the domain rules sitting between HTTP
// handlers and repositories: credential issuance, the entity
// lifecycle rules, order placement and policy evaluation.
package service

import "github.com/averdin/northwind-api/internal/model"

// Claims is the identity extracted from a validated access token.
type Claims struct {
	Subject string     // external user identifier
	Role    model.Role // authenticated role
}

// Policy names. Each name keys a predicate in the policies table and
// doubles as the route-level annotation handlers are gated with.
const (
	PolicyAdmin         = "Admin"
	PolicySupplierAdmin = "SupplierAdmin"
	PolicySupplier      = "Supplier"
)

// policies maps a policy name to its predicate. Wider policies call
// the narrower ones explicitly: SupplierAdmin admits Admins, Supplier
// admits both tiers above it.
var policies = map[string]func(Claims) bool{
	PolicyAdmin:         adminPolicy,
	PolicySupplierAdmin: supplierAdminPolicy,
	PolicySupplier:      supplierPolicy,
}

func adminPolicy(c Claims) bool {
	return c.Role == model.RoleAdmin
}

func supplierAdminPolicy(c Claims) bool {
	return adminPolicy(c) || c.Role == model.RoleSupplierAdmin
}

func supplierPolicy(c Claims) bool {
	return adminPolicy(c) || supplierAdminPolicy(c) || c.Role == model.RoleSupplier
}

// EvaluatePolicy reports whether the caller's claims satisfy the
// named policy. Unknown policy names never pass. The evaluator is a
// pure predicate: no side effects, no persistence.
func EvaluatePolicy(name string, c Claims) bool {
	p, ok := policies[name]
	return ok && p(c)
}

// CanAccessUser is the self-service identity check: admins may reach
// any user record, everyone else only the record whose external
// identifier matches their own subject claim.
func CanAccessUser(c Claims, identifier string) bool {
	return adminPolicy(c) || c.Subject == identifier
}
