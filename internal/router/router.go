// Package router wires handlers to routes and applies the auth and
// policy middleware tiers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/config"
	"github.com/averdin/northwind-api/internal/handler"
	"github.com/averdin/northwind-api/internal/middleware"
	"github.com/averdin/northwind-api/internal/service"
)

// Handlers collects every handler the API mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Suppliers  *handler.SupplierHandler
	Customers  *handler.CustomerHandler
	Shippers   *handler.ShipperHandler
	Users      *handler.UserHandler
}

// RegisterRoutes mounts the whole API surface on the Echo instance.
// Everything under /v1 except the login and refresh endpoints sits
// behind access-token validation; write operations additionally pass
// a policy gate.
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Credential exchange does not require an existing session.
	auth := e.Group("/v1/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, middleware.JWTAuth(cfg))

	v1 := e.Group("/v1", middleware.JWTAuth(cfg))

	supplier := middleware.RequirePolicy(service.PolicySupplier)
	supplierAdmin := middleware.RequirePolicy(service.PolicySupplierAdmin)
	admin := middleware.RequirePolicy(service.PolicyAdmin)

	// Categories. Deleting a category detaches its products.
	v1.GET("/categories", h.Categories.List)
	v1.GET("/categories/:id", h.Categories.Get)
	v1.POST("/categories", h.Categories.Create, supplier)
	v1.PUT("/categories/:id", h.Categories.Update, supplier)
	v1.DELETE("/categories/:id", h.Categories.Delete, supplierAdmin)
	v1.GET("/categories/:id/products", h.Categories.ListProducts)
	v1.POST("/categories/:id/products", h.Categories.AddProduct, supplier)
	v1.GET("/categories/:id/products/:pid", h.Categories.GetProduct)
	v1.PUT("/categories/:id/products/:pid", h.Categories.UpdateProduct, supplier)
	v1.DELETE("/categories/:id/products/:pid", h.Categories.DetachProduct, supplier)

	// Catalog.
	v1.GET("/products", h.Products.List)
	v1.GET("/products/:id", h.Products.Get)
	v1.POST("/products", h.Products.Create, supplier)
	v1.PUT("/products/:id", h.Products.Update, supplier)
	v1.DELETE("/products/:id", h.Products.Delete, supplierAdmin)

	// Suppliers. Deleting a supplier detaches its products and removes
	// its owned location.
	v1.GET("/suppliers", h.Suppliers.List)
	v1.GET("/suppliers/:id", h.Suppliers.Get)
	v1.POST("/suppliers", h.Suppliers.Create, supplier)
	v1.PUT("/suppliers/:id", h.Suppliers.Update, supplier)
	v1.DELETE("/suppliers/:id", h.Suppliers.Delete, supplierAdmin)
	v1.GET("/suppliers/:id/products", h.Suppliers.ListProducts)
	v1.POST("/suppliers/:id/products", h.Suppliers.AddProduct, supplier)
	v1.GET("/suppliers/:id/products/:pid", h.Suppliers.GetProduct)
	v1.PUT("/suppliers/:id/products/:pid", h.Suppliers.UpdateProduct, supplier)
	v1.DELETE("/suppliers/:id/products/:pid", h.Suppliers.DetachProduct, supplier)

	// Customers and their orders. Deleting a customer cascades to its
	// orders.
	v1.GET("/customers", h.Customers.List)
	v1.GET("/customers/:id", h.Customers.Get)
	v1.POST("/customers", h.Customers.Create, supplierAdmin)
	v1.PUT("/customers/:id", h.Customers.Update, supplierAdmin)
	v1.DELETE("/customers/:id", h.Customers.Delete, supplierAdmin)
	v1.GET("/customers/:id/orders", h.Customers.ListOrders)
	v1.POST("/customers/:id/orders", h.Customers.PlaceOrder)
	v1.GET("/customers/:id/orders/:oid", h.Customers.GetOrder)
	v1.PUT("/customers/:id/orders/:oid", h.Customers.UpdateOrder)
	v1.DELETE("/customers/:id/orders/:oid", h.Customers.DeleteOrder)

	// Shippers and their orders. Deleting a shipper un-ships its
	// orders; a nested order DELETE detaches a single order.
	v1.GET("/shippers", h.Shippers.List)
	v1.GET("/shippers/:id", h.Shippers.Get)
	v1.POST("/shippers", h.Shippers.Create, supplierAdmin)
	v1.PUT("/shippers/:id", h.Shippers.Update, supplierAdmin)
	v1.DELETE("/shippers/:id", h.Shippers.Delete, supplierAdmin)
	v1.GET("/shippers/:id/orders", h.Shippers.ListOrders)
	v1.GET("/shippers/:id/orders/:oid", h.Shippers.GetOrder)
	v1.PUT("/shippers/:id/orders/:oid", h.Shippers.AttachOrder)
	v1.DELETE("/shippers/:id/orders/:oid", h.Shippers.DetachOrder)

	// Users. Get is not admin-gated: the handler allows self-service
	// reads of the caller's own record.
	v1.GET("/users", h.Users.List, admin)
	v1.GET("/users/:id", h.Users.Get)
	v1.GET("/users/by-name/:username", h.Users.GetByName)
	v1.POST("/users", h.Users.Create, admin)
	v1.DELETE("/users/:id", h.Users.Delete, admin)
}
