package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/config"
	"github.com/averdin/northwind-api/internal/database"
	"github.com/averdin/northwind-api/internal/handler"
	"github.com/averdin/northwind-api/internal/middleware"
	"github.com/averdin/northwind-api/internal/queue"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/router"
	"github.com/averdin/northwind-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	suppliers := repository.NewSupplierRepo(db)
	customers := repository.NewCustomerRepo(db)
	orders := repository.NewOrderRepo(db)
	shippers := repository.NewShipperRepo(db)
	users := repository.NewUserRepo(db)

	// Services.
	auth := service.NewAuthService(users, cfg)
	categorySvc := service.NewCategoryService(categories, products)
	supplierSvc := service.NewSupplierService(suppliers, products)
	customerSvc := service.NewCustomerService(customers)
	shipperSvc := service.NewShipperService(shippers)
	orderSvc := service.NewOrderService(products, orders)
	userSvc := service.NewUserService(users)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching degrade to
	// pass-throughs when Redis is unreachable.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e, cfg, router.Handlers{
		Auth:       handler.NewAuthHandler(auth, users),
		Categories: handler.NewCategoryHandler(categories, products, categorySvc),
		Products:   handler.NewProductHandler(products),
		Suppliers:  handler.NewSupplierHandler(suppliers, products, supplierSvc),
		Customers:  handler.NewCustomerHandler(customers, orders, orderSvc, customerSvc),
		Shippers:   handler.NewShipperHandler(shippers, orders, shipperSvc),
		Users:      handler.NewUserHandler(users, userSvc),
	})

	// Background consumer for order.placed events; the publisher and
	// consumer both retry independently when the broker is down.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("rabbitmq: consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
