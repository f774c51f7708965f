package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/stylofitness/storefront-api/internal/middleware"
	"github.com/stylofitness/storefront-api/internal/model"
)

// RouterConfig carries everything NewRouter needs to mount the API.
type RouterConfig struct {
	Products *ProductHandler
	Orders   *OrderHandler
	Stock    *StockHandler
	Carts    *CartHandler
	Auth     *AuthHandler
	Health   *HealthHandler

	JWTSecret string
	// AuthRequired turns on role checks for staff and admin routes.
	AuthRequired bool
	Log          *slog.Logger
	// Middleware runs before request logging, e.g. tracing.
	Middleware []gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cfg.Middleware...)
	r.Use(middleware.RequestID(), middleware.Logger(cfg.Log))

	r.GET("/healthz", cfg.Health.Healthz)
	r.GET("/readyz", cfg.Health.Readyz)

	staff, admin := gin.HandlerFunc(passThrough), gin.HandlerFunc(passThrough)
	if cfg.AuthRequired {
		staff = middleware.RequireRole(model.RoleWorker, model.RoleAdmin)
		admin = middleware.RequireRole(model.RoleAdmin)
	}

	api := r.Group("/api")
	api.Use(middleware.Identity(cfg.JWTSecret))

	auth := api.Group("/auth")
	auth.POST("/register", cfg.Auth.Register)
	auth.POST("/login", cfg.Auth.Login)

	products := api.Group("/products")
	products.GET("", cfg.Products.List)
	products.GET("/:id", cfg.Products.GetByID)
	products.POST("/:id/reviews", cfg.Products.AddReview)
	products.POST("", staff, cfg.Products.Create)
	products.PATCH("/:id", staff, cfg.Products.Update)
	products.PATCH("/:id/stock", staff, cfg.Products.AddStock)
	products.DELETE("/:id", admin, cfg.Products.Delete)

	orders := api.Group("/orders")
	orders.POST("", cfg.Orders.CreateOrder)
	orders.GET("/:id", cfg.Orders.GetOrder)
	orders.GET("/customer/:customerId", cfg.Orders.ListCustomerOrders)
	orders.GET("", staff, cfg.Orders.ListOrders)
	orders.PATCH("/:id", staff, cfg.Orders.UpdateStatus)

	movements := api.Group("/stock-movements", staff)
	movements.GET("", cfg.Stock.ListMovements)
	movements.POST("", cfg.Stock.RecordMovement)

	cart := api.Group("/cart/:customerId")
	cart.GET("", cfg.Carts.GetCart)
	cart.DELETE("", cfg.Carts.Clear)
	cart.POST("/items", cfg.Carts.AddItem)
	cart.PATCH("/items/:productId", cfg.Carts.UpdateItem)
	cart.DELETE("/items/:productId", cfg.Carts.RemoveItem)

	return r
}

func passThrough(c *gin.Context) { c.Next() }
