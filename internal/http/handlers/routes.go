package handlers

import (
	"acaiteria/internal/app"
	"acaiteria/internal/http/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services, hub *StatusHub) {
	storeHandler := NewStoreHandler(services.StoreService)
	catalogHandler := NewCatalogHandler(services.CatalogService)
	orderHandler := NewOrderHandler(services.OrderService)
	addressHandler := NewAddressHandler(services.AddressRepo)
	customerHandler := NewCustomerHandler(services.UserRepo)
	authHandler := NewAuthHandler(services.AuthService)
	wsHandler := NewWebSocketHandler(hub)

	// Rotas públicas da vitrine
	api.GET("/store", storeHandler.Availability)
	api.GET("/store/status", storeHandler.Status)
	api.GET("/store/delivery", storeHandler.Delivery)
	api.GET("/store/schedule", storeHandler.Schedule)
	api.GET("/ws/status", wsHandler.HandleWebSocket)

	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.GET("/complements", catalogHandler.ListComplements)

	// Auth routes (no authentication required), com limite por IP
	auth := api.Group("/auth")
	auth.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(services.Config.AuthRateLimit))))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))

	protected.GET("/me", authHandler.Profile)
	protected.PUT("/me", authHandler.UpdateProfile)
	protected.PUT("/me/password", authHandler.ChangePassword)

	// Cliente
	customer := protected.Group("")
	customer.Use(middleware.CustomerOnly())

	customer.GET("/addresses", addressHandler.List)
	customer.POST("/addresses", addressHandler.Create)
	customer.PUT("/addresses/:id", addressHandler.Update)
	customer.DELETE("/addresses/:id", addressHandler.Delete)
	customer.PUT("/addresses/:id/default", addressHandler.SetDefault)

	customer.POST("/orders", orderHandler.Checkout, middleware.RequireStoreOpen(services.StoreService))
	customer.GET("/orders", orderHandler.ListMine)
	customer.GET("/orders/:id", orderHandler.GetMine)
	customer.POST("/orders/:id/cancel", orderHandler.CancelMine)

	// Painel administrativo
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())

	admin.GET("/store/settings", storeHandler.GetSettings)
	admin.PUT("/store/settings", storeHandler.UpdateSettings)
	admin.PUT("/store/manual", storeHandler.SetManualOpen)

	admin.GET("/categories", catalogHandler.ListCategories)
	admin.POST("/categories", catalogHandler.CreateCategory)
	admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
	admin.DELETE("/categories/:id", catalogHandler.DeleteCategory)

	admin.GET("/products", catalogHandler.ListProducts)
	admin.GET("/products/:id", catalogHandler.GetProduct)
	admin.POST("/products", catalogHandler.CreateProduct)
	admin.PUT("/products/:id", catalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", catalogHandler.DeleteProduct)
	admin.POST("/products/:id/image", catalogHandler.UploadProductImage)

	admin.GET("/complements", catalogHandler.ListComplements)
	admin.POST("/complements", catalogHandler.CreateComplement)
	admin.PUT("/complements/:id", catalogHandler.UpdateComplement)
	admin.DELETE("/complements/:id", catalogHandler.DeleteComplement)

	admin.GET("/orders", orderHandler.List)
	admin.GET("/orders/:id", orderHandler.Get)
	admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)

	admin.GET("/customers", customerHandler.List)
}
