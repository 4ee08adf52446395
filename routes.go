package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/config"
	"github.com/NIORSAYSON/agriculture-system-api/handlers"
	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/middleware"
	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
	"github.com/NIORSAYSON/agriculture-system-api/utils"
)

type routeDeps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Hub      *ws.Hub
	Verifier *utils.TokenVerifier
	Identity *services.IdentityService
	Carts    *services.CartService
	Orders   *services.OrderService
	Notifier *services.NotificationService
	TokenTTL time.Duration
}

func setupRoutes(app *fiber.App, deps routeDeps) {
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Verifier, deps.Identity,
		[]byte(deps.Config.JWTAccessSecret), deps.TokenTTL)
	userHandler := handlers.NewUserHandler(deps.DB)
	cartHandler := handlers.NewCartHandler(deps.Carts)
	orderHandler := handlers.NewOrderHandler(deps.Orders)
	productHandler := handlers.NewProductHandler(deps.DB)
	categoryHandler := handlers.NewCategoryHandler(deps.DB)
	adminHandler := handlers.NewAdminHandler(deps.DB, deps.Notifier)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifier)
	messageHandler := handlers.NewMessageHandler(deps.DB, deps.Hub)
	reviewHandler := handlers.NewReviewHandler(deps.DB)
	uploadHandler := handlers.NewUploadHandler("./uploads")

	wsAuth := &handlers.TokenAuthenticator{
		Verifier: deps.Verifier,
		Identity: deps.Identity,
		DB:       deps.DB,
	}
	wsHandler := handlers.NewWSHandler(deps.Hub, wsAuth, deps.Logger)

	protected := middleware.Protected(deps.Verifier, deps.Identity, deps.DB)
	sellerOnly := middleware.RequireRole(models.RoleSeller)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	app.Static("/uploads", "./uploads")

	app.Use("/ws", wsHandler.UpgradeMiddleware)
	app.Get("/ws", wsHandler.Handler())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.ProviderLogin)
	auth.Post("/logout", protected, authHandler.Logout)

	user := api.Group("/user", protected)
	user.Get("/me", userHandler.GetProfile)
	user.Get("/address", userHandler.ListAddresses)
	user.Post("/address", userHandler.AddAddress)
	user.Put("/address/:addressId", userHandler.UpdateAddress)

	cart := api.Group("/cart", protected, middleware.RequireRole(models.RoleBuyer))
	cart.Post("/", cartHandler.AddToCart)
	cart.Get("/", cartHandler.GetCart)
	cart.Delete("/delete", cartHandler.DeleteFromCart)

	order := api.Group("/order", protected)
	order.Post("/placeOrder", orderHandler.PlaceOrder)
	order.Post("/buyNow", orderHandler.BuyNow)
	order.Get("/", orderHandler.GetOrders)
	order.Get("/seller", sellerOnly, orderHandler.GetSellerOrders)
	order.Get("/seller/stats", sellerOnly, orderHandler.GetSellerStats)
	order.Put("/seller/:orderId/status", sellerOnly, orderHandler.UpdateOrderStatus)
	order.Patch("/cancel", orderHandler.CancelOrder)
	order.Patch("/:orderId/back", orderHandler.BackOrder)
	order.Get("/:orderId", orderHandler.GetOrderDetails)

	product := api.Group("/product")
	product.Get("/", productHandler.GetAllProducts)
	product.Get("/mine", protected, sellerOnly, productHandler.GetMyProducts)
	product.Get("/:id", productHandler.GetProduct)
	product.Post("/", protected, sellerOnly, productHandler.CreateProduct)
	product.Put("/:id", protected, sellerOnly, productHandler.UpdateProduct)
	product.Delete("/:id", protected, adminOnly, productHandler.DeleteProduct)

	category := api.Group("/category")
	category.Get("/", categoryHandler.GetCategories)
	category.Post("/", protected, adminOnly, categoryHandler.CreateCategory)
	category.Put("/:id", protected, adminOnly, categoryHandler.UpdateCategory)
	category.Delete("/:id", protected, adminOnly, categoryHandler.DeleteCategory)

	admin := api.Group("/admin", protected, adminOnly)
	admin.Get("/dashboard", adminHandler.GetDashboard)
	admin.Get("/products/pending", adminHandler.GetPendingProducts)
	admin.Put("/products/approval", adminHandler.ProductApproval)
	admin.Get("/users", adminHandler.GetAllUsers)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	notification := api.Group("/notification", protected)
	notification.Get("/", notificationHandler.GetNotifications)
	notification.Patch("/:id/read", notificationHandler.MarkRead)

	message := api.Group("/message", protected)
	message.Post("/", messageHandler.SendMessage)
	message.Get("/conversations", messageHandler.GetConversations)
	message.Get("/conversation/:partnerId", messageHandler.GetConversationMessages)

	review := api.Group("/review")
	review.Get("/", reviewHandler.GetReviews)
	review.Post("/", protected, middleware.RequireRole(models.RoleBuyer), reviewHandler.AddReview)

	api.Post("/upload", protected, uploadHandler.UploadImage)
}
