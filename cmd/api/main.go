package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"automatehub_backend/internal/controller"
	"automatehub_backend/internal/middleware"
	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/catalog"
	"automatehub_backend/pkg/config"
	"automatehub_backend/pkg/cron"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/email"
	"automatehub_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	// Catalog Routes (public)
	api.Get("/products", controller.ListProducts)
	api.Get("/products/:product_id", controller.GetProduct)
	api.Get("/upsells", controller.ListUpsells)

	// Cart Routes: guests identify with X-Guest-Token, users with a bearer token
	cartRoutes := api.Group("/cart", middleware.OptionalAuth())
	cartRoutes.Get("/", controller.GetCart)
	cartRoutes.Get("/totals", controller.GetCartTotals)
	cartRoutes.Post("/items", controller.AddCartItem)
	cartRoutes.Put("/items/:product_id", controller.UpdateCartItemQuantity)
	cartRoutes.Delete("/items/:product_id", controller.RemoveCartItem)
	cartRoutes.Delete("/", controller.ClearCart)
	cartRoutes.Post("/merge", middleware.AuthMiddleware(), controller.MergeCart)

	// Checkout
	api.Post("/checkout/session", middleware.AuthMiddleware(), controller.CreateCheckoutSession)

	// Orders
	api.Get("/orders/:order_id", controller.GetOrder)

	// Usage gate
	usageRoutes := api.Group("/usage", middleware.AuthMiddleware())
	usageRoutes.Get("/", controller.GetUsage)
	usageRoutes.Post("/increment", controller.IncrementUsage)

	// Automations (metered)
	automations := api.Group("/automations", middleware.AuthMiddleware())
	automations.Post("/", controller.CreateAutomation)
	automations.Get("/", controller.ListMyAutomations)

	// Wishlist
	wishlist := api.Group("/wishlist", middleware.AuthMiddleware())
	wishlist.Get("/", controller.GetWishlist)
	wishlist.Post("/", controller.AddWishlistItem)
	wishlist.Delete("/:product_id", controller.RemoveWishlistItem)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Admin
	admin := api.Group("/admin", middleware.AdminMiddleware())
	admin.Put("/orders/:order_id/status", controller.UpdateOrderStatus)
	admin.Post("/orders/:order_id/resend-confirmation", controller.ResendOrderConfirmation)
	admin.Post("/usage/:user_id/reset", controller.ResetUsage)
	admin.Post("/products/:product_id/thumbnail", controller.UploadProductThumbnail)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		if err := email.InitEmailService(key); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email sending disabled")
	}

	if err := storage.InitStorage(); err != nil {
		log.Printf("Storage init warning: %v", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Dir)
	if err != nil {
		log.Fatal("Could not load product catalog:", err)
	}
	controller.InitCatalogController(cat)

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err = database.MigrateDatabase(
		&model.User{},
		&model.CartItem{},
		&model.WishlistItem{},
		&model.UserSubscription{},
		&model.UsageLog{},
		&model.Order{},
		&model.Automation{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	cron.InitSubscriptionExpiryCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
