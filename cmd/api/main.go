package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"podstore/internal/core/cache"
	"podstore/internal/core/config"
	"podstore/internal/core/crypto"
	"podstore/internal/core/database"
	"podstore/internal/core/logger"
	"podstore/internal/core/queue"
	"podstore/internal/core/server"
	"podstore/internal/core/web"

	adminadapters "podstore/internal/features/admin/adapters"
	adminhandler "podstore/internal/features/admin/handler"
	adminservice "podstore/internal/features/admin/service"
	authadapters "podstore/internal/features/auth/adapters"
	authhandler "podstore/internal/features/auth/handler"
	authservice "podstore/internal/features/auth/service"
	cartadapters "podstore/internal/features/cart/adapters"
	carthandler "podstore/internal/features/cart/handler"
	cartservice "podstore/internal/features/cart/service"
	catalogadapters "podstore/internal/features/catalog/adapters"
	cataloghandler "podstore/internal/features/catalog/handler"
	catalogservice "podstore/internal/features/catalog/service"
	offersadapters "podstore/internal/features/offers/adapters"
	offershandler "podstore/internal/features/offers/handler"
	offersservice "podstore/internal/features/offers/service"
	ordersadapters "podstore/internal/features/orders/adapters"
	ordershandler "podstore/internal/features/orders/handler"
	ordersservice "podstore/internal/features/orders/service"
	provideradapters "podstore/internal/features/providers/adapters"
	"podstore/internal/features/providers/registry"
	webhookadapters "podstore/internal/features/webhooks/adapters"
	webhookhandler "podstore/internal/features/webhooks/handler"
	webhookservice "podstore/internal/features/webhooks/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title podstore API
// @version 1.0
// @description Print-on-demand storefront backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisCache, err := cache.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	jobQueue, err := queue.NewRedisQueue(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to create job queue", zap.Error(err))
	}
	defer jobQueue.Close()

	box, err := crypto.NewBox(cfg.EncryptionKey)
	if err != nil {
		log.Fatal("Failed to init encryption", zap.Error(err))
	}

	// Repositories.
	userRepo := authadapters.NewPostgresUserRepository(db)
	productRepo := catalogadapters.NewPostgresProductRepository(db)
	orderRepo := ordersadapters.NewPostgresOrderRepository(db)
	offerRepo := offersadapters.NewPostgresOfferRepository(db)
	eventRepo := webhookadapters.NewPostgresEventRepository(db)
	settingsRepo := adminadapters.NewPostgresSettingsRepository(db, box)
	cartRepo := cartadapters.NewRedisCartRepository(redisCache)

	// Provider adapters share the order repository as their status writer.
	reg := registry.New(
		provideradapters.NewPrintroveAdapter(cfg.Providers.PrintroveAPIKey, cfg.Providers.PrintroveWebhookSecret, orderRepo),
		provideradapters.NewPrintfulAdapter(cfg.Providers.PrintfulAPIKey, cfg.Providers.PrintfulWebhookSecret, orderRepo),
		provideradapters.NewPrintifyAdapter(cfg.Providers.PrintifyAPIKey, cfg.Providers.PrintifyShopID, cfg.Providers.PrintifyWebhookSecret, orderRepo),
	)

	gateway := ordersadapters.NewRazorpayGateway(cfg.Payment)

	// Services.
	authSvc := authservice.NewAuthService(userRepo, cfg.JWTSecret)
	productSvc := catalogservice.NewProductService(productRepo)
	offerSvc := offersservice.NewOfferService(offerRepo, productRepo)
	orderSvc := ordersservice.NewOrderService(orderRepo, productRepo, gateway, offerSvc, jobQueue)
	cartSvc := cartservice.NewCartService(cartRepo, productRepo)
	processor := webhookservice.NewProcessor(reg, eventRepo)
	adminSvc := adminservice.NewAdminService(orderRepo, productRepo, userRepo, settingsRepo, jobQueue)

	// Handlers.
	authH := authhandler.NewAuthHandler(authSvc)
	productH := cataloghandler.NewProductHandler(productSvc)
	orderH := ordershandler.NewOrderHandler(orderSvc, cfg.Payment.KeyID)
	offerH := offershandler.NewOfferHandler(offerSvc)
	cartH := carthandler.NewCartHandler(cartSvc)
	webhookH := webhookhandler.NewWebhookHandler(processor)
	adminH := adminhandler.NewAdminHandler(adminSvc, offerSvc)

	srv := server.New(cfg)
	registerRoutes(srv.App, authSvc, authH, productH, orderH, offerH, cartH, webhookH, adminH, redisCache)

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
}

func registerRoutes(
	app *fiber.App,
	authSvc *authservice.AuthService,
	authH *authhandler.AuthHandler,
	productH *cataloghandler.ProductHandler,
	orderH *ordershandler.OrderHandler,
	offerH *offershandler.OfferHandler,
	cartH *carthandler.CartHandler,
	webhookH *webhookhandler.WebhookHandler,
	adminH *adminhandler.AdminHandler,
	redisCache cache.Cache,
) {
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			return web.Fail(c, fiber.StatusServiceUnavailable, "cache unreachable")
		}
		return web.Msg(c, "ok")
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authH.Register)
	auth.Post("/login", authH.Login)
	auth.Get("/me", authhandler.RequireAuth(authSvc), authH.Me)

	products := api.Group("/products")
	products.Get("/", productH.List)
	products.Get("/categories", productH.Categories)
	products.Get("/:id", productH.Get)
	products.Get("/:id/related", productH.Related)
	products.Post("/:id/like", authhandler.RequireAuth(authSvc), productH.ToggleLike)

	cart := api.Group("/cart", authhandler.RequireAuth(authSvc))
	cart.Get("/", cartH.Get)
	cart.Put("/", cartH.Put)
	cart.Delete("/", cartH.Clear)

	orders := api.Group("/orders")
	orders.Post("/", authhandler.OptionalAuth(authSvc), orderH.Create)
	orders.Post("/verify-payment", authhandler.OptionalAuth(authSvc), orderH.VerifyPayment)
	orders.Get("/my", authhandler.RequireAuth(authSvc), orderH.MyOrders)
	orders.Get("/:id", authhandler.OptionalAuth(authSvc), orderH.Get)

	offers := api.Group("/offers")
	offers.Get("/", offerH.List)
	offers.Post("/apply", offerH.Apply)
	offers.Get("/:id", offerH.Get)

	// The gateway route must be registered before the provider wildcard.
	api.Post("/webhooks/razorpay", orderH.GatewayWebhook)
	api.Post("/webhooks/:provider", webhookH.Receive)

	admin := api.Group("/admin", authhandler.RequireAuth(authSvc), authhandler.RequireAdmin())
	admin.Get("/dashboard", adminH.Dashboard)
	admin.Get("/orders", adminH.ListOrders)
	admin.Patch("/orders/:id/status", adminH.UpdateOrderStatus)
	admin.Get("/products", adminH.ListProducts)
	admin.Post("/products", adminH.SaveProduct)
	admin.Get("/offers", adminH.ListOffers)
	admin.Post("/offers", adminH.SaveOffer)
	admin.Delete("/offers/:id", adminH.DeleteOffer)
	admin.Post("/sync", adminH.TriggerSync)
	admin.Get("/settings", adminH.ListSettings)
	admin.Get("/settings/:key", adminH.GetSetting)
	admin.Put("/settings", adminH.SetSetting)
}
