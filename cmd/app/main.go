package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lojinha/storefront-backend/internal/cart"
	"github.com/lojinha/storefront-backend/internal/catalog"
	"github.com/lojinha/storefront-backend/internal/checkout"
	"github.com/lojinha/storefront-backend/internal/config"
	"github.com/lojinha/storefront-backend/internal/logging"
	"github.com/lojinha/storefront-backend/internal/order"
	"github.com/lojinha/storefront-backend/internal/payment"
	"github.com/lojinha/storefront-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := storage.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal("mongo connection failed", zap.Error(err))
	}
	defer db.Client().Disconnect(context.Background())

	redisClient, err := storage.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	catalogService := catalog.NewService(catalog.NewMongoRepository(db), catalog.NewRedisCache(redisClient), log)
	catalogHandler := catalog.NewHandler(catalogService)

	cartService := cart.NewService(cart.NewRedisPersister(redisClient), log)
	cartHandler := cart.NewHandler(cartService, catalogService)

	orderService := order.NewService(order.NewMongoRepository(db), log)
	orderHandler := order.NewHandler(orderService, cfg.Webhook.Secret, log)

	billingClient := payment.NewAbacatePayClient(cfg.AbacatePay.BaseURL, cfg.AbacatePay.APIKey, cfg.AbacatePay.Timeout)
	orchestrator := payment.NewOrchestrator(billingClient, cartService, orderService, cfg.App.Origin, log)
	stripeClient := payment.NewStripeClient(cfg.Stripe.BaseURL, cfg.Stripe.SecretKey, cfg.Stripe.Timeout)
	paymentHandler := payment.NewHandler(stripeClient, log)

	checkoutHandler := checkout.NewHandler(cartService, checkout.NewSessionStore(), orchestrator, cfg.Checkout.MergeSteps, log)

	app := fiber.New()
	setupCORS(app)
	app.Use(logging.RequestLogger(log))

	// public routes: catalog reads and the provider webhook
	catalogHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.Security.JWTSecret),
	}))

	catalogHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	log.Info("server starting", zap.String("addr", cfg.App.Addr))
	if err := app.Listen(cfg.App.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}
