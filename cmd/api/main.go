package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/outfithaven/storefront-api/internal/config"
	"github.com/outfithaven/storefront-api/internal/handler"
	"github.com/outfithaven/storefront-api/internal/mailer"
	"github.com/outfithaven/storefront-api/internal/middleware"
	"github.com/outfithaven/storefront-api/internal/repository"
	"github.com/outfithaven/storefront-api/internal/service"
	"github.com/outfithaven/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(ctx, dbPool); err != nil {
		log.Error("migrate schema", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Mail transport. Verification failure is logged but does not block
	// startup; orders must keep flowing when SMTP is down.
	transport, err := mailer.NewSMTPTransport(cfg.SMTP)
	if err != nil {
		log.Error("create smtp transport", "error", err)
		os.Exit(1)
	}
	defer transport.Close()

	dispatcher := mailer.NewDispatcher(transport, cfg.Notify.Retries, cfg.Notify.RetryDelay, log)
	if err := dispatcher.VerifyTransport(ctx); err != nil {
		log.Error("verify mail transport", "error", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	sliderRepo := repository.NewSliderRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, redisClient, log)
	sliderSvc := service.NewSliderService(sliderRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, userRepo, productRepo, amqpCh, log)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	productH := handler.NewProductHandler(productSvc)
	sliderH := handler.NewSliderHandler(sliderSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	emailH := handler.NewEmailHandler(dispatcher, cfg.Notify.AdminEmail)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	fulfillmentWorker := worker.NewFulfillmentWorker(amqpCh, orderRepo, redisClient, log)

	// Router
	router := gin.New()
	router.Use(middleware.RequestLogger(log), gin.Recovery())
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authMW := middleware.AuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/me", authMW, authH.Me)
		auth.PUT("/me", authMW, authH.UpdateProfile)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.Get)

		adminProducts := products.Group("", authMW, middleware.AdminOnly())
		adminProducts.POST("", productH.Create)
		adminProducts.PUT("/:id", productH.Update)
		adminProducts.DELETE("/:id", productH.Delete)

		categories := v1.Group("/categories")
		categories.GET("", categoryH.List)
		categories.GET("/:slug", categoryH.GetBySlug)

		adminCategories := v1.Group("/admin/categories", authMW, middleware.AdminOnly())
		adminCategories.POST("", categoryH.Create)
		adminCategories.PUT("/:id", categoryH.Update)
		adminCategories.DELETE("/:id", categoryH.Delete)

		sliders := v1.Group("/sliders")
		sliders.GET("", sliderH.List)

		adminSliders := sliders.Group("", authMW, middleware.AdminOnly())
		adminSliders.POST("", sliderH.Create)
		adminSliders.PUT("/:id", sliderH.Update)
		adminSliders.DELETE("/:id", sliderH.Delete)

		cart := v1.Group("/cart", authMW)
		cart.GET("", cartH.Get)
		cart.POST("/lines", cartH.Add)
		cart.PUT("/lines", cartH.UpdateLine)
		cart.DELETE("/lines", cartH.RemoveLine)
		cart.DELETE("", cartH.Clear)

		orders := v1.Group("/orders", authMW)
		orders.POST("", orderH.Create)
		orders.GET("", orderH.List)
		orders.GET("/:id", orderH.Get)
		orders.PUT("/:id/status", middleware.AdminOnly(), orderH.UpdateStatus)

		v1.POST("/send-order-email", authMW, emailH.SendOrderConfirmation)
	}

	if err := fulfillmentWorker.Start(ctx); err != nil {
		log.Error("start fulfillment worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	fulfillmentWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
