package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/config"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/database"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/handler"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/notification"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/payment"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/promo"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/repository"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/router"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting chelsy API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	restaurantRepo := repository.NewRestaurantRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	dishRepo := repository.NewDishRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	paymentRepo := repository.NewPaymentRepository(pool, logger)
	promoRepo := repository.NewPromoRepository(pool, logger)

	// Initialize payment provider clients
	cardClient := payment.NewCardClient(cfg.Payments.CardBaseURL, cfg.Payments.CardSecretKey, logger)
	momoClient := payment.NewMobileMoneyClient(cfg.Payments.MobileMoneyBaseURL, cfg.Payments.MobileMoneyAPIKey, logger)
	gateway := payment.NewGateway(cardClient, momoClient, cfg.Payments.Currency, logger)

	// Initialize notifier with no-op fallback
	var notifier notification.Notifier
	if cfg.RabbitMQ.Enabled {
		publisher, err := notification.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to connect to RabbitMQ, notifications disabled")
			notifier = notification.Nop{}
		} else {
			defer publisher.Close()
			notifier = publisher
		}
	} else {
		notifier = notification.Nop{}
		logger.Info().Msg("notifications disabled (RabbitMQ not configured)")
	}

	// Initialize webhook deduplication with no-op fallback
	var deduper service.Deduper
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		deduper = service.NewRedisDeduper(redisClient, 24*time.Hour)
	} else {
		deduper = service.NopDeduper{}
		logger.Info().Msg("webhook deduplication disabled (redis not configured)")
	}

	// Initialize services
	evaluator := promo.NewEvaluator(logger)
	catalogService := service.NewCatalogService(dishRepo, logger)
	cartService := service.NewCartService(cartRepo, dishRepo, logger)
	orderService := service.NewOrderService(
		orderRepo, paymentRepo, cartRepo, dishRepo, promoRepo,
		restaurantRepo, addressRepo, evaluator, gateway, notifier, logger,
	)
	paymentService := service.NewPaymentService(
		paymentRepo, orderRepo, cardClient, momoClient, deduper, notifier, logger,
	)

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Payments.CardWebhookSecret, logger)

	// Initialize router
	mux := router.New(
		menuHandler, cartHandler, orderHandler, paymentHandler,
		cfg.Auth.APIKey, cfg.Auth.StaffKey, logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
