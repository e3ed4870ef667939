package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"studentcab/internal/app"
	"studentcab/internal/config"
	"studentcab/internal/handler"
	"studentcab/internal/payment"
	"studentcab/internal/realtime"
	internalRedis "studentcab/internal/redis"
	"studentcab/internal/repository/postgres"
	"studentcab/internal/service"
	"studentcab/internal/token"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	if err := app.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to apply schema")
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	// Realtime event fan-out.
	hub := realtime.NewHub(log)
	go hub.Run()

	// Wire dependencies.
	server := wireServer(db, redisClient, hub, nrApp, cfg, log)

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, hub *realtime.Hub, nrApp *newrelic.Application, cfg *config.Config, log *logrus.Logger) *http.Server {
	// Redis stores.
	geoStore := internalRedis.NewGeoStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	idempotencyStore := internalRedis.NewIdempotencyStore(redisClient)

	// Repositories.
	accountRepo := postgres.NewAccountRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	passengerRepo := postgres.NewPassengerRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Services.
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	pricing := service.DefaultPricing()
	notificationService := service.NewNotificationService(hub)
	authService := service.NewAuthService(accountRepo, driverRepo, passengerRepo, tokens)
	rideService := service.NewRideService(rideRepo, geoStore, pricing, notificationService)
	matchingService := service.NewMatchingService(geoStore, rideRepo, driverRepo)
	lifecycleService := service.NewLifecycleService(db, rideRepo, driverRepo, paymentRepo, geoStore, lockStore, notificationService)
	paymentService := service.NewPaymentService(db, paymentRepo, rideRepo, driverRepo, gateway, cfg.Stripe.Currency, notificationService, log)
	ratingService := service.NewRatingService(ratingRepo, rideRepo, accountRepo)
	driverService := service.NewDriverService(driverRepo, rideRepo, geoStore, notificationService)
	receiptService := service.NewReceiptService(rideRepo, paymentRepo, pricing)
	messageService := service.NewMessageService(messageRepo, rideRepo, notificationService)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, accountRepo)
	passengerHandler := handler.NewPassengerHandler(rideService, ratingService, receiptService, passengerRepo)
	driverHandler := handler.NewDriverHandler(driverService, matchingService, lifecycleService, rideService, ratingService)
	paymentHandler := handler.NewPaymentHandler(paymentService, paymentRepo, rideRepo)
	messageHandler := handler.NewMessageHandler(messageService)
	wsHandler := handler.NewWSHandler(hub)

	// Router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:      authHandler,
		PassengerHandler: passengerHandler,
		DriverHandler:    driverHandler,
		PaymentHandler:   paymentHandler,
		MessageHandler:   messageHandler,
		WSHandler:        wsHandler,
		Tokens:           tokens,
		IdempotencyStore: idempotencyStore,
		NewRelicApp:      nrApp,
	})

	// HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
