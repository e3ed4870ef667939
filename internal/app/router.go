package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"studentcab/internal/domain"
	"studentcab/internal/handler"
	"studentcab/internal/middleware"
	"studentcab/internal/redis"
	"studentcab/internal/token"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler      *handler.AuthHandler
	PassengerHandler *handler.PassengerHandler
	DriverHandler    *handler.DriverHandler
	PaymentHandler   *handler.PaymentHandler
	MessageHandler   *handler.MessageHandler
	WSHandler        *handler.WSHandler
	Tokens           *token.Manager
	IdempotencyStore *redis.IdempotencyStore
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.IdempotencyStore != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.IdempotencyStore))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(deps.Tokens)
	asPassenger := middleware.RequireRole(string(domain.RolePassenger))
	asDriver := middleware.RequireRole(string(domain.RoleDriver))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Session routes.
		sessions := v1.Group("/auth")
		{
			sessions.POST("/register", deps.AuthHandler.Register)
			sessions.POST("/login", deps.AuthHandler.Login)
			sessions.POST("/password", auth, deps.AuthHandler.ChangePassword)
			sessions.POST("/roles", auth, deps.AuthHandler.LinkRole)
			sessions.GET("/me", auth, deps.AuthHandler.Me)
			sessions.PUT("/me", auth, deps.AuthHandler.UpdateProfile)
		}

		// Ride routes. Search and booking are passenger-side; lifecycle
		// transitions are driver-side.
		rides := v1.Group("/rides", auth)
		{
			rides.POST("/search", asPassenger, deps.PassengerHandler.SearchRide)
			rides.POST("", asPassenger, deps.PassengerHandler.BookRide)
			rides.GET("/:id", deps.PassengerHandler.GetRide)
			rides.POST("/:id/cancel", asPassenger, deps.PassengerHandler.CancelRide)
			rides.GET("/:id/receipt", deps.PassengerHandler.Receipt)
			rides.POST("/:id/rate-driver", asPassenger, deps.PassengerHandler.RateDriver)

			rides.POST("/:id/accept", asDriver, deps.DriverHandler.AcceptRide)
			rides.POST("/:id/reject", asDriver, deps.DriverHandler.RejectRide)
			rides.POST("/:id/pickup", asDriver, deps.DriverHandler.UpdatePickup)
			rides.POST("/:id/complete", asDriver, deps.DriverHandler.CompleteRide)
			rides.POST("/:id/rate-passenger", asDriver, deps.DriverHandler.RatePassenger)

			rides.POST("/:id/messages", deps.MessageHandler.SendMessage)
			rides.GET("/:id/messages", deps.MessageHandler.ListMessages)

			rides.GET("/:id/payment", deps.PaymentHandler.GetPayment)
			rides.POST("/:id/payment/intent", asPassenger, deps.PaymentHandler.CreateIntent)
			rides.POST("/:id/payment/confirm", asPassenger, deps.PaymentHandler.ConfirmPayment)
		}

		// Passenger routes.
		passengers := v1.Group("/passengers", auth, asPassenger)
		{
			passengers.GET("/rides", deps.PassengerHandler.History)
			passengers.PUT("/profile", deps.PassengerHandler.UpdateProfile)
		}

		// Driver routes.
		drivers := v1.Group("/drivers", auth, asDriver)
		{
			drivers.PUT("/availability", deps.DriverHandler.SetAvailability)
			drivers.PUT("/location", deps.DriverHandler.UpdateLocation)
			drivers.GET("/rides/available", deps.DriverHandler.AvailableRides)
			drivers.GET("/rides", deps.DriverHandler.History)
			drivers.GET("/wallet", deps.DriverHandler.Wallet)
		}

		// Read receipts live off the ride path; the receiver guard is in the
		// conditional update.
		v1.PUT("/messages/:id/read", auth, deps.MessageHandler.MarkRead)

		// Processor webhook; authenticated by signature, not bearer token.
		v1.POST("/payments/webhook", deps.PaymentHandler.Webhook)

		// Realtime event stream.
		v1.GET("/ws", auth, deps.WSHandler.Connect)
	}

	return router
}
