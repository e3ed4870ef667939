package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcab/internal/domain"
	"studentcab/internal/middleware"
	"studentcab/internal/service"
)

// DriverHandler handles the driver side of the ride flow.
type DriverHandler struct {
	driverService    *service.DriverService
	matchingService  *service.MatchingService
	lifecycleService *service.LifecycleService
	rideService      *service.RideService
	ratingService    *service.RatingService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(
	driverService *service.DriverService,
	matchingService *service.MatchingService,
	lifecycleService *service.LifecycleService,
	rideService *service.RideService,
	ratingService *service.RatingService,
) *DriverHandler {
	return &DriverHandler{
		driverService:    driverService,
		matchingService:  matchingService,
		lifecycleService: lifecycleService,
		rideService:      rideService,
		ratingService:    ratingService,
	}
}

// AvailabilityRequest is the HTTP request body for toggling availability.
type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability handles PUT /v1/drivers/availability
func (h *DriverHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, err := h.driverService.SetAvailability(c.Request.Context(), c.GetString(middleware.ContextAccountID), *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"account_id": profile.AccountID,
		"available":  profile.Available,
	})
}

// LocationRequest is the HTTP request body for a location update.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles PUT /v1/drivers/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), c.GetString(middleware.ContextAccountID), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AvailableRides handles GET /v1/drivers/rides/available
func (h *DriverHandler) AvailableRides(c *gin.Context) {
	rides, err := h.matchingService.AvailableRides(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *DriverHandler) AcceptRide(c *gin.Context) {
	ride, err := h.lifecycleService.AcceptRide(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// RejectRide handles POST /v1/rides/:id/reject
func (h *DriverHandler) RejectRide(c *gin.Context) {
	ride, err := h.lifecycleService.RejectRide(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// PickupRequest is the HTTP request body for recording a pickup outcome.
type PickupRequest struct {
	Outcome string `json:"outcome"` // successful or failed
}

// UpdatePickup handles POST /v1/rides/:id/pickup
func (h *DriverHandler) UpdatePickup(c *gin.Context) {
	var req PickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycleService.UpdatePickup(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID), domain.PickupStatus(req.Outcome))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRideResponse is the HTTP response for completing a ride.
type CompleteRideResponse struct {
	Ride    RideResponse    `json:"ride"`
	Payment PaymentResponse `json:"payment"`
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *DriverHandler) CompleteRide(c *gin.Context) {
	result, err := h.lifecycleService.CompleteRide(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CompleteRideResponse{
		Ride:    toRideResponse(result.Ride),
		Payment: toPaymentResponse(result.Payment),
	})
}

// Wallet handles GET /v1/drivers/wallet
func (h *DriverHandler) Wallet(c *gin.Context) {
	profile, err := h.driverService.Wallet(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"account_id":      profile.AccountID,
		"wallet_balance":  profile.WalletBalance,
		"total_earnings":  profile.TotalEarnings,
		"completed_rides": profile.CompletedRides,
	})
}

// History handles GET /v1/drivers/rides
func (h *DriverHandler) History(c *gin.Context) {
	rides, err := h.rideService.DriverHistory(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// RatePassengerRequest is the HTTP request body for rating a passenger.
type RatePassengerRequest struct {
	Punctuality float64 `json:"punctuality"`
	Cleanliness float64 `json:"cleanliness"`
	Manners     float64 `json:"manners"`
	Comment     string  `json:"comment,omitempty"`
}

// RatePassenger handles POST /v1/rides/:id/rate-passenger
func (h *DriverHandler) RatePassenger(c *gin.Context) {
	var req RatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rating, err := h.ratingService.RatePassenger(c.Request.Context(), service.RatePassengerRequest{
		RideID:      c.Param("id"),
		DriverID:    c.GetString(middleware.ContextAccountID),
		Punctuality: req.Punctuality,
		Cleanliness: req.Cleanliness,
		Manners:     req.Manners,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RatingResponse{
		ID:           rating.ID,
		RideID:       rating.RideID,
		RateeID:      rating.RateeID,
		Scores:       rating.Scores,
		OverallScore: rating.OverallScore,
		Comment:      rating.Comment,
	})
}
