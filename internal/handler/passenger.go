package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcab/internal/domain"
	"studentcab/internal/middleware"
	"studentcab/internal/repository"
	"studentcab/internal/service"
)

// PassengerHandler handles the passenger side of the ride flow.
type PassengerHandler struct {
	rideService    *service.RideService
	ratingService  *service.RatingService
	receiptService *service.ReceiptService
	passengerRepo  repository.PassengerRepository
}

// NewPassengerHandler creates a new PassengerHandler.
func NewPassengerHandler(
	rideService *service.RideService,
	ratingService *service.RatingService,
	receiptService *service.ReceiptService,
	passengerRepo repository.PassengerRepository,
) *PassengerHandler {
	return &PassengerHandler{
		rideService:    rideService,
		ratingService:  ratingService,
		receiptService: receiptService,
		passengerRepo:  passengerRepo,
	}
}

// SearchRideRequest is the HTTP request body for a fare search.
type SearchRideRequest struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
}

// SearchRideResponse is the HTTP response for a fare search.
type SearchRideResponse struct {
	DistanceKm        float64 `json:"distance_km"`
	Fare              float64 `json:"fare"`
	EstimatedDuration int     `json:"estimated_duration_hours"`
	NearbyDrivers     int     `json:"nearby_drivers"`
}

// SearchRide handles POST /v1/rides/search
func (h *PassengerHandler) SearchRide(c *gin.Context) {
	var req SearchRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.rideService.SearchRide(c.Request.Context(), service.SearchRequest{
		PickupLat:  req.PickupLat,
		PickupLng:  req.PickupLng,
		DropoffLat: req.DropoffLat,
		DropoffLng: req.DropoffLng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SearchRideResponse{
		DistanceKm:        result.DistanceKm,
		Fare:              result.Fare,
		EstimatedDuration: result.EstimatedDuration,
		NearbyDrivers:     result.NearbyDrivers,
	})
}

// BookRideRequest is the HTTP request body for booking a ride.
type BookRideRequest struct {
	PickupAddress  string  `json:"pickup_address"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropoffAddress string  `json:"dropoff_address"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	PaymentMethod  string  `json:"payment_method"` // cash or card
}

// BookRide handles POST /v1/rides
func (h *PassengerHandler) BookRide(c *gin.Context) {
	var req BookRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.BookRide(c.Request.Context(), service.BookRideRequest{
		PassengerID:    c.GetString(middleware.ContextAccountID),
		PickupAddress:  req.PickupAddress,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		DropoffAddress: req.DropoffAddress,
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *PassengerHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CancelRide(c.Request.Context(), service.CancelRideRequest{
		RideID:      c.Param("id"),
		PassengerID: c.GetString(middleware.ContextAccountID),
		Reason:      req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *PassengerHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// History handles GET /v1/passengers/rides
func (h *PassengerHandler) History(c *gin.Context) {
	rides, err := h.rideService.PassengerHistory(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// Receipt handles GET /v1/rides/:id/receipt
func (h *PassengerHandler) Receipt(c *gin.Context) {
	receipt, err := h.receiptService.Receipt(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, receipt)
}

// RateDriverRequest is the HTTP request body for rating a driver.
type RateDriverRequest struct {
	DrivingSkills  float64 `json:"driving_skills"`
	Friendliness   float64 `json:"friendliness"`
	CarCleanliness float64 `json:"car_cleanliness"`
	Punctuality    float64 `json:"punctuality"`
	Comment        string  `json:"comment,omitempty"`
}

// RatingResponse is the HTTP representation of a recorded rating.
type RatingResponse struct {
	ID           string    `json:"id"`
	RideID       string    `json:"ride_id"`
	RateeID      string    `json:"ratee_id"`
	Scores       []float64 `json:"scores"`
	OverallScore float64   `json:"overall_score"`
	Comment      string    `json:"comment,omitempty"`
}

// RateDriver handles POST /v1/rides/:id/rate-driver
func (h *PassengerHandler) RateDriver(c *gin.Context) {
	var req RateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rating, err := h.ratingService.RateDriver(c.Request.Context(), service.RateDriverRequest{
		RideID:         c.Param("id"),
		PassengerID:    c.GetString(middleware.ContextAccountID),
		DrivingSkills:  req.DrivingSkills,
		Friendliness:   req.Friendliness,
		CarCleanliness: req.CarCleanliness,
		Punctuality:    req.Punctuality,
		Comment:        req.Comment,
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

// PassengerProfileRequest is the HTTP request body for updating passenger
// preferences.
type PassengerProfileRequest struct {
	StoredCard        string   `json:"stored_card,omitempty"`
	EmergencyContacts []string `json:"emergency_contacts,omitempty"`
}

// UpdateProfile handles PUT /v1/passengers/profile
func (h *PassengerHandler) UpdateProfile(c *gin.Context) {
	var req PassengerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	profile, err := h.passengerRepo.GetByAccountID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.StoredCard != "" {
		profile.StoredCard = req.StoredCard
	}
	if req.EmergencyContacts != nil {
		profile.EmergencyContacts = req.EmergencyContacts
	}

	if err := h.passengerRepo.Update(c.Request.Context(), profile); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, profile)
}
