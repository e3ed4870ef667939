package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
	"studentcab/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAccountID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidMessageID),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidPickupOutcome),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPhoneNumber),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrMissingVehicleDetails),
		errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrRoleRequired),
		errors.Is(err, service.ErrNotRidePassenger),
		errors.Is(err, service.ErrNotAssignedDriver):
		return http.StatusForbidden

	// Guard violations and lost races
	case errors.Is(err, service.ErrRideNotPending),
		errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotInProgress),
		errors.Is(err, service.ErrRideNotCancellable),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrActiveRideExists),
		errors.Is(err, service.ErrDriverBusy),
		errors.Is(err, service.ErrDriverUnavailable),
		errors.Is(err, service.ErrRoleAlreadyLinked),
		errors.Is(err, service.ErrPaymentNotPending),
		errors.Is(err, service.ErrNotCardPayment),
		errors.Is(err, service.ErrRideUnassigned),
		errors.Is(err, service.ErrConcurrentUpdate),
		errors.Is(err, service.ErrAccountExists),
		errors.Is(err, service.ErrPlateTaken),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Processor failures
	case errors.Is(err, service.ErrWebhookSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPaymentGateway),
		errors.Is(err, service.ErrIntentNotSucceeded):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string  `json:"id"`
	PassengerID    string  `json:"passenger_id"`
	DriverID       string  `json:"driver_id,omitempty"`
	PickupAddress  string  `json:"pickup_address"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropoffAddress string  `json:"dropoff_address"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	DistanceKm     float64 `json:"distance_km"`
	Fare           float64 `json:"fare"`
	Status         string  `json:"status"`
	PickupStatus   string  `json:"pickup_status"`
	PaymentMethod  string  `json:"payment_method"`
	PaymentStatus  string  `json:"payment_status,omitempty"`
	RequestedAt    string  `json:"requested_at"`
	AcceptedAt     string  `json:"accepted_at,omitempty"`
	StartedAt      string  `json:"started_at,omitempty"`
	CompletedAt    string  `json:"completed_at,omitempty"`
	CancelledAt    string  `json:"cancelled_at,omitempty"`
	CancelReason   string  `json:"cancel_reason,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:             r.ID,
		PassengerID:    r.PassengerID,
		DriverID:       r.DriverID,
		PickupAddress:  r.Pickup.Address,
		PickupLat:      r.Pickup.Lat,
		PickupLng:      r.Pickup.Lng,
		DropoffAddress: r.Dropoff.Address,
		DropoffLat:     r.Dropoff.Lat,
		DropoffLng:     r.Dropoff.Lng,
		DistanceKm:     r.DistanceKm,
		Fare:           r.Fare,
		Status:         string(r.Status),
		PickupStatus:   string(r.PickupStatus),
		PaymentMethod:  string(r.PaymentMethod),
		PaymentStatus:  string(r.PaymentStatus),
		RequestedAt:    formatTime(r.RequestedAt),
		AcceptedAt:     formatTime(r.AcceptedAt),
		StartedAt:      formatTime(r.StartedAt),
		CompletedAt:    formatTime(r.CompletedAt),
		CancelledAt:    formatTime(r.CancelledAt),
		CancelReason:   r.CancelReason,
	}
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, toRideResponse(r))
	}
	return out
}
