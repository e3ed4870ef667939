package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcab/internal/domain"
	"studentcab/internal/middleware"
	"studentcab/internal/repository"
	"studentcab/internal/service"
)

// PaymentHandler handles card payment reconciliation.
type PaymentHandler struct {
	paymentService *service.PaymentService
	paymentRepo    repository.PaymentRepository
	rideRepo       repository.RideRepository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, paymentRepo repository.PaymentRepository, rideRepo repository.RideRepository) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		paymentRepo:    paymentRepo,
		rideRepo:       rideRepo,
	}
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID        string  `json:"id"`
	RideID    string  `json:"ride_id"`
	PayerID   string  `json:"payer_id"`
	PayeeID   string  `json:"payee_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	SettledAt string  `json:"settled_at,omitempty"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		RideID:    p.RideID,
		PayerID:   p.PayerID,
		PayeeID:   p.PayeeID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Status:    string(p.Status),
		SettledAt: formatTime(p.SettledAt),
	}
}

// IntentResponse is the HTTP response for creating a payment intent.
type IntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreateIntent handles POST /v1/rides/:id/payment/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	intent, err := h.paymentService.CreateIntent(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, IntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
	})
}

// ConfirmPayment handles POST /v1/rides/:id/payment/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	p, err := h.paymentService.ConfirmPayment(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(p))
}

// GetPayment handles GET /v1/rides/:id/payment
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	ride, err := h.rideRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	if ride.PassengerID != accountID && ride.DriverID != accountID {
		respondError(c, service.ErrNotRidePassenger)
		return
	}

	p, err := h.paymentRepo.GetByRideID(c.Request.Context(), ride.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(p))
}

// Webhook handles POST /v1/payments/webhook. Unauthenticated; trust comes
// from the signature header.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read payload"})
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
