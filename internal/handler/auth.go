package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcab/internal/domain"
	"studentcab/internal/middleware"
	"studentcab/internal/repository"
	"studentcab/internal/service"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService *service.AuthService
	accountRepo repository.AccountRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, accountRepo repository.AccountRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accountRepo: accountRepo,
	}
}

// RegisterRequest is the HTTP request body for registration.
type RegisterRequest struct {
	Role         string `json:"role"` // passenger or driver
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`
	PlateNumber  string `json:"plate_number,omitempty"`
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// ChangePasswordRequest is the HTTP request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AccountResponse is the HTTP representation of an account.
type AccountResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	IsPassenger bool    `json:"is_passenger"`
	IsDriver    bool    `json:"is_driver"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

// AuthResponse is the HTTP response for register and login.
type AuthResponse struct {
	Account AccountResponse `json:"account"`
	Token   string          `json:"token"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Phone:       a.Phone,
		Email:       a.Email,
		IsPassenger: a.IsPassenger,
		IsDriver:    a.IsDriver,
		Rating:      a.Rating,
		RatingCount: a.RatingCount,
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterRequest{
		Role:         domain.Role(req.Role),
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Password:     req.Password,
		VehicleModel: req.VehicleModel,
		VehicleColor: req.VehicleColor,
		PlateNumber:  req.PlateNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AuthResponse{
		Account: toAccountResponse(result.Account),
		Token:   result.Token,
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AuthResponse{
		Account: toAccountResponse(result.Account),
		Token:   result.Token,
	})
}

// ChangePassword handles POST /v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	if err := h.authService.ChangePassword(c.Request.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LinkRole handles POST /v1/auth/roles
func (h *AuthHandler) LinkRole(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	account, err := h.authService.LinkRole(c.Request.Context(), accountID, service.RegisterRequest{
		Role:         domain.Role(req.Role),
		VehicleModel: req.VehicleModel,
		VehicleColor: req.VehicleColor,
		PlateNumber:  req.PlateNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	account, err := h.accountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}

// UpdateProfileRequest is the HTTP request body for a profile update.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UpdateProfile handles PUT /v1/auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	account, err := h.accountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Phone != "" {
		account.Phone = req.Phone
	}
	if req.Email != "" {
		account.Email = req.Email
	}

	if err := h.accountRepo.UpdateProfile(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}
