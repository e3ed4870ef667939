package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
	"studentcab/internal/token"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?6?0?[0-9]{9,11}$`)
)

const minPasswordLength = 8

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Role     domain.Role
	Name     string
	Phone    string
	Email    string
	Password string

	// Driver-only vehicle details.
	VehicleModel string
	VehicleColor string
	PlateNumber  string
}

// AuthResult bundles the account with its session token.
type AuthResult struct {
	Account *domain.Account
	Token   string
}

// AuthService handles registration, login, password changes and linking a
// second role to an existing account.
type AuthService struct {
	accountRepo   repository.AccountRepository
	driverRepo    repository.DriverRepository
	passengerRepo repository.PassengerRepository
	tokens        *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo repository.AccountRepository, driverRepo repository.DriverRepository, passengerRepo repository.PassengerRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		accountRepo:   accountRepo,
		driverRepo:    driverRepo,
		passengerRepo: passengerRepo,
		tokens:        tokens,
	}
}

// Register creates an account with one initial role and returns a session
// token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if req.Name == "" || req.Phone == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if req.Role != domain.RolePassenger && req.Role != domain.RoleDriver {
		return nil, ErrRoleRequired
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, ErrInvalidPhoneNumber
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if req.Role == domain.RoleDriver {
		if req.VehicleModel == "" || req.VehicleColor == "" || req.PlateNumber == "" {
			return nil, ErrMissingVehicleDetails
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		CredentialHash: string(hash),
		IsPassenger:    req.Role == domain.RolePassenger,
		IsDriver:       req.Role == domain.RoleDriver,
		CreatedAt:      time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	if err := s.createRoleProfile(ctx, account.ID, req); err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue(account.ID, string(req.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: tok}, nil
}

// Login verifies credentials and issues a token scoped to the requested
// role. With no role given, the account's passenger role wins when present.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if role == "" {
		if account.IsPassenger {
			role = domain.RolePassenger
		} else {
			role = domain.RoleDriver
		}
	}
	if !account.HasRole(role) {
		return nil, ErrRoleRequired
	}

	tok, err := s.tokens.Issue(account.ID, string(role))
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: tok}, nil
}

// ChangePassword rotates the credential after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, updated string) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}
	if len(updated) < minPasswordLength {
		return ErrWeakPassword
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.accountRepo.UpdateCredential(ctx, accountID, string(hash))
}

// LinkRole adds the other role to an existing account, creating its
// role-specific profile.
func (s *AuthService) LinkRole(ctx context.Context, accountID string, req RegisterRequest) (*domain.Account, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if req.Role != domain.RolePassenger && req.Role != domain.RoleDriver {
		return nil, ErrRoleRequired
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.HasRole(req.Role) {
		return nil, ErrRoleAlreadyLinked
	}
	if req.Role == domain.RoleDriver {
		if req.VehicleModel == "" || req.VehicleColor == "" || req.PlateNumber == "" {
			return nil, ErrMissingVehicleDetails
		}
	}

	if err := s.createRoleProfile(ctx, accountID, req); err != nil {
		return nil, err
	}
	if err := s.accountRepo.AddRole(ctx, accountID, req.Role); err != nil {
		return nil, err
	}

	return s.accountRepo.GetByID(ctx, accountID)
}

func (s *AuthService) createRoleProfile(ctx context.Context, accountID string, req RegisterRequest) error {
	if req.Role == domain.RoleDriver {
		err := s.driverRepo.Create(ctx, &domain.DriverProfile{
			AccountID:    accountID,
			VehicleModel: req.VehicleModel,
			VehicleColor: req.VehicleColor,
			PlateNumber:  req.PlateNumber,
		})
		if errors.Is(err, repository.ErrConflict) {
			return ErrPlateTaken
		}
		return err
	}
	return s.passengerRepo.Create(ctx, &domain.PassengerProfile{AccountID: accountID})
}
