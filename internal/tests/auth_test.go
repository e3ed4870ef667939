package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"studentcab/internal/domain"
	"studentcab/internal/service"
	"studentcab/internal/token"
)

func newAuthFixture() (*MockAccountRepository, *MockDriverRepository, *MockPassengerRepository, *service.AuthService) {
	accountRepo := NewMockAccountRepository()
	driverRepo := NewMockDriverRepository()
	passengerRepo := NewMockPassengerRepository()
	tokens := token.NewManager("test-secret", time.Hour)
	svc := service.NewAuthService(accountRepo, driverRepo, passengerRepo, tokens)
	return accountRepo, driverRepo, passengerRepo, svc
}

func validRegistration(role domain.Role) service.RegisterRequest {
	req := service.RegisterRequest{
		Role:     role,
		Name:     "Aina Binti Rahman",
		Phone:    "0123456789",
		Email:    "aina@example.com",
		Password: "s3cret-enough",
	}
	if role == domain.RoleDriver {
		req.VehicleModel = "Perodua Myvi"
		req.VehicleColor = "Silver"
		req.PlateNumber = "WXY 1234"
	}
	return req
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestRegister_PassengerGetsAccountAndToken(t *testing.T) {
	t.Parallel()

	_, _, passengerRepo, svc := newAuthFixture()

	result, err := svc.Register(context.Background(), validRegistration(domain.RolePassenger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("no session token issued")
	}
	if !result.Account.IsPassenger || result.Account.IsDriver {
		t.Errorf("roles = passenger:%v driver:%v, want passenger only", result.Account.IsPassenger, result.Account.IsDriver)
	}
	if !passengerRepo.HasProfile(result.Account.ID) {
		t.Error("passenger profile not created")
	}
}

func TestRegister_DriverGetsVehicleProfile(t *testing.T) {
	t.Parallel()

	_, driverRepo, _, svc := newAuthFixture()

	result, err := svc.Register(context.Background(), validRegistration(domain.RoleDriver))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := driverRepo.GetProfile(result.Account.ID)
	if profile == nil {
		t.Fatal("driver profile not created")
	}
	if profile.PlateNumber != "WXY 1234" {
		t.Errorf("plate = %s, want WXY 1234", profile.PlateNumber)
	}
	if profile.Available {
		t.Error("new driver should start unavailable")
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*service.RegisterRequest)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(r *service.RegisterRequest) { r.Name = "" },
			wantErr: service.ErrMissingFields,
		},
		{
			name:    "unknown role",
			mutate:  func(r *service.RegisterRequest) { r.Role = "admin" },
			wantErr: service.ErrRoleRequired,
		},
		{
			name:    "malformed email",
			mutate:  func(r *service.RegisterRequest) { r.Email = "not-an-email" },
			wantErr: service.ErrInvalidEmail,
		},
		{
			name:    "malformed phone",
			mutate:  func(r *service.RegisterRequest) { r.Phone = "12ab" },
			wantErr: service.ErrInvalidPhoneNumber,
		},
		{
			name:    "short password",
			mutate:  func(r *service.RegisterRequest) { r.Password = "short" },
			wantErr: service.ErrWeakPassword,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, _, svc := newAuthFixture()
			req := validRegistration(domain.RolePassenger)
			tc.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegister_DriverNeedsVehicleDetails(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RoleDriver)
	req.PlateNumber = ""

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, service.ErrMissingVehicleDetails) {
		t.Errorf("err = %v, want ErrMissingVehicleDetails", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), validRegistration(domain.RolePassenger)); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	again := validRegistration(domain.RolePassenger)
	again.Phone = "0198765432"
	_, err := svc.Register(context.Background(), again)
	if !errors.Is(err, service.ErrAccountExists) {
		t.Errorf("err = %v, want ErrAccountExists", err)
	}
}

func TestRegister_DuplicatePlate(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), validRegistration(domain.RoleDriver)); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	again := validRegistration(domain.RoleDriver)
	again.Email = "second@example.com"
	again.Phone = "0198765432"
	_, err := svc.Register(context.Background(), again)
	if !errors.Is(err, service.ErrPlateTaken) {
		t.Errorf("err = %v, want ErrPlateTaken", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_RoundTrip(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RolePassenger)
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(context.Background(), req.Email, req.Password, domain.RolePassenger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("no session token issued")
	}
	if result.Account.Email != req.Email {
		t.Errorf("email = %s, want %s", result.Account.Email, req.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RolePassenger)
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), req.Email, "wrong-password", domain.RolePassenger)
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever-pass", "")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_RoleNotHeld(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RolePassenger)
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), req.Email, req.Password, domain.RoleDriver)
	if !errors.Is(err, service.ErrRoleRequired) {
		t.Errorf("err = %v, want ErrRoleRequired", err)
	}
}

func TestLogin_DefaultRole(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RoleDriver)
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}

	// A driver-only account logging in without a role gets its driver session.
	result, err := svc.Login(context.Background(), req.Email, req.Password, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("no session token issued")
	}
}

// ---------------------------------------------------------------------------
// Password change and role linking
// ---------------------------------------------------------------------------

func TestChangePassword_RotatesCredential(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RolePassenger)
	result, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), result.Account.ID, req.Password, "new-password-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(context.Background(), req.Email, req.Password, domain.RolePassenger); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("old password still accepted, err = %v", err)
	}
	if _, err := svc.Login(context.Background(), req.Email, "new-password-1", domain.RolePassenger); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestChangePassword_RequiresCurrentPassword(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	req := validRegistration(domain.RolePassenger)
	result, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	err = svc.ChangePassword(context.Background(), result.Account.ID, "not-the-current", "new-password-1")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLinkRole_PassengerBecomesDriver(t *testing.T) {
	t.Parallel()

	_, driverRepo, _, svc := newAuthFixture()
	result, err := svc.Register(context.Background(), validRegistration(domain.RolePassenger))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	link := service.RegisterRequest{
		Role:         domain.RoleDriver,
		VehicleModel: "Proton Saga",
		VehicleColor: "Red",
		PlateNumber:  "VBN 5678",
	}
	account, err := svc.LinkRole(context.Background(), result.Account.ID, link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.IsPassenger || !account.IsDriver {
		t.Errorf("roles = passenger:%v driver:%v, want both", account.IsPassenger, account.IsDriver)
	}
	if driverRepo.GetProfile(account.ID) == nil {
		t.Error("driver profile not created")
	}
}

func TestLinkRole_Guards(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newAuthFixture()
	result, err := svc.Register(context.Background(), validRegistration(domain.RolePassenger))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.LinkRole(context.Background(), result.Account.ID, service.RegisterRequest{Role: domain.RolePassenger})
	if !errors.Is(err, service.ErrRoleAlreadyLinked) {
		t.Errorf("already linked: err = %v, want ErrRoleAlreadyLinked", err)
	}

	_, err = svc.LinkRole(context.Background(), result.Account.ID, service.RegisterRequest{Role: domain.RoleDriver})
	if !errors.Is(err, service.ErrMissingVehicleDetails) {
		t.Errorf("no vehicle: err = %v, want ErrMissingVehicleDetails", err)
	}
}
