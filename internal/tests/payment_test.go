package tests

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"studentcab/internal/domain"
	"studentcab/internal/payment"
	"studentcab/internal/service"
)

type paymentFixture struct {
	paymentRepo *MockPaymentRepository
	rideRepo    *MockRideRepository
	driverRepo  *MockDriverRepository
	gateway     *FakeGateway
	pub         *RecordingPublisher
	svc         *service.PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		paymentRepo: NewMockPaymentRepository(),
		rideRepo:    NewMockRideRepository(),
		driverRepo:  NewMockDriverRepository(),
		gateway:     NewFakeGateway(),
		pub:         NewRecordingPublisher(),
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	f.svc = service.NewPaymentService(nil, f.paymentRepo, f.rideRepo, f.driverRepo, f.gateway, "myr", service.NewNotificationService(f.pub), log)
	return f
}

// completedCardRide seeds a completed ride with its pending card payment,
// the state CompleteRide leaves behind.
func (f *paymentFixture) completedCardRide(rideID, paymentID string) {
	f.rideRepo.AddRide(&domain.Ride{
		ID:            rideID,
		PassengerID:   "passenger-1",
		DriverID:      "driver-1",
		Status:        domain.RideStatusCompleted,
		PaymentMethod: domain.PaymentMethodCard,
		PaymentStatus: domain.PaymentStatusPending,
		Fare:          6.02,
		CompletedAt:   time.Now(),
	})
	f.paymentRepo.AddPayment(&domain.Payment{
		ID:        paymentID,
		RideID:    rideID,
		PayerID:   "passenger-1",
		PayeeID:   "driver-1",
		Amount:    6.02,
		Method:    domain.PaymentMethodCard,
		Status:    domain.PaymentStatusPending,
		CreatedAt: time.Now(),
	})
	f.driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1"})
}

func TestCreateIntent_AttachesProcessorHandle(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.completedCardRide("ride-1", "pay-1")

	intent, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ClientSecret == "" {
		t.Error("intent missing client secret")
	}

	stored := f.paymentRepo.GetPayment("pay-1")
	if stored.IntentID != intent.ID {
		t.Errorf("stored intent = %q, want %q", stored.IntentID, intent.ID)
	}

	// Repeat returns the existing intent rather than opening a second one.
	again, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
	if err != nil {
		t.Fatalf("repeat errored: %v", err)
	}
	if again.ID != intent.ID {
		t.Errorf("repeat created new intent %s", again.ID)
	}
	if f.gateway.CreateIntentCallCount != 1 {
		t.Errorf("processor called %d times, want 1", f.gateway.CreateIntentCallCount)
	}
}

func TestCreateIntent_Guards(t *testing.T) {
	t.Parallel()

	t.Run("cash ride", func(t *testing.T) {
		f := newPaymentFixture()
		f.completedCardRide("ride-1", "pay-1")
		p := f.paymentRepo.GetPayment("pay-1")
		p.Method = domain.PaymentMethodCash

		_, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
		if !errors.Is(err, service.ErrNotCardPayment) {
			t.Errorf("err = %v, want ErrNotCardPayment", err)
		}
	})

	t.Run("wrong passenger", func(t *testing.T) {
		f := newPaymentFixture()
		f.completedCardRide("ride-1", "pay-1")

		_, err := f.svc.CreateIntent(context.Background(), "ride-1", "someone-else")
		if !errors.Is(err, service.ErrNotRidePassenger) {
			t.Errorf("err = %v, want ErrNotRidePassenger", err)
		}
	})

	t.Run("already settled", func(t *testing.T) {
		f := newPaymentFixture()
		f.completedCardRide("ride-1", "pay-1")
		f.paymentRepo.GetPayment("pay-1").Status = domain.PaymentStatusCompleted

		_, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
		if !errors.Is(err, service.ErrPaymentNotPending) {
			t.Errorf("err = %v, want ErrPaymentNotPending", err)
		}
	})

	t.Run("processor down", func(t *testing.T) {
		f := newPaymentFixture()
		f.completedCardRide("ride-1", "pay-1")
		f.gateway.CreateIntentError = errors.New("processor unreachable")

		_, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
		if !errors.Is(err, service.ErrPaymentGateway) {
			t.Errorf("err = %v, want ErrPaymentGateway", err)
		}
		// Local state untouched.
		if f.paymentRepo.GetPayment("pay-1").Status != domain.PaymentStatusPending {
			t.Error("payment left pending state on gateway failure")
		}
	})
}

func TestConfirmPayment_SettlesAndCreditsDriverOnce(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.completedCardRide("ride-1", "pay-1")

	intent, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
	if err != nil {
		t.Fatalf("intent failed: %v", err)
	}
	f.gateway.MarkSucceeded(intent.ID)

	p, err := f.svc.ConfirmPayment(context.Background(), "ride-1", "passenger-1")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if p.Status != domain.PaymentStatusCompleted {
		t.Errorf("payment status = %s, want completed", p.Status)
	}
	if f.rideRepo.GetRide("ride-1").PaymentStatus != domain.PaymentStatusCompleted {
		t.Error("ride payment status not updated")
	}

	profile := f.driverRepo.GetProfile("driver-1")
	if profile.WalletBalance != 6.02 {
		t.Errorf("wallet = %v, want 6.02", profile.WalletBalance)
	}
	if profile.CompletedRides != 1 {
		t.Errorf("completed rides = %d, want 1", profile.CompletedRides)
	}

	// Confirming again changes nothing.
	if _, err := f.svc.ConfirmPayment(context.Background(), "ride-1", "passenger-1"); err != nil {
		t.Fatalf("repeat confirm errored: %v", err)
	}
	profile = f.driverRepo.GetProfile("driver-1")
	if profile.WalletBalance != 6.02 {
		t.Errorf("wallet after replay = %v, want 6.02", profile.WalletBalance)
	}
	if f.driverRepo.CreditEarningsCallCount != 1 {
		t.Errorf("wallet credited %d times, want 1", f.driverRepo.CreditEarningsCallCount)
	}
}

func TestConfirmPayment_RequiresProcessorSuccess(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.completedCardRide("ride-1", "pay-1")

	if _, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1"); err != nil {
		t.Fatalf("intent failed: %v", err)
	}

	// Intent never succeeded at the processor.
	_, err := f.svc.ConfirmPayment(context.Background(), "ride-1", "passenger-1")
	if !errors.Is(err, service.ErrIntentNotSucceeded) {
		t.Errorf("err = %v, want ErrIntentNotSucceeded", err)
	}
	if f.paymentRepo.GetPayment("pay-1").Status != domain.PaymentStatusPending {
		t.Error("payment settled without processor success")
	}
}

func TestWebhook_SucceededEventSettlesOnce(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.completedCardRide("ride-1", "pay-1")

	intent, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
	if err != nil {
		t.Fatalf("intent failed: %v", err)
	}
	f.gateway.MarkSucceeded(intent.ID)
	f.gateway.Event = &payment.Event{Type: payment.EventIntentSucceeded, IntentID: intent.ID}

	// The processor retries webhooks; every delivery after the first must
	// be a no-op.
	for i := 0; i < 3; i++ {
		if err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "valid-signature"); err != nil {
			t.Fatalf("webhook delivery %d errored: %v", i, err)
		}
	}

	if f.driverRepo.CreditEarningsCallCount != 1 {
		t.Errorf("wallet credited %d times, want 1", f.driverRepo.CreditEarningsCallCount)
	}
	if f.driverRepo.GetProfile("driver-1").WalletBalance != 6.02 {
		t.Errorf("wallet = %v, want 6.02", f.driverRepo.GetProfile("driver-1").WalletBalance)
	}
}

func TestWebhook_FailedEventMarksPaymentFailed(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.completedCardRide("ride-1", "pay-1")

	intent, err := f.svc.CreateIntent(context.Background(), "ride-1", "passenger-1")
	if err != nil {
		t.Fatalf("intent failed: %v", err)
	}
	f.gateway.Event = &payment.Event{Type: payment.EventIntentFailed, IntentID: intent.ID}

	if err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "valid-signature"); err != nil {
		t.Fatalf("webhook errored: %v", err)
	}

	if f.paymentRepo.GetPayment("pay-1").Status != domain.PaymentStatusFailed {
		t.Error("payment not marked failed")
	}
	if f.rideRepo.GetRide("ride-1").PaymentStatus != domain.PaymentStatusFailed {
		t.Error("ride payment status not marked failed")
	}
	if f.driverRepo.CreditEarningsCallCount != 0 {
		t.Error("wallet credited on failed payment")
	}
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.gateway.Event = &payment.Event{Type: payment.EventIntentSucceeded, IntentID: "pi_x"}

	err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "forged")
	if !errors.Is(err, service.ErrWebhookSignature) {
		t.Errorf("err = %v, want ErrWebhookSignature", err)
	}
}

func TestWebhook_UnknownIntentIgnored(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.gateway.Event = &payment.Event{Type: payment.EventIntentSucceeded, IntentID: "pi_unknown"}

	if err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "valid-signature"); err != nil {
		t.Errorf("unknown intent should be absorbed, got %v", err)
	}
}
