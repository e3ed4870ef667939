package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"studentcab/internal/domain"
	"studentcab/internal/payment"
	"studentcab/internal/repository"
	"studentcab/internal/repository/postgres"
)

// PaymentService reconciles card payments with the processor and settles
// them locally. Settlement is exactly-once: the conditional pending check
// plus the unique payment per ride guarantee the driver wallet is credited
// a single time no matter how often confirmation or webhooks replay.
type PaymentService struct {
	db           *sql.DB
	paymentRepo  repository.PaymentRepository
	rideRepo     repository.RideRepository
	driverRepo   repository.DriverRepository
	gateway      payment.Gateway
	currency     string
	notification *NotificationService
	log          *logrus.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	db *sql.DB,
	paymentRepo repository.PaymentRepository,
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	gateway payment.Gateway,
	currency string,
	notification *NotificationService,
	log *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		db:           db,
		paymentRepo:  paymentRepo,
		rideRepo:     rideRepo,
		driverRepo:   driverRepo,
		gateway:      gateway,
		currency:     currency,
		notification: notification,
		log:          log,
	}
}

// CreateIntent opens a processor intent for a pending card payment. Calling
// it again for the same payment returns the existing intent.
func (s *PaymentService) CreateIntent(ctx context.Context, rideID, passengerID string) (*payment.Intent, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if passengerID == "" {
		return nil, ErrInvalidAccountID
	}

	p, err := s.paymentRepo.GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if p.PayerID != passengerID {
		return nil, ErrNotRidePassenger
	}
	if p.Method != domain.PaymentMethodCard {
		return nil, ErrNotCardPayment
	}
	if p.Status != domain.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}

	if p.IntentID != "" {
		intent, err := s.gateway.RetrieveIntent(ctx, p.IntentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}
		return intent, nil
	}

	intent, err := s.gateway.CreateIntent(ctx, p.Amount, s.currency, map[string]string{
		"ride_id":    p.RideID,
		"payment_id": p.ID,
		"payer_id":   p.PayerID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	if err := s.paymentRepo.SetIntentID(ctx, p.ID, intent.ID); err != nil {
		return nil, err
	}

	return intent, nil
}

// ConfirmPayment reconciles a payment against the processor on the
// passenger's request. Settles only when the processor reports success.
func (s *PaymentService) ConfirmPayment(ctx context.Context, rideID, passengerID string) (*domain.Payment, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if passengerID == "" {
		return nil, ErrInvalidAccountID
	}

	p, err := s.paymentRepo.GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if p.PayerID != passengerID {
		return nil, ErrNotRidePassenger
	}
	if p.Status == domain.PaymentStatusCompleted {
		return p, nil
	}
	if p.IntentID == "" {
		return nil, ErrPaymentNotPending
	}

	intent, err := s.gateway.RetrieveIntent(ctx, p.IntentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if intent.Status != payment.IntentStatusSucceeded {
		return nil, ErrIntentNotSucceeded
	}

	return s.settle(ctx, p)
}

// HandleWebhook verifies and applies a processor event. Replayed events are
// absorbed without double-settling.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	switch event.Type {
	case payment.EventIntentSucceeded:
		p, err := s.paymentRepo.GetByIntentID(ctx, event.IntentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.WithField("intent_id", event.IntentID).Warn("webhook for unknown payment intent")
				return nil
			}
			return err
		}
		_, err = s.settle(ctx, p)
		return err

	case payment.EventIntentFailed:
		p, err := s.paymentRepo.GetByIntentID(ctx, event.IntentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.WithField("intent_id", event.IntentID).Warn("webhook for unknown payment intent")
				return nil
			}
			return err
		}
		if p.Status != domain.PaymentStatusPending {
			return nil
		}
		if err := s.paymentRepo.MarkFailed(ctx, p.ID); err != nil {
			return err
		}
		return s.rideRepo.UpdatePaymentStatus(ctx, p.RideID, domain.PaymentStatusFailed)

	default:
		return nil
	}
}

// settle marks the payment completed and credits the driver wallet once.
// The pending check and the credit run in the same transaction, so a replay
// that loses the pending race changes nothing.
func (s *PaymentService) settle(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	paymentRepo := s.paymentRepo
	rideRepo := s.rideRepo
	driverRepo := s.driverRepo

	var tx *sql.Tx
	var err error
	if s.db != nil {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()
		paymentRepo = postgres.NewPaymentRepositoryWithTx(tx)
		rideRepo = postgres.NewRideRepositoryWithTx(tx)
		driverRepo = postgres.NewDriverRepositoryWithTx(tx)
	}

	settled, err := paymentRepo.SettleIfPending(ctx, p.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !settled {
		// Another settle won; nothing more to do.
		if tx != nil {
			_ = tx.Rollback()
		}
		return s.paymentRepo.GetByID(ctx, p.ID)
	}

	if err = rideRepo.UpdatePaymentStatus(ctx, p.RideID, domain.PaymentStatusCompleted); err != nil {
		return nil, err
	}

	if p.Method == domain.PaymentMethodCard {
		if err = driverRepo.CreditEarnings(ctx, p.PayeeID, p.Amount); err != nil {
			return nil, err
		}
	}

	if tx != nil {
		if err = tx.Commit(); err != nil {
			return nil, err
		}
	}

	updated, err := s.paymentRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	s.notification.NotifyPaymentSettled(updated)

	return updated, nil
}
