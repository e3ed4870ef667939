package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// MessageService handles in-ride chat between the passenger and the driver.
// The receiver is never chosen by the caller: it is always the other party
// of the ride, so a message cannot leave the ride's two participants.
type MessageService struct {
	messageRepo  repository.MessageRepository
	rideRepo     repository.RideRepository
	notification *NotificationService
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, rideRepo repository.RideRepository, notification *NotificationService) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		rideRepo:     rideRepo,
		notification: notification,
	}
}

// Send persists a message from one ride party to the other and delivers it
// over the realtime channel. Messaging needs an assigned driver; beyond that
// any ride state is fine, parties may still coordinate after completion.
func (s *MessageService) Send(ctx context.Context, rideID, senderID, body string) (*domain.Message, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if senderID == "" {
		return nil, ErrInvalidAccountID
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.PassengerID != senderID && ride.DriverID != senderID {
		return nil, ErrNotRidePassenger
	}
	if ride.DriverID == "" {
		return nil, ErrRideUnassigned
	}

	receiverID := ride.PassengerID
	if senderID == ride.PassengerID {
		receiverID = ride.DriverID
	}

	message := &domain.Message{
		ID:         uuid.New().String(),
		RideID:     ride.ID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.notification.NotifyNewMessage(message)
	return message, nil
}

// Messages lists the ride's conversation oldest first, visible only to the
// ride's parties.
func (s *MessageService) Messages(ctx context.Context, rideID, accountID string) ([]*domain.Message, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.PassengerID != accountID && ride.DriverID != accountID {
		return nil, ErrNotRidePassenger
	}

	messages, err := s.messageRepo.ListByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}

// MarkRead marks a received message as read. Only the receiver may do so;
// anyone else sees not-found.
func (s *MessageService) MarkRead(ctx context.Context, messageID, readerID string) error {
	if messageID == "" {
		return ErrInvalidMessageID
	}
	if readerID == "" {
		return ErrInvalidAccountID
	}
	return s.messageRepo.MarkRead(ctx, messageID, readerID)
}
