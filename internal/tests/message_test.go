package tests

import (
	"context"
	"errors"
	"testing"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
	"studentcab/internal/service"
)

func newMessageFixture() (*MockMessageRepository, *MockRideRepository, *RecordingPublisher, *service.MessageService) {
	messageRepo := NewMockMessageRepository()
	rideRepo := NewMockRideRepository()
	pub := NewRecordingPublisher()
	svc := service.NewMessageService(messageRepo, rideRepo, service.NewNotificationService(pub))
	return messageRepo, rideRepo, pub, svc
}

func acceptedChatRide(rideRepo *MockRideRepository) *domain.Ride {
	ride := &domain.Ride{
		ID:          "ride-1",
		PassengerID: "passenger-1",
		DriverID:    "driver-1",
		Status:      domain.RideStatusAccepted,
	}
	rideRepo.AddRide(ride)
	return ride
}

func TestSendMessage_PassengerToDriver(t *testing.T) {
	t.Parallel()

	messageRepo, rideRepo, pub, svc := newMessageFixture()
	acceptedChatRide(rideRepo)

	msg, err := svc.Send(context.Background(), "ride-1", "passenger-1", "waiting at the lobby")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ReceiverID != "driver-1" {
		t.Errorf("receiver = %s, want driver-1", msg.ReceiverID)
	}
	if msg.Read {
		t.Error("new message should start unread")
	}
	if messageRepo.CountMessages() != 1 {
		t.Errorf("stored messages = %d, want 1", messageRepo.CountMessages())
	}

	events := pub.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Type != "new_message" {
		t.Errorf("event type = %s, want new_message", events[0].Type)
	}
	if events[0].Topic != "user:driver-1" {
		t.Errorf("topic = %s, want user:driver-1", events[0].Topic)
	}
}

func TestSendMessage_DriverToPassenger(t *testing.T) {
	t.Parallel()

	_, rideRepo, pub, svc := newMessageFixture()
	acceptedChatRide(rideRepo)

	msg, err := svc.Send(context.Background(), "ride-1", "driver-1", "five minutes away")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ReceiverID != "passenger-1" {
		t.Errorf("receiver = %s, want passenger-1", msg.ReceiverID)
	}
	if events := pub.Events(); len(events) != 1 || events[0].Topic != "user:passenger-1" {
		t.Errorf("events = %+v, want one on user:passenger-1", events)
	}
}

func TestSendMessage_Guards(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		seed    func(*MockRideRepository)
		sender  string
		body    string
		wantErr error
	}{
		{
			name:    "stranger cannot message",
			seed:    func(r *MockRideRepository) { acceptedChatRide(r) },
			sender:  "somebody-else",
			body:    "hello",
			wantErr: service.ErrNotRidePassenger,
		},
		{
			name:    "empty body",
			seed:    func(r *MockRideRepository) { acceptedChatRide(r) },
			sender:  "passenger-1",
			body:    "   ",
			wantErr: service.ErrEmptyMessage,
		},
		{
			name: "no driver assigned yet",
			seed: func(r *MockRideRepository) {
				r.AddRide(&domain.Ride{ID: "ride-1", PassengerID: "passenger-1", Status: domain.RideStatusPending})
			},
			sender:  "passenger-1",
			body:    "anyone?",
			wantErr: service.ErrRideUnassigned,
		},
		{
			name:    "unknown ride",
			seed:    func(r *MockRideRepository) {},
			sender:  "passenger-1",
			body:    "hello",
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			messageRepo, rideRepo, pub, svc := newMessageFixture()
			tc.seed(rideRepo)

			_, err := svc.Send(context.Background(), "ride-1", tc.sender, tc.body)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			if messageRepo.CountMessages() != 0 {
				t.Error("rejected message was stored")
			}
			if len(pub.Events()) != 0 {
				t.Error("rejected message was published")
			}
		})
	}
}

func TestMessages_VisibleToPartiesOldestFirst(t *testing.T) {
	t.Parallel()

	_, rideRepo, _, svc := newMessageFixture()
	acceptedChatRide(rideRepo)

	for _, body := range []string{"first", "second", "third"} {
		if _, err := svc.Send(context.Background(), "ride-1", "passenger-1", body); err != nil {
			t.Fatalf("send %q: %v", body, err)
		}
	}

	for _, party := range []string{"passenger-1", "driver-1"} {
		messages, err := svc.Messages(context.Background(), "ride-1", party)
		if err != nil {
			t.Fatalf("list as %s: %v", party, err)
		}
		if len(messages) != 3 {
			t.Fatalf("messages = %d, want 3", len(messages))
		}
		if messages[0].Body != "first" || messages[2].Body != "third" {
			t.Errorf("order = [%s .. %s], want oldest first", messages[0].Body, messages[2].Body)
		}
	}

	if _, err := svc.Messages(context.Background(), "ride-1", "somebody-else"); !errors.Is(err, service.ErrNotRidePassenger) {
		t.Errorf("stranger list err = %v, want ErrNotRidePassenger", err)
	}
}

func TestMessages_EmptyConversationIsEmptySlice(t *testing.T) {
	t.Parallel()

	_, rideRepo, _, svc := newMessageFixture()
	acceptedChatRide(rideRepo)

	messages, err := svc.Messages(context.Background(), "ride-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Errorf("messages = %v, want empty non-nil slice", messages)
	}
}

func TestMarkRead_ReceiverOnly(t *testing.T) {
	t.Parallel()

	messageRepo, rideRepo, _, svc := newMessageFixture()
	acceptedChatRide(rideRepo)

	msg, err := svc.Send(context.Background(), "ride-1", "passenger-1", "waiting outside")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	// The sender cannot mark its own message read.
	if err := svc.MarkRead(context.Background(), msg.ID, "passenger-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("sender mark-read err = %v, want ErrNotFound", err)
	}

	if err := svc.MarkRead(context.Background(), msg.ID, "driver-1"); err != nil {
		t.Fatalf("receiver mark-read: %v", err)
	}

	stored, err := messageRepo.GetByID(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Read {
		t.Error("message not marked read")
	}
}
