package service

import (
	"studentcab/internal/domain"
	"studentcab/internal/realtime"
)

// Publisher fans events out to realtime subscribers. Delivery is best-effort
// and at-most-once; implementations must never block the caller.
type Publisher interface {
	Publish(topic, eventType string, data map[string]any)
}

// NotificationService broadcasts ride-state changes over the realtime
// channel. It carries no business logic: every method is fire-and-forget and
// failures never affect the source-of-truth records.
type NotificationService struct {
	publisher Publisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(publisher Publisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

func (s *NotificationService) publish(topic, eventType string, data map[string]any) {
	if s == nil || s.publisher == nil {
		return
	}
	s.publisher.Publish(topic, eventType, data)
}

// NotifyRideRequested announces a new pending ride to the drivers room.
func (s *NotificationService) NotifyRideRequested(ride *domain.Ride) {
	s.publish(realtime.TopicDrivers, "ride_requested", map[string]any{
		"ride_id":    ride.ID,
		"pickup_lat": ride.Pickup.Lat,
		"pickup_lng": ride.Pickup.Lng,
		"fare":       ride.Fare,
	})
}

// NotifyRideAccepted tells the passenger a driver took the ride.
func (s *NotificationService) NotifyRideAccepted(ride *domain.Ride) {
	s.publish(realtime.UserTopic(ride.PassengerID), "ride_accepted", map[string]any{
		"ride_id":   ride.ID,
		"driver_id": ride.DriverID,
	})
}

// NotifyRideReleased tells the drivers room a ride returned to the pool.
func (s *NotificationService) NotifyRideReleased(ride *domain.Ride) {
	s.publish(realtime.TopicDrivers, "ride_requested", map[string]any{
		"ride_id":    ride.ID,
		"pickup_lat": ride.Pickup.Lat,
		"pickup_lng": ride.Pickup.Lng,
		"fare":       ride.Fare,
	})
}

// NotifyRideStatus broadcasts a lifecycle change to the passenger.
func (s *NotificationService) NotifyRideStatus(ride *domain.Ride) {
	s.publish(realtime.UserTopic(ride.PassengerID), "ride_status", map[string]any{
		"ride_id":       ride.ID,
		"status":        string(ride.Status),
		"pickup_status": string(ride.PickupStatus),
	})
}

// NotifyRideCancelled tells the affected driver, if any, about a cancellation.
func (s *NotificationService) NotifyRideCancelled(ride *domain.Ride, driverID string) {
	if driverID != "" {
		s.publish(realtime.UserTopic(driverID), "ride_cancelled", map[string]any{
			"ride_id": ride.ID,
			"reason":  ride.CancelReason,
		})
	}
}

// NotifyPaymentSettled tells both parties a payment reached a terminal state.
func (s *NotificationService) NotifyPaymentSettled(p *domain.Payment) {
	data := map[string]any{
		"ride_id":    p.RideID,
		"payment_id": p.ID,
		"status":     string(p.Status),
		"amount":     p.Amount,
	}
	s.publish(realtime.UserTopic(p.PayerID), "payment_settled", data)
	s.publish(realtime.UserTopic(p.PayeeID), "payment_settled", data)
}

// NotifyNewMessage delivers an in-ride chat message to the other party.
func (s *NotificationService) NotifyNewMessage(m *domain.Message) {
	s.publish(realtime.UserTopic(m.ReceiverID), "new_message", map[string]any{
		"message_id": m.ID,
		"ride_id":    m.RideID,
		"sender_id":  m.SenderID,
		"body":       m.Body,
	})
}

// NotifyDriverLocation relays a driver position ping to the passenger of the
// driver's active ride.
func (s *NotificationService) NotifyDriverLocation(passengerID, driverID string, lat, lng float64) {
	s.publish(realtime.UserTopic(passengerID), "driver_location", map[string]any{
		"driver_id": driverID,
		"lat":       lat,
		"lng":       lng,
	})
}
