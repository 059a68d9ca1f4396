// Package queue defines message payloads exchanged over the message broker
// and the consumer that journals them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Reservation event types, also used as the AMQP message type.
const (
	EventReservationCreated  = "reservation.created"
	EventReservationUpdated  = "reservation.updated"
	EventReservationCanceled = "reservation.canceled"
)

// ReservationEvent is published after a reservation write commits. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	RoomID        uint64 `json:"room_id"`
	GuestID       uint64 `json:"guest_id"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type from a stored
// reservation.
func NewReservationEvent(eventType string, res model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		GuestID:       res.GuestID,
		CheckInDate:   res.CheckInDate.String(),
		CheckOutDate:  res.CheckOutDate.String(),
		Status:        res.Status,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
