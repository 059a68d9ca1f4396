package model

import "time"

// Reservation status values stored in reservations.status.
const (
    StatusActive   = "active"
    StatusCanceled = "canceled"
)

// Reservation records a guest's stay in a room.  CheckInDate is the first
// night of the stay and CheckOutDate the departure day.  Both are calendar
// dates carried as UTC midnight.
//
// Fields:
//  ID           – primary key identifier.
//  RoomID       – room being reserved.
//  GuestID      – guest who holds the reservation.
//  CheckInDate  – arrival date (inclusive).
//  CheckOutDate – departure date (exclusive for conflict checks).
//  Status       – active or canceled.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
    ID           uint64    `json:"reservation_id"` // reservations.reservation_id
    RoomID       uint64    `json:"room_id"`        // reservations.room_id
    GuestID      uint64    `json:"guest_id"`       // reservations.guest_id
    CheckInDate  Date      `json:"check_in_date"`  // reservations.check_in_date
    CheckOutDate Date      `json:"check_out_date"` // reservations.check_out_date
    Status       string    `json:"status"`         // reservations.status
    CreatedAt    time.Time `json:"created_at"`     // reservations.created_at
    UpdatedAt    time.Time `json:"updated_at"`     // reservations.updated_at
}

// IsCanceled reports whether the reservation has been canceled.
func (r Reservation) IsCanceled() bool { return r.Status == StatusCanceled }

// BusyDayMap maps an ISO calendar date (YYYY-MM-DD) to the number of
// reservations covering that date.  Dates with no reservations are absent.
type BusyDayMap map[string]int
