package model

import "time"

// Guest is a person who can hold reservations.  Email is unique.
type Guest struct {
    ID          uint64    `json:"guest_id"`     // guests.guest_id
    Name        string    `json:"name"`         // guests.name
    Email       string    `json:"email"`        // guests.email
    PhoneNumber string    `json:"phone_number"` // guests.phone_number
    CreatedAt   time.Time `json:"created_at"`   // guests.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // guests.updated_at
}

// GuestDetail adds the number of completed stays to a guest.
type GuestDetail struct {
    Guest
    TotalPastReservations int64 `json:"total_past_reservations"`
}
