package model

import "time"

// Room represents a bookable hotel room.
//
// Fields:
//  ID         – primary key identifier.
//  RoomNumber – unique, human-readable number (e.g. "101").
//  RoomName   – display name.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
    ID         uint64    `json:"room_id"`     // rooms.room_id
    RoomNumber string    `json:"room_number"` // rooms.room_number
    RoomName   string    `json:"room_name"`   // rooms.room_name
    CreatedAt  time.Time `json:"created_at"`  // rooms.created_at
    UpdatedAt  time.Time `json:"updated_at"`  // rooms.updated_at
}

// RoomDetail is a room together with its current and upcoming
// reservations, ordered by check-in date.
type RoomDetail struct {
    Room
    Reservations []Reservation `json:"reservations"`
}
