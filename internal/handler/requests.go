package handler

import (
    "strings"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// GuestInput is the body of POST and PUT /v1/guests.
type GuestInput struct {
    Name        string `json:"name" validate:"required,max=100"`
    Email       string `json:"email" validate:"required,email,max=100"`
    PhoneNumber string `json:"phone_number" validate:"required,max=15"`
}

func (in GuestInput) toModel() model.Guest {
    return model.Guest{
        Name:        strings.TrimSpace(in.Name),
        Email:       strings.TrimSpace(in.Email),
        PhoneNumber: strings.TrimSpace(in.PhoneNumber),
    }
}

// RoomInput is the body of POST and PUT /v1/rooms.
type RoomInput struct {
    RoomNumber string `json:"room_number" validate:"required,max=10"`
    RoomName   string `json:"room_name" validate:"required,max=100"`
}

func (in RoomInput) toModel() model.Room {
    return model.Room{
        RoomNumber: strings.TrimSpace(in.RoomNumber),
        RoomName:   strings.TrimSpace(in.RoomName),
    }
}

// ReservationInput is the body of POST and PUT /v1/reservations. Dates are
// validated as strings first so malformed values produce a readable 400.
type ReservationInput struct {
    GuestID      uint64 `json:"guest_id" validate:"required"`
    RoomID       uint64 `json:"room_id" validate:"required"`
    CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
    CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
}

func (in ReservationInput) toRequest() (service.ReservationRequest, error) {
    checkIn, err := model.ParseDate(in.CheckInDate)
    if err != nil {
        return service.ReservationRequest{}, err
    }
    checkOut, err := model.ParseDate(in.CheckOutDate)
    if err != nil {
        return service.ReservationRequest{}, err
    }
    return service.ReservationRequest{
        GuestID:  in.GuestID,
        RoomID:   in.RoomID,
        CheckIn:  checkIn,
        CheckOut: checkOut,
    }, nil
}
