// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/booking"
)

// ErrGuestNotFound is returned when no guest matches the requested id.
var ErrGuestNotFound = errors.New("guest not found")

// ErrRoomNotFound is returned when no room matches the requested id.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when no reservation matches the
// requested id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEmailExists is returned when a guest insert or update collides with
// the unique email index. Handlers should translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrRoomNumberExists is returned when a room insert or update collides
// with the unique room_number index.
var ErrRoomNumberExists = errors.New("room number already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// unavailable marks a driver failure as booking.ErrStorageUnavailable so
// every route reports an outage the same way. nil and the sentinels above
// pass through unchanged.
func unavailable(op string, err error) error {
	switch {
	case err == nil,
		errors.Is(err, ErrGuestNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrRoomNumberExists),
		errors.Is(err, booking.ErrStorageUnavailable):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, booking.ErrStorageUnavailable, err)
}
