package booking

import (
    "errors"
    "fmt"
)

// ErrConflict is returned when a candidate stay overlaps an existing
// reservation for the same room.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("room is already booked for the selected dates")

// ErrStorageUnavailable wraps any failure of the storage collaborator.  It is
// never interpreted as "no conflict" and maps to HTTP 503.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrInvalidMonth is returned for a calendar month outside 1..12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

func storageErr(op string, err error) error {
    return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
