package booking

import (
    "context"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// Candidate is a stay that is about to be written.  ExcludeID names the
// reservation being updated so it is not compared against itself; it is
// zero for new bookings.
type Candidate struct {
    RoomID    uint64
    CheckIn   model.Date
    CheckOut  model.Date
    ExcludeID uint64
}

// OverlapQuery is the filter handed to an OverlapFinder.  Implementations
// must match rows of RoomID where check_in_date < CheckOut and
// check_out_date > CheckIn.
type OverlapQuery struct {
    RoomID          uint64
    CheckIn         model.Date
    CheckOut        model.Date
    ExcludeID       uint64
    IncludeCanceled bool
}

// OverlapFinder is the read capability the Checker needs from storage.
type OverlapFinder interface {
    FindOverlapping(ctx context.Context, q OverlapQuery) ([]model.Reservation, error)
}

// Checker decides whether a candidate stay collides with an existing
// reservation in the same room.  Stays that only touch (one checks out the
// day the other checks in) never collide.
type Checker struct {
    finder OverlapFinder
    policy StatusPolicy
}

// NewChecker returns a Checker reading through finder.
func NewChecker(finder OverlapFinder, policy StatusPolicy) *Checker {
    if policy == "" {
        policy = ExcludeCanceled
    }
    return &Checker{finder: finder, policy: policy}
}

// Conflicts reports whether at least one reservation overlaps c.  A storage
// failure is returned as ErrStorageUnavailable, never as false.
func (ch *Checker) Conflicts(ctx context.Context, c Candidate) (bool, error) {
    rows, err := ch.finder.FindOverlapping(ctx, OverlapQuery{
        RoomID:          c.RoomID,
        CheckIn:         c.CheckIn,
        CheckOut:        c.CheckOut,
        ExcludeID:       c.ExcludeID,
        IncludeCanceled: ch.policy.IncludeCanceled(),
    })
    if err != nil {
        return false, storageErr("find overlapping reservations", err)
    }
    return len(rows) > 0, nil
}

// Check is Conflicts expressed as an error: ErrConflict when the candidate
// collides, nil when the room is free.
func (ch *Checker) Check(ctx context.Context, c Candidate) error {
    conflict, err := ch.Conflicts(ctx, c)
    if err != nil {
        return err
    }
    if conflict {
        return ErrConflict
    }
    return nil
}
