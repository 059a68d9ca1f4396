package booking

import (
    "context"
    "testing"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// memStore applies the same predicates as the MySQL repository to an
// in-memory slice of reservations.
type memStore struct {
    rows  []model.Reservation
    err   error
    calls int
}

func (m *memStore) FindOverlapping(_ context.Context, q OverlapQuery) ([]model.Reservation, error) {
    m.calls++
    if m.err != nil {
        return nil, m.err
    }
    var out []model.Reservation
    for _, r := range m.rows {
        if r.RoomID != q.RoomID || (q.ExcludeID != 0 && r.ID == q.ExcludeID) {
            continue
        }
        if !q.IncludeCanceled && r.IsCanceled() {
            continue
        }
        if r.CheckInDate.Before(q.CheckOut.Time) && r.CheckOutDate.After(q.CheckIn.Time) {
            out = append(out, r)
        }
    }
    return out, nil
}

func (m *memStore) FindIntersectingMonth(_ context.Context, start, end model.Date, includeCanceled bool) ([]DateRange, error) {
    m.calls++
    if m.err != nil {
        return nil, m.err
    }
    var out []DateRange
    for _, r := range m.rows {
        if !includeCanceled && r.IsCanceled() {
            continue
        }
        if r.CheckInDate.Before(end.Time) && !r.CheckOutDate.Before(start.Time) {
            out = append(out, DateRange{Start: r.CheckInDate, End: r.CheckOutDate})
        }
    }
    return out, nil
}

func date(t *testing.T, s string) model.Date {
    t.Helper()
    d, err := model.ParseDate(s)
    if err != nil {
        t.Fatalf("ParseDate(%q): %v", s, err)
    }
    return d
}

func stay(t *testing.T, id, room uint64, in, out, status string) model.Reservation {
    t.Helper()
    return model.Reservation{
        ID:           id,
        RoomID:       room,
        GuestID:      1,
        CheckInDate:  date(t, in),
        CheckOutDate: date(t, out),
        Status:       status,
    }
}
