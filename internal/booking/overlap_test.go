package booking

import (
    "context"
    "errors"
    "testing"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

func TestChecker_Conflicts(t *testing.T) {
    store := &memStore{rows: []model.Reservation{
        stay(t, 1, 1, "2025-01-05", "2025-01-10", model.StatusActive),
    }}
    checker := NewChecker(store, ExcludeCanceled)

    tests := []struct {
        name    string
        room    uint64
        in, out string
        want    bool
    }{
        {"checks in on existing checkout", 1, "2025-01-10", "2025-01-15", false},
        {"checks out on existing checkin", 1, "2025-01-01", "2025-01-05", false},
        {"overlaps first night", 1, "2025-01-01", "2025-01-06", true},
        {"overlaps last night", 1, "2025-01-09", "2025-01-12", true},
        {"contains existing", 1, "2025-01-01", "2025-01-20", true},
        {"inside existing", 1, "2025-01-06", "2025-01-07", true},
        {"other room", 2, "2025-01-05", "2025-01-10", false},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, err := checker.Conflicts(context.Background(), Candidate{
                RoomID:   tt.room,
                CheckIn:  date(t, tt.in),
                CheckOut: date(t, tt.out),
            })
            if err != nil {
                t.Fatalf("Conflicts() error = %v", err)
            }
            if got != tt.want {
                t.Errorf("Conflicts() = %v, want %v", got, tt.want)
            }
        })
    }
}

func TestChecker_MatchesHalfOpenRule(t *testing.T) {
    days := []string{"2025-01-01", "2025-01-03", "2025-01-05", "2025-01-07", "2025-01-09"}
    for i := 0; i < len(days); i++ {
        for j := i + 1; j < len(days); j++ {
            for k := 0; k < len(days); k++ {
                for l := k + 1; l < len(days); l++ {
                    a1, a2 := date(t, days[i]), date(t, days[j])
                    b1, b2 := date(t, days[k]), date(t, days[l])
                    store := &memStore{rows: []model.Reservation{{ID: 1, RoomID: 7, CheckInDate: a1, CheckOutDate: a2, Status: model.StatusActive}}}
                    got, err := NewChecker(store, ExcludeCanceled).Conflicts(context.Background(), Candidate{RoomID: 7, CheckIn: b1, CheckOut: b2})
                    if err != nil {
                        t.Fatalf("Conflicts() error = %v", err)
                    }
                    want := a1.Before(b2.Time) && b1.Before(a2.Time)
                    if got != want || got != Overlaps(a1, a2, b1, b2) {
                        t.Errorf("A=[%s,%s) B=[%s,%s): Conflicts() = %v, want %v", a1, a2, b1, b2, got, want)
                    }
                }
            }
        }
    }
}

func TestChecker_StatusPolicy(t *testing.T) {
    store := &memStore{rows: []model.Reservation{
        stay(t, 4, 4, "2025-01-15", "2025-01-20", model.StatusCanceled),
    }}
    cand := Candidate{RoomID: 4, CheckIn: date(t, "2025-01-16"), CheckOut: date(t, "2025-01-18")}

    t.Run("canceled stays are ignored by default", func(t *testing.T) {
        got, err := NewChecker(store, "").Conflicts(context.Background(), cand)
        if err != nil || got {
            t.Errorf("Conflicts() = %v, %v; want false, nil", got, err)
        }
    })

    t.Run("compat mode matches canceled stays", func(t *testing.T) {
        got, err := NewChecker(store, StatusBlind).Conflicts(context.Background(), cand)
        if err != nil || !got {
            t.Errorf("Conflicts() = %v, %v; want true, nil", got, err)
        }
    })
}

func TestChecker_ExcludesReservationBeingUpdated(t *testing.T) {
    store := &memStore{rows: []model.Reservation{
        stay(t, 9, 1, "2025-03-01", "2025-03-05", model.StatusActive),
    }}
    checker := NewChecker(store, ExcludeCanceled)
    cand := Candidate{RoomID: 1, CheckIn: date(t, "2025-03-02"), CheckOut: date(t, "2025-03-06"), ExcludeID: 9}
    if err := checker.Check(context.Background(), cand); err != nil {
        t.Errorf("Check() error = %v, want nil", err)
    }
    cand.ExcludeID = 0
    if err := checker.Check(context.Background(), cand); !errors.Is(err, ErrConflict) {
        t.Errorf("Check() error = %v, want ErrConflict", err)
    }
}

func TestChecker_StorageFailurePropagates(t *testing.T) {
    boom := errors.New("connection refused")
    checker := NewChecker(&memStore{err: boom}, ExcludeCanceled)
    cand := Candidate{RoomID: 1, CheckIn: date(t, "2025-01-01"), CheckOut: date(t, "2025-01-02")}

    got, err := checker.Conflicts(context.Background(), cand)
    if got {
        t.Error("Conflicts() = true on storage failure")
    }
    if !errors.Is(err, ErrStorageUnavailable) {
        t.Errorf("error = %v, want ErrStorageUnavailable", err)
    }
    if !errors.Is(err, boom) {
        t.Errorf("error = %v, want it to wrap the cause", err)
    }
    if err := checker.Check(context.Background(), cand); errors.Is(err, ErrConflict) || err == nil {
        t.Errorf("Check() error = %v, want storage error", err)
    }
}
