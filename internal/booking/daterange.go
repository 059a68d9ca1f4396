// Package booking holds the reservation rules that guard room bookings and
// the busy-day aggregation behind the occupancy calendar.  Both depend only
// on small read capabilities supplied by the storage layer.
package booking

import (
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// DateRange is a pair of calendar dates.  Whether End is included depends on
// the caller: conflict checks treat it as exclusive, occupancy counting as
// inclusive.
type DateRange struct {
    Start model.Date
    End   model.Date
}

// EachDay calls fn for every date from Start to End, both included.  Nothing
// is visited when End is before Start.
func (r DateRange) EachDay(fn func(model.Date)) {
    for d := r.Start.Time; !d.After(r.End.Time); d = d.AddDate(0, 0, 1) {
        fn(model.Date{Time: d})
    }
}

// Days returns the number of dates EachDay would visit.
func (r DateRange) Days() int {
    if r.End.Before(r.Start.Time) {
        return 0
    }
    return int(r.End.Sub(r.Start.Time)/(24*time.Hour)) + 1
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one day.  Ranges that only touch at a
// boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd model.Date) bool {
    return aStart.Before(bEnd.Time) && bStart.Before(aEnd.Time)
}

// MonthBounds returns the first day of the month and the first day of the
// following month.  December rolls over into January of the next year.
func MonthBounds(year, month int) (start, end model.Date, err error) {
    if month < 1 || month > 12 {
        return model.Date{}, model.Date{}, ErrInvalidMonth
    }
    s := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
    return model.Date{Time: s}, model.Date{Time: s.AddDate(0, 1, 0)}, nil
}
