package booking

import (
    "context"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// MonthFinder returns the stays intersecting [start, end).  Implementations
// must match check_in_date < end AND check_out_date >= start, so a stay that
// checks out on the first of the month is still returned.
type MonthFinder interface {
    FindIntersectingMonth(ctx context.Context, start, end model.Date, includeCanceled bool) ([]DateRange, error)
}

// Aggregator builds the busy-day map behind the occupancy calendar.
type Aggregator struct {
    finder MonthFinder
    policy StatusPolicy
}

// NewAggregator returns an Aggregator reading through finder.
func NewAggregator(finder MonthFinder, policy StatusPolicy) *Aggregator {
    if policy == "" {
        policy = ExcludeCanceled
    }
    return &Aggregator{finder: finder, policy: policy}
}

// BusyDays counts, for each date touched by a reservation intersecting the
// month, how many reservations cover it.  Each stay is expanded from
// check-in to check-out with both days counted, so dates spilling into the
// neighbouring month can appear in the result.
func (a *Aggregator) BusyDays(ctx context.Context, year, month int) (model.BusyDayMap, error) {
    start, end, err := MonthBounds(year, month)
    if err != nil {
        return nil, err
    }
    ranges, err := a.finder.FindIntersectingMonth(ctx, start, end, a.policy.IncludeCanceled())
    if err != nil {
        return nil, storageErr("find reservations for month", err)
    }
    return CountBusyDays(ranges), nil
}

// CountBusyDays expands every range inclusively and sums per-day counts.
// The result does not depend on the order of ranges.
func CountBusyDays(ranges []DateRange) model.BusyDayMap {
    busy := make(model.BusyDayMap)
    for _, r := range ranges {
        r.EachDay(func(d model.Date) {
            busy[d.String()]++
        })
    }
    return busy
}
