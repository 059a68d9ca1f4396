package booking

import (
    "fmt"
    "strings"
)

// StatusPolicy decides whether canceled reservations take part in conflict
// checks and occupancy counts.
type StatusPolicy string

const (
    // ExcludeCanceled ignores canceled reservations.  This is the default.
    ExcludeCanceled StatusPolicy = "exclude_canceled"
    // StatusBlind matches reservations regardless of status, as the legacy
    // service did.  Kept for compatibility while existing data is migrated.
    StatusBlind StatusPolicy = "compat"
)

// IncludeCanceled reports whether canceled rows should be matched.
func (p StatusPolicy) IncludeCanceled() bool { return p == StatusBlind }

// ParseStatusPolicy maps a configuration value onto a policy.  The empty
// string selects ExcludeCanceled.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", string(ExcludeCanceled):
        return ExcludeCanceled, nil
    case string(StatusBlind), "status_blind":
        return StatusBlind, nil
    }
    return "", fmt.Errorf("unknown overlap status policy %q", s)
}
