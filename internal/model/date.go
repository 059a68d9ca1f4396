package model

import (
    "database/sql/driver"
    "encoding/json"
    "fmt"
    "time"
)

// DateLayout is the ISO calendar date format used on the wire and as
// BusyDayMap keys.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.  It wraps a time.Time
// at UTC midnight so it can be scanned directly from DATE columns and
// serialised as "YYYY-MM-DD".
type Date struct {
    time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
    y, m, d := t.Date()
    return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.Format(DateLayout) }

// MarshalJSON writes the date as a quoted ISO calendar string.
func (d Date) MarshalJSON() ([]byte, error) {
    return json.Marshal(d.String())
}

// UnmarshalJSON parses a quoted ISO calendar string.
func (d *Date) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// ParseDate parses an ISO calendar string into a Date.
func ParseDate(s string) (Date, error) {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return Date{}, err
    }
    return Date{t}, nil
}

// Scan implements sql.Scanner for DATE columns.  With parseTime=true the
// MySQL driver yields time.Time; raw byte or string values are parsed.
func (d *Date) Scan(src any) error {
    switch v := src.(type) {
    case time.Time:
        *d = NewDate(v)
    case []byte:
        return d.scanString(string(v))
    case string:
        return d.scanString(v)
    case nil:
        *d = Date{}
    default:
        return fmt.Errorf("model.Date: cannot scan %T", src)
    }
    return nil
}

func (d *Date) scanString(s string) error {
    if len(s) > len(DateLayout) {
        s = s[:len(DateLayout)]
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// Value implements driver.Valuer so a Date binds as 'YYYY-MM-DD'.
func (d Date) Value() (driver.Value, error) {
    return d.String(), nil
}
