// Package timeutil converts client-supplied wall-clock times into
// absolute UTC instants and computes the period buckets used by the
// statistics endpoints.  The default timezone is injected rather than
// read from ambient state so behaviour is deterministic per test run.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// Reservation duration bounds, both inclusive.
const (
	MinDuration = time.Minute
	MaxDuration = 24 * time.Hour
)

const (
	dateLayout      = "2006-01-02"
	localDateLayout = "2006-01-02T15:04"
)

// ErrInvalidRange indicates a window whose start is not strictly before
// its end after normalization to UTC.
var ErrInvalidRange = errors.New("start time must be before end time")

// ErrInvalidDateRange indicates an optional date filter whose start date
// falls after its end date.
var ErrInvalidDateRange = errors.New("start date must be before or equal to end date")

// ErrInvalidPeriod indicates an unknown statistics period.
var ErrInvalidPeriod = errors.New("period must be daily, weekly, or monthly")

// Period selects the occupancy bucket size.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Normalizer performs all local-to-UTC conversions for the service.  It
// holds the single configured default timezone used whenever a
// wall-clock value carries no explicit offset.  All methods are pure.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer loads the given IANA zone name and returns a Normalizer
// bound to it.
func NewNormalizer(zone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location exposes the configured default timezone.
func (n *Normalizer) Location() *time.Location { return n.loc }

// ParseRange parses two ISO-8601 datetime strings that carry explicit
// UTC offsets and returns the corresponding UTC instants.  The offsets
// embedded in the inputs are authoritative; the default timezone is not
// consulted on this path.  ErrInvalidRange is returned when the start
// does not precede the end.
func (n *Normalizer) ParseRange(startISO, endISO string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startISO)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endISO)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end time: %w", err)
	}
	startUTC := start.UTC()
	endUTC := end.UTC()
	if !startUTC.Before(endUTC) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return startUTC, endUTC, nil
}

// CombineDateAndTime combines a "YYYY-MM-DD" date with an "HH:MM" wall
// clock, interprets the pair in the default timezone (honouring that
// zone's DST rules on the given date) and returns the UTC instant.
func (n *Normalizer) CombineDateAndTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(localDateLayout, date+"T"+clock, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local datetime: %w", err)
	}
	return t.UTC(), nil
}

// DateRangeBounds converts optional "YYYY-MM-DD" filter dates into a
// UTC window spanning from the start of the first day to the end of the
// last day, both in the default timezone.  Either bound may be empty.
// ErrInvalidDateRange is returned when both are given and inverted.
func (n *Normalizer) DateRangeBounds(startDate, endDate string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startDate != "" {
		t, err := time.ParseInLocation(dateLayout, startDate, n.loc)
		if err != nil {
			return nil, nil, fmt.Errorf("parse start date: %w", err)
		}
		u := t.UTC()
		start = &u
	}
	if endDate != "" {
		t, err := time.ParseInLocation(dateLayout, endDate, n.loc)
		if err != nil {
			return nil, nil, fmt.Errorf("parse end date: %w", err)
		}
		u := t.AddDate(0, 0, 1).UTC()
		end = &u
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, ErrInvalidDateRange
	}
	return start, end, nil
}

// PeriodBounds returns the UTC window containing the reference date for
// the requested period, plus the number of bookable hours in that
// period.  Weeks start on Monday; months use the calendar month of the
// reference date.  Bounds are computed as local midnights in the
// default timezone and converted to UTC, so the window tracks DST
// transitions.
func (n *Normalizer) PeriodBounds(date string, period Period) (time.Time, time.Time, float64, error) {
	ref, err := time.ParseInLocation(dateLayout, date, n.loc)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("parse reference date: %w", err)
	}

	var start, end time.Time
	var hours float64
	switch period {
	case PeriodDaily:
		start = ref
		end = ref.AddDate(0, 0, 1)
		hours = 24
	case PeriodWeekly:
		// Monday-based offset: Sunday counts as 6 days past Monday.
		offset := (int(ref.Weekday()) + 6) % 7
		start = ref.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 7)
		hours = 24 * 7
	case PeriodMonthly:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, n.loc)
		end = start.AddDate(0, 1, 0)
		hours = 24 * float64(daysIn(ref))
	default:
		return time.Time{}, time.Time{}, 0, ErrInvalidPeriod
	}
	return start.UTC(), end.UTC(), hours, nil
}

// daysIn reports the number of days in t's calendar month.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
