// Package period implements the date filters used by ledger and trial
// balance views.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Preset names a relative reporting window.
type Preset string

const (
	All     Preset = "all"
	Today   Preset = "today"
	Week    Preset = "week"
	Month   Preset = "month"
	Quarter Preset = "quarter"
	Year    Preset = "year"
)

// DateFormat is the format of custom range bounds.
const DateFormat = "2006-01-02"

// Filter decides whether an entry date falls in the reporting window. When
// both Start and End are set they take precedence over Preset.
type Filter struct {
	Preset Preset
	Start  *time.Time
	End    *time.Time

	// Now returns the reference time for presets. Defaults to time.Now.
	Now func() time.Time
}

// ParsePreset validates a preset name. An empty string means All.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case "":
		return All, nil
	case All, Today, Week, Month, Quarter, Year:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// ErrHalfOpenRange is returned by New when only one range bound is given.
var ErrHalfOpenRange = errors.New("custom range needs both start and end")

// New builds a Filter from a preset name and optional "YYYY-MM-DD" bounds.
// Bounds come in pairs.
func New(preset, start, end string) (Filter, error) {
	p, err := ParsePreset(preset)
	if err != nil {
		return Filter{}, err
	}
	if (start == "") != (end == "") {
		return Filter{}, fmt.Errorf("%w (start %q, end %q)", ErrHalfOpenRange, start, end)
	}
	f := Filter{Preset: p}
	if start != "" {
		t, err := time.Parse(DateFormat, start)
		if err != nil {
			return Filter{}, fmt.Errorf("parsing start %q: %w", start, err)
		}
		f.Start = &t
	}
	if end != "" {
		t, err := time.Parse(DateFormat, end)
		if err != nil {
			return Filter{}, fmt.Errorf("parsing end %q: %w", end, err)
		}
		f.End = &t
	}
	return f, nil
}

// Custom returns a filter for the inclusive range [start, end].
func Custom(start, end time.Time) Filter {
	return Filter{Preset: All, Start: &start, End: &end}
}

// IsAll reports whether the filter admits every date.
func (f Filter) IsAll() bool {
	return (f.Start == nil || f.End == nil) && (f.Preset == All || f.Preset == "")
}

// Match reports whether date is inside the window. Entry dates are calendar
// days stored at UTC midnight; presets compare them against the calendar day
// of Now in its own zone, so no zone conversion shifts an entry's day.
func (f Filter) Match(date time.Time) bool {
	day := calendarDay(date.UTC())
	if f.Start != nil && f.End != nil {
		return !day.Before(calendarDay(f.Start.UTC())) && !day.After(calendarDay(f.End.UTC()))
	}

	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	today := calendarDay(now)

	switch f.Preset {
	case Today:
		return day.Equal(today)
	case Week:
		// The last seven calendar days, today included.
		return day.After(today.AddDate(0, 0, -7))
	case Month:
		return day.Month() == today.Month() && day.Year() == today.Year()
	case Quarter:
		return quarter(day) == quarter(today) && day.Year() == today.Year()
	case Year:
		return day.Year() == today.Year()
	default:
		return true
	}
}

// calendarDay returns t's wall-clock date as UTC midnight.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// quarter buckets months 0-2, 3-5, 6-8, 9-11.
func quarter(t time.Time) int {
	return (int(t.Month()) - 1) / 3
}

// String describes the filter for report titles.
func (f Filter) String() string {
	if f.Start != nil && f.End != nil {
		return f.Start.Format(DateFormat) + ".." + f.End.Format(DateFormat)
	}
	if f.Preset == "" {
		return string(All)
	}
	return string(f.Preset)
}
