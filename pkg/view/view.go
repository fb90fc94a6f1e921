// Package view maps a view mode and anchor date onto the sequence of visible
// dates and the inclusive range used to query events.
package view

import (
	"fmt"
	"time"

	"github.com/calweave/calweave/pkg/caldate"
)

// Kind selects the view mode.
type Kind string

const (
	KindDay    Kind = "day"
	KindWeek   Kind = "week"
	KindMonth  Kind = "month"
	KindYear   Kind = "year"
	KindCustom Kind = "custom"
)

// Unit is the repeated building block of a custom view.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// CustomSpec configures a custom multi-unit view: Unit repeated Count times
// from the anchor. WeekDays optionally restricts week and month units to the
// listed weekdays (0=Sunday..6=Saturday); day units ignore it.
type CustomSpec struct {
	Unit     Unit
	Count    int
	WeekDays []int
}

// Range is an inclusive start/end query window.
type Range struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is empty.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// InvalidViewSpecError reports a malformed custom view spec. It is an
// enumerable caller-input error, surfaced inline rather than as a fault.
type InvalidViewSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidViewSpecError) Error() string {
	return fmt.Sprintf("invalid view spec: %s: %s", e.Field, e.Reason)
}

// ValidateSpec checks a custom view spec. Count 0 is allowed and yields an
// empty view; negative counts and unknown units are rejected.
func ValidateSpec(spec *CustomSpec) error {
	if spec == nil {
		return &InvalidViewSpecError{Field: "spec", Reason: "custom view requires a spec"}
	}
	switch spec.Unit {
	case UnitDay, UnitWeek, UnitMonth:
	default:
		return &InvalidViewSpecError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", string(spec.Unit))}
	}
	if spec.Count < 0 {
		return &InvalidViewSpecError{Field: "count", Reason: "count must be a positive integer"}
	}
	return nil
}

// Dates produces the ordered, deduplicated date sequence rendered by a view.
// Every element is a midnight instant in the anchor's location.
func Dates(kind Kind, anchor time.Time, weekStart time.Weekday, spec *CustomSpec) ([]time.Time, error) {
	switch kind {
	case KindDay:
		return []time.Time{caldate.StartOfDay(anchor)}, nil
	case KindWeek:
		return weekDates(anchor, weekStart), nil
	case KindMonth:
		return monthDates(anchor, weekStart), nil
	case KindYear:
		var out []time.Time
		for _, grid := range YearGrids(anchor, weekStart) {
			out = append(out, grid.Days...)
		}
		return dedupDays(out), nil
	case KindCustom:
		return customDates(anchor, weekStart, spec)
	}
	return nil, &InvalidViewSpecError{Field: "kind", Reason: fmt.Sprintf("unknown view kind %q", string(kind))}
}

// Bounds returns the inclusive event query range for a view. A zero-length
// view (custom with count 0) yields a zero Range the caller must handle.
func Bounds(kind Kind, anchor time.Time, weekStart time.Weekday, spec *CustomSpec) (Range, error) {
	dates, err := Dates(kind, anchor, weekStart, spec)
	if err != nil {
		return Range{}, err
	}
	if len(dates) == 0 {
		return Range{}, nil
	}
	return Range{
		Start: caldate.StartOfDay(dates[0]),
		End:   caldate.EndOfDay(dates[len(dates)-1]),
	}, nil
}

// MonthGrid is one month's padded week grid, used by the year view.
type MonthGrid struct {
	Year  int
	Month time.Month
	Days  []time.Time
}

// InMonth reports whether d belongs to the grid's nominal month rather than
// its leading or trailing padding.
func (g MonthGrid) InMonth(d time.Time) bool {
	return d.Year() == g.Year && d.Month() == g.Month
}

// IsToday reports whether d is the same calendar date as now.
func IsToday(d, now time.Time) bool {
	return caldate.SameDay(d, now)
}

// YearGrids builds the twelve month grids of the anchor's year.
func YearGrids(anchor time.Time, weekStart time.Weekday) []MonthGrid {
	grids := make([]MonthGrid, 0, 12)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(anchor.Year(), m, 1, 0, 0, 0, 0, anchor.Location())
		grids = append(grids, MonthGrid{
			Year:  anchor.Year(),
			Month: m,
			Days:  monthDates(first, weekStart),
		})
	}
	return grids
}

// RangeLabel formats the span covered by a date sequence, or "" when empty.
func RangeLabel(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	first, last := dates[0], dates[len(dates)-1]
	if caldate.SameDay(first, last) {
		return first.Format("Jan 2, 2006")
	}
	return first.Format("Jan 2, 2006") + " - " + last.Format("Jan 2, 2006")
}

func weekDates(anchor time.Time, weekStart time.Weekday) []time.Time {
	start := caldate.StartOfWeek(anchor, weekStart)
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = caldate.AddDays(start, i)
	}
	return out
}

// monthDates pads the month out to full weeks so the grid always begins on
// the configured week-start weekday and ends six days after a week start.
func monthDates(anchor time.Time, weekStart time.Weekday) []time.Time {
	first := caldate.StartOfWeek(caldate.StartOfMonth(anchor), weekStart)
	last := caldate.StartOfDay(caldate.EndOfWeek(caldate.EndOfMonth(anchor), weekStart))
	var out []time.Time
	for d := first; !d.After(last); d = caldate.AddDays(d, 1) {
		out = append(out, d)
	}
	return out
}

func customDates(anchor time.Time, weekStart time.Weekday, spec *CustomSpec) ([]time.Time, error) {
	if err := ValidateSpec(spec); err != nil {
		return nil, err
	}

	var out []time.Time
	cursor := caldate.StartOfDay(anchor)
	for i := 0; i < spec.Count; i++ {
		switch spec.Unit {
		case UnitDay:
			out = append(out, cursor)
			cursor = caldate.AddDays(cursor, 1)
		case UnitWeek:
			out = append(out, weekDates(cursor, weekStart)...)
			cursor = caldate.AddWeeks(cursor, 1)
		case UnitMonth:
			out = append(out, monthDates(cursor, weekStart)...)
			cursor = caldate.AddMonths(cursor, 1)
		}
	}
	out = dedupDays(out)

	if len(spec.WeekDays) > 0 && spec.Unit != UnitDay {
		out = filterWeekDays(out, spec.WeekDays)
	}
	return out, nil
}

func dedupDays(dates []time.Time) []time.Time {
	seen := make(map[string]bool, len(dates))
	out := dates[:0]
	for _, d := range dates {
		key := d.Format("20060102")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

func filterWeekDays(dates []time.Time, weekDays []int) []time.Time {
	allowed := make(map[time.Weekday]bool, len(weekDays))
	for _, d := range weekDays {
		allowed[time.Weekday(d)] = true
	}
	var out []time.Time
	for _, d := range dates {
		if allowed[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}
