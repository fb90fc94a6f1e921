package calendar

import (
	"fmt"

	"github.com/calweave/calweave/pkg/caldate"
)

// Validate checks a candidate event for structural soundness and returns a
// list of human-readable violations. An empty list means the event is valid.
// Invalid input is data, not a fault: Validate never panics.
func Validate(ev Event) []string {
	var problems []string

	if ev.Title == "" {
		problems = append(problems, "title must not be empty")
	}
	if ev.Start.IsZero() {
		problems = append(problems, "start is required")
	}
	if ev.End.IsZero() {
		problems = append(problems, "end is required")
	}
	if !ev.Start.IsZero() && !ev.End.IsZero() {
		if ev.AllDay {
			if caldate.StartOfDay(ev.End).Before(caldate.StartOfDay(ev.Start)) {
				problems = append(problems, "end date must not precede start date for all-day events")
			}
		} else if !ev.End.After(ev.Start) {
			problems = append(problems, "end must be after start")
		}
	}

	if ev.Recurrence != nil {
		problems = append(problems, ValidateRule(*ev.Recurrence, ev)...)
	}

	return problems
}

// ValidateRule checks a recurrence rule against the event it is attached to.
func ValidateRule(r Rule, ev Event) []string {
	var problems []string

	if !KnownFrequency(r.Frequency) {
		problems = append(problems, fmt.Sprintf("unknown repeat frequency %q", string(r.Frequency)))
		return problems
	}
	if r.Interval < 1 {
		problems = append(problems, "interval must be a positive integer")
	}
	if r.Count < 0 {
		problems = append(problems, "count must be a positive integer")
	}
	if r.Count > 0 && r.Until != nil {
		problems = append(problems, "count and until are mutually exclusive")
	}
	if r.Until != nil && !ev.End.IsZero() && !r.Until.After(ev.End) {
		problems = append(problems, "until must be after the event end")
	}

	switch r.Frequency {
	case FreqDaily:
		if len(r.WeekDays) > 0 {
			problems = append(problems, "daily rules must not specify weekdays")
		}
		problems = appendForbidden(problems, r, "daily", false)
	case FreqWeekly:
		problems = append(problems, validateWeekDays(r.WeekDays, true)...)
		problems = appendForbidden(problems, r, "weekly", false)
	case FreqMonthly:
		problems = append(problems, validateDayOrWeek(r)...)
		problems = appendForbidden(problems, r, "monthly", true)
	case FreqYearly:
		problems = append(problems, validateDayOrWeek(r)...)
		if r.Month == nil {
			problems = append(problems, "yearly rules require a month")
		} else if *r.Month < 0 || *r.Month > 11 {
			problems = append(problems, fmt.Sprintf("month must be between 0 and 11, got %d", *r.Month))
		}
	}

	return problems
}

// appendForbidden rejects the day/week/month selectors a frequency does not
// support. monthOnly limits the check to the month selector.
func appendForbidden(problems []string, r Rule, freq string, monthOnly bool) []string {
	if !monthOnly {
		if r.MonthDay != 0 {
			problems = append(problems, freq+" rules must not specify a month day")
		}
		if r.WeekOfMonth != 0 {
			problems = append(problems, freq+" rules must not specify a week position")
		}
	}
	if r.Month != nil {
		problems = append(problems, freq+" rules must not specify a month")
	}
	return problems
}

// validateDayOrWeek enforces the monthly/yearly shape: exactly one of a
// month-day selector or a week position paired with weekdays.
func validateDayOrWeek(r Rule) []string {
	var problems []string

	hasDay := r.MonthDay != 0
	hasWeek := r.WeekOfMonth != 0 || len(r.WeekDays) > 0

	switch {
	case hasDay && hasWeek:
		problems = append(problems, "must specify either a month day or a week position with weekdays, not both")
	case !hasDay && !hasWeek:
		problems = append(problems, "must specify either a month day or a week position with weekdays")
	case hasDay:
		if r.MonthDay < -31 || r.MonthDay > 31 {
			problems = append(problems, fmt.Sprintf("month day must be between -31 and 31, got %d", r.MonthDay))
		}
	default:
		if r.WeekOfMonth != -1 && (r.WeekOfMonth < 1 || r.WeekOfMonth > 4) {
			problems = append(problems, fmt.Sprintf("week position must be 1..4 or -1, got %d", r.WeekOfMonth))
		}
		problems = append(problems, validateWeekDays(r.WeekDays, true)...)
	}

	return problems
}

func validateWeekDays(days []int, required bool) []string {
	var problems []string
	if len(days) == 0 {
		if required {
			problems = append(problems, "weekdays must not be empty")
		}
		return problems
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			problems = append(problems, fmt.Sprintf("weekday must be between 0 and 6, got %d", d))
			continue
		}
		if seen[d] {
			problems = append(problems, fmt.Sprintf("duplicate weekday %d", d))
		}
		seen[d] = true
	}
	return problems
}
