package calendar

import "time"

// Frequency is the base period of a recurrence rule.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
)

// KnownFrequency reports whether f is one of the four supported values.
func KnownFrequency(f Frequency) bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
		return true
	}
	return false
}

// Rule describes how an event repeats. The zero value of each optional field
// means "unset"; Month uses a pointer because January is 0. Count and Until
// are mutually exclusive, as are MonthDay and WeekOfMonth+WeekDays; the
// validator enforces both.
type Rule struct {
	Frequency Frequency

	// Interval is "every N periods"; values below 1 are treated as 1.
	Interval int

	// Count limits the total number of occurrences when positive.
	Count int
	// Until terminates the rule at an instant.
	Until *time.Time

	// WeekDays lists weekdays 0=Sunday..6=Saturday (weekly/monthly/yearly).
	WeekDays []int
	// MonthDay selects a day of month, 1..31 or -31..-1 counting back from
	// month end (monthly/yearly).
	MonthDay int
	// WeekOfMonth selects the nth week, 1..4 or -1 for last, paired with
	// exactly one weekday (monthly/yearly).
	WeekOfMonth int
	// Month selects the month for yearly rules, 0=January..11=December.
	Month *int

	// Raw preserves RFC 5545 rule parts the structured fields above do not
	// model. The codec reads and writes them; the structured expansion
	// engine ignores them.
	Raw RawRule
}

// RawRule holds wire-format RRULE parts passed through verbatim. Numeric
// values keep their 1-indexed wire form.
type RawRule struct {
	ByDay      []string
	ByMonthDay []int
	ByMonth    []int
	ByYearDay  []int
	ByWeekNo   []int
	BySetPos   []int
	WeekStart  string
}

// Empty reports whether no raw parts are set.
func (r RawRule) Empty() bool {
	return len(r.ByDay) == 0 && len(r.ByMonthDay) == 0 && len(r.ByMonth) == 0 &&
		len(r.ByYearDay) == 0 && len(r.ByWeekNo) == 0 && len(r.BySetPos) == 0 &&
		r.WeekStart == ""
}

// Structured reports whether the rule carries enough structured selectors for
// the specific-case expansion engine, as opposed to raw-only shapes.
func (r Rule) Structured() bool {
	switch r.Frequency {
	case FreqDaily:
		return true
	case FreqWeekly:
		return len(r.WeekDays) > 0
	case FreqMonthly:
		return r.MonthDay != 0 || (r.WeekOfMonth != 0 && len(r.WeekDays) > 0)
	case FreqYearly:
		return r.Month != nil && (r.MonthDay != 0 || (r.WeekOfMonth != 0 && len(r.WeekDays) > 0))
	}
	return false
}

// EffectiveInterval normalizes Interval to at least 1.
func (r Rule) EffectiveInterval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := r
	if r.Until != nil {
		u := *r.Until
		out.Until = &u
	}
	if r.Month != nil {
		m := *r.Month
		out.Month = &m
	}
	if r.WeekDays != nil {
		out.WeekDays = append([]int(nil), r.WeekDays...)
	}
	out.Raw.ByDay = append([]string(nil), r.Raw.ByDay...)
	out.Raw.ByMonthDay = append([]int(nil), r.Raw.ByMonthDay...)
	out.Raw.ByMonth = append([]int(nil), r.Raw.ByMonth...)
	out.Raw.ByYearDay = append([]int(nil), r.Raw.ByYearDay...)
	out.Raw.ByWeekNo = append([]int(nil), r.Raw.ByWeekNo...)
	out.Raw.BySetPos = append([]int(nil), r.Raw.BySetPos...)
	return out
}
