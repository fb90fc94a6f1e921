// Package recur expands recurrence rules into concrete occurrence instances.
//
// The structured engine walks period by period and interprets the specific
// rule shapes of the calendar model (weekday sets, month-day selectors,
// nth-weekday-of-month). Rules that only carry raw RFC 5545 parts are handled
// by ExpandRaw instead.
package recur

import (
	"sort"
	"time"

	"github.com/calweave/calweave/pkg/caldate"
	"github.com/calweave/calweave/pkg/calendar"
)

// MaxCandidates is the hard ceiling on generated candidates per call. It
// guarantees termination for unterminated rules over very wide ranges; when
// hit, expansion truncates silently.
const MaxCandidates = 3650

// instanceIDFormat suffixes occurrence ids with the occurrence instant.
const instanceIDFormat = "20060102T150405Z"

// Expand enumerates the occurrence instances of a recurring event whose
// interval intersects the inclusive range [rangeStart, rangeEnd], in
// chronological order. Count and Until termination are honored independently
// of the range: candidates outside the range still consume the budget, so
// truncation never depends on which window the caller asks for.
//
// ExDates and RDates are not consulted; they travel through the codec only.
func Expand(ev calendar.Event, rangeStart, rangeEnd time.Time) []calendar.Event {
	rule := ev.Recurrence
	if rule == nil || !rule.Structured() {
		return nil
	}

	interval := rule.EffectiveInterval()
	duration := ev.Duration()

	var out []calendar.Event
	generated := 0
	occurrences := 0
	cursor := ev.Start

	for periods := 0; periods <= MaxCandidates; periods++ {
		if periodStart(*rule, cursor).After(rangeEnd) {
			break
		}

		for _, c := range periodCandidates(*rule, cursor) {
			if c.Before(ev.Start) {
				continue
			}
			generated++
			if generated > MaxCandidates {
				return out
			}
			if rule.Until != nil && c.After(*rule.Until) {
				return out
			}
			occurrences++
			if rule.Count > 0 && occurrences > rule.Count {
				return out
			}
			end := c.Add(duration)
			if !c.After(rangeEnd) && !end.Before(rangeStart) {
				out = append(out, newInstance(ev, c, duration))
			}
		}

		switch rule.Frequency {
		case calendar.FreqDaily:
			cursor = caldate.AddDays(cursor, interval)
		case calendar.FreqWeekly:
			cursor = caldate.AddWeeks(cursor, interval)
		case calendar.FreqMonthly:
			cursor = caldate.AddMonths(cursor, interval)
		case calendar.FreqYearly:
			cursor = caldate.AddYears(cursor, interval)
		}
	}

	return out
}

// newInstance materializes one occurrence: a copy of the parent with a
// derived id and recurrence forced off so instances never re-expand.
func newInstance(parent calendar.Event, start time.Time, duration time.Duration) calendar.Event {
	inst := parent.Clone()
	inst.ID = parent.ID + "-" + start.UTC().Format(instanceIDFormat)
	inst.Start = start
	inst.End = start.Add(duration)
	inst.Recurrence = nil
	return inst
}

// periodStart is the earliest instant any candidate of the cursor's period
// can fall on; once it passes the range end the walk can stop.
func periodStart(rule calendar.Rule, cursor time.Time) time.Time {
	switch rule.Frequency {
	case calendar.FreqWeekly:
		return caldate.StartOfWeek(cursor, time.Sunday)
	case calendar.FreqMonthly:
		return caldate.StartOfMonth(cursor)
	case calendar.FreqYearly:
		return caldate.StartOfYear(cursor)
	}
	return caldate.StartOfDay(cursor)
}

// periodCandidates computes the candidate instants of one period, ascending.
func periodCandidates(rule calendar.Rule, cursor time.Time) []time.Time {
	switch rule.Frequency {
	case calendar.FreqDaily:
		if len(rule.WeekDays) > 0 && !weekdayListed(rule.WeekDays, cursor.Weekday()) {
			return nil
		}
		return []time.Time{cursor}

	case calendar.FreqWeekly:
		// One candidate per listed weekday, normalized into the cursor's week.
		week := caldate.StartOfWeek(cursor, time.Sunday)
		out := make([]time.Time, 0, len(rule.WeekDays))
		for _, wd := range rule.WeekDays {
			day := caldate.AddDays(week, wd)
			out = append(out, withClock(day, cursor))
		}
		sortTimes(out)
		return out

	case calendar.FreqMonthly:
		return monthCandidates(rule, cursor.Year(), cursor.Month(), cursor)

	case calendar.FreqYearly:
		if rule.Month == nil {
			return nil
		}
		return monthCandidates(rule, cursor.Year(), time.Month(*rule.Month+1), cursor)
	}
	return nil
}

// monthCandidates resolves the month-day selector or the nth-weekday set for
// one month. A month-day absent from the month (day 31 in a 30-day month)
// yields no candidate for that period.
func monthCandidates(rule calendar.Rule, year int, month time.Month, clock time.Time) []time.Time {
	if rule.MonthDay != 0 {
		days := caldate.DaysInMonth(year, month)
		day := rule.MonthDay
		if day < 0 {
			day = days + 1 + day
		}
		if day < 1 || day > days {
			return nil
		}
		d := time.Date(year, month, day, 0, 0, 0, 0, clock.Location())
		return []time.Time{withClock(d, clock)}
	}

	out := make([]time.Time, 0, len(rule.WeekDays))
	for _, wd := range rule.WeekDays {
		d, ok := caldate.NthWeekdayOfMonth(year, month, time.Weekday(wd), rule.WeekOfMonth, clock.Location())
		if !ok {
			continue
		}
		out = append(out, withClock(d, clock))
	}
	sortTimes(out)
	return out
}

// withClock places day at the wall-clock time of ref.
func withClock(day, ref time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

func weekdayListed(days []int, wd time.Weekday) bool {
	for _, d := range days {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}
