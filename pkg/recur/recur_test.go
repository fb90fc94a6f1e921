package recur

import (
	"strings"
	"testing"
	"time"

	"github.com/calweave/calweave/pkg/calendar"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func recurring(start, end time.Time, rule calendar.Rule) calendar.Event {
	return calendar.Event{
		ID:         "base",
		Title:      "Standup",
		Start:      start,
		End:        end,
		Recurrence: &rule,
	}
}

func starts(instances []calendar.Event) []time.Time {
	out := make([]time.Time, len(instances))
	for i, ev := range instances {
		out[i] = ev.Start
	}
	return out
}

func TestDailyExpansion(t *testing.T) {
	ev := recurring(at(2024, time.January, 1, 9), at(2024, time.January, 1, 10),
		calendar.Rule{Frequency: calendar.FreqDaily, Interval: 1})

	got := Expand(ev, at(2024, time.January, 1, 0), at(2024, time.January, 5, 23))
	if len(got) != 5 {
		t.Fatalf("daily over five days = %d instances", len(got))
	}
	for i, inst := range got {
		if want := at(2024, time.January, 1+i, 9); !inst.Start.Equal(want) {
			t.Errorf("instance %d starts %v, want %v", i, inst.Start, want)
		}
		if inst.Recurrence != nil {
			t.Error("instances must not carry a recurrence rule")
		}
		if !strings.HasPrefix(inst.ID, "base-") {
			t.Errorf("instance id %q does not derive from the parent", inst.ID)
		}
	}
}

func TestDailyIntervalAndUntil(t *testing.T) {
	until := at(2024, time.January, 7, 23)
	ev := recurring(at(2024, time.January, 1, 9), at(2024, time.January, 1, 10),
		calendar.Rule{Frequency: calendar.FreqDaily, Interval: 2, Until: &until})

	got := Expand(ev, at(2024, time.January, 1, 0), at(2024, time.January, 31, 0))
	want := []time.Time{
		at(2024, time.January, 1, 9), at(2024, time.January, 3, 9),
		at(2024, time.January, 5, 9), at(2024, time.January, 7, 9),
	}
	assertStarts(t, got, want)
}

func TestWeeklyCountStopsAtTwo(t *testing.T) {
	// 2024-01-08 is a Monday. Weekdays Mon/Wed/Fri with count 2 over a full
	// week yields Monday and Wednesday, never a third instance.
	ev := recurring(at(2024, time.January, 8, 9), at(2024, time.January, 8, 10),
		calendar.Rule{Frequency: calendar.FreqWeekly, Interval: 1, WeekDays: []int{1, 3, 5}, Count: 2})

	got := Expand(ev, at(2024, time.January, 8, 0), at(2024, time.January, 14, 23))
	assertStarts(t, got, []time.Time{at(2024, time.January, 8, 9), at(2024, time.January, 10, 9)})
}

func TestCountIsRangeIndependent(t *testing.T) {
	// Both budgeted occurrences land in week one, so a query over week two
	// sees nothing: candidates outside the range still consume the count.
	ev := recurring(at(2024, time.January, 8, 9), at(2024, time.January, 8, 10),
		calendar.Rule{Frequency: calendar.FreqWeekly, Interval: 1, WeekDays: []int{1, 3, 5}, Count: 2})

	got := Expand(ev, at(2024, time.January, 15, 0), at(2024, time.January, 21, 23))
	if len(got) != 0 {
		t.Errorf("count-terminated rule leaked %d instances into week two", len(got))
	}
}

func TestMonthlyLastDayAcrossLeapFebruary(t *testing.T) {
	ev := recurring(at(2024, time.January, 1, 12), at(2024, time.January, 1, 13),
		calendar.Rule{Frequency: calendar.FreqMonthly, Interval: 1, MonthDay: -1})

	got := Expand(ev, at(2024, time.January, 1, 0), at(2024, time.March, 1, 0))
	assertStarts(t, got, []time.Time{at(2024, time.January, 31, 12), at(2024, time.February, 29, 12)})
}

func TestMonthlyDay31SkipsShortMonths(t *testing.T) {
	ev := recurring(at(2024, time.January, 31, 8), at(2024, time.January, 31, 9),
		calendar.Rule{Frequency: calendar.FreqMonthly, Interval: 1, MonthDay: 31})

	got := Expand(ev, at(2024, time.January, 1, 0), at(2024, time.May, 31, 23))
	assertStarts(t, got, []time.Time{
		at(2024, time.January, 31, 8), at(2024, time.March, 31, 8), at(2024, time.May, 31, 8),
	})
}

func TestMonthlyLastFriday(t *testing.T) {
	ev := recurring(at(2024, time.January, 1, 17), at(2024, time.January, 1, 18),
		calendar.Rule{Frequency: calendar.FreqMonthly, Interval: 1, WeekOfMonth: -1, WeekDays: []int{5}})

	got := Expand(ev, at(2024, time.January, 1, 0), at(2024, time.February, 29, 23))
	assertStarts(t, got, []time.Time{at(2024, time.January, 26, 17), at(2024, time.February, 23, 17)})
}

func TestMonthlySecondTuesday(t *testing.T) {
	ev := recurring(at(2024, time.January, 1, 10), at(2024, time.January, 1, 11),
		calendar.Rule{Frequency: calendar.FreqMonthly, Interval: 1, WeekOfMonth: 2, WeekDays: []int{2}})

	got := Expand(ev, at(2024, time.January, 1, 0), at(2024, time.March, 31, 23))
	assertStarts(t, got, []time.Time{
		at(2024, time.January, 9, 10), at(2024, time.February, 13, 10), at(2024, time.March, 12, 10),
	})
}

func TestYearlyPinnedToMonth(t *testing.T) {
	march := 2
	ev := recurring(at(2023, time.March, 17, 0), at(2023, time.March, 17, 1),
		calendar.Rule{Frequency: calendar.FreqYearly, Interval: 1, MonthDay: 17, Month: &march})

	got := Expand(ev, at(2023, time.January, 1, 0), at(2025, time.December, 31, 0))
	assertStarts(t, got, []time.Time{
		at(2023, time.March, 17, 0), at(2024, time.March, 17, 0), at(2025, time.March, 17, 0),
	})
}

func TestExpansionCeiling(t *testing.T) {
	ev := recurring(at(2000, time.January, 1, 9), at(2000, time.January, 1, 10),
		calendar.Rule{Frequency: calendar.FreqDaily, Interval: 1})

	// An unterminated daily rule over twenty years truncates at the ceiling
	// instead of walking forever.
	got := Expand(ev, at(2000, time.January, 1, 0), at(2020, time.January, 1, 0))
	if len(got) != MaxCandidates {
		t.Errorf("ceiling produced %d instances, want %d", len(got), MaxCandidates)
	}
}

func TestInstancesAreOrderedAndDistinct(t *testing.T) {
	ev := recurring(at(2024, time.January, 8, 9), at(2024, time.January, 8, 10),
		calendar.Rule{Frequency: calendar.FreqWeekly, Interval: 1, WeekDays: []int{5, 1, 3}})

	got := Expand(ev, at(2024, time.January, 8, 0), at(2024, time.January, 21, 23))
	ids := map[string]bool{}
	for i, inst := range got {
		if i > 0 && got[i-1].Start.After(inst.Start) {
			t.Fatalf("instances out of order at %d", i)
		}
		if ids[inst.ID] {
			t.Fatalf("duplicate instance id %q", inst.ID)
		}
		ids[inst.ID] = true
	}
	if len(got) != 6 {
		t.Errorf("two full weeks of MWF = %d instances, want 6", len(got))
	}
}

func TestNonRecurringAndRawOnlyRules(t *testing.T) {
	plain := calendar.Event{ID: "x", Start: at(2024, time.January, 1, 9), End: at(2024, time.January, 1, 10)}
	if got := Expand(plain, at(2024, time.January, 1, 0), at(2024, time.December, 31, 0)); got != nil {
		t.Errorf("non-recurring event expanded to %d instances", len(got))
	}

	rawOnly := recurring(at(2024, time.January, 1, 9), at(2024, time.January, 1, 10),
		calendar.Rule{Frequency: calendar.FreqMonthly, Interval: 1,
			Raw: calendar.RawRule{ByDay: []string{"MO", "TU"}, BySetPos: []int{-1}}})
	if got := Expand(rawOnly, at(2024, time.January, 1, 0), at(2024, time.December, 31, 0)); got != nil {
		t.Errorf("raw-only rule must bypass the structured engine, got %d instances", len(got))
	}
}

func TestExpandRawLastWeekdayOfMonth(t *testing.T) {
	ev := recurring(at(2024, time.January, 1, 9), at(2024, time.January, 1, 10),
		calendar.Rule{Frequency: calendar.FreqMonthly, Interval: 1,
			Raw: calendar.RawRule{ByDay: []string{"MO", "TU", "WE", "TH", "FR"}, BySetPos: []int{-1}}})

	got, err := ExpandRaw(ev, at(2024, time.January, 1, 0), at(2024, time.February, 29, 23))
	if err != nil {
		t.Fatal(err)
	}
	// Last weekday of January 2024 is Wednesday the 31st; of February the 29th.
	assertStarts(t, got, []time.Time{at(2024, time.January, 31, 9), at(2024, time.February, 29, 9)})
}

func assertStarts(t *testing.T, got []calendar.Event, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d instances %v, want %d %v", len(got), starts(got), len(want), want)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i]) {
			t.Errorf("instance %d starts %v, want %v", i, got[i].Start, want[i])
		}
	}
}
