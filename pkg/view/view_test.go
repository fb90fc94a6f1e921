package view

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayView(t *testing.T) {
	anchor := time.Date(2024, time.January, 15, 13, 30, 0, 0, time.UTC)
	dates, err := Dates(KindDay, anchor, time.Sunday, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 || !dates[0].Equal(date(2024, time.January, 15)) {
		t.Errorf("day view = %v", dates)
	}

	bounds, err := Bounds(KindDay, anchor, time.Sunday, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bounds.Start.Hour() != 0 || bounds.End.Hour() != 23 {
		t.Errorf("day bounds = %v", bounds)
	}
}

func TestWeekView(t *testing.T) {
	dates, err := Dates(KindWeek, date(2024, time.January, 15), time.Sunday, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 7 {
		t.Fatalf("week view has %d dates", len(dates))
	}
	if !dates[0].Equal(date(2024, time.January, 14)) || !dates[6].Equal(date(2024, time.January, 20)) {
		t.Errorf("week span = %v .. %v", dates[0], dates[6])
	}
}

func TestMonthViewPadding(t *testing.T) {
	// Anchored Jan 15 2024 with a Sunday week start the padded grid runs
	// Dec 31 2023 through Feb 3 2024, 35 days.
	dates, err := Dates(KindMonth, date(2024, time.January, 15), time.Sunday, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 35 {
		t.Fatalf("month grid has %d days, want 35", len(dates))
	}
	if !dates[0].Equal(date(2023, time.December, 31)) {
		t.Errorf("first grid day = %v, want 2023-12-31", dates[0])
	}
	if !dates[34].Equal(date(2024, time.February, 3)) {
		t.Errorf("last grid day = %v, want 2024-02-03", dates[34])
	}
	for i, d := range dates {
		if d.Weekday() != time.Weekday(i%7) {
			t.Fatalf("grid day %d is %v, misaligned", i, d.Weekday())
		}
	}
}

func TestYearGrids(t *testing.T) {
	grids := YearGrids(date(2024, time.June, 1), time.Monday)
	if len(grids) != 12 {
		t.Fatalf("year view has %d grids", len(grids))
	}
	feb := grids[1]
	if feb.Month != time.February {
		t.Fatalf("second grid month = %v", feb.Month)
	}
	if feb.InMonth(date(2024, time.January, 29)) {
		t.Error("padding day reported as in-month")
	}
	if !feb.InMonth(date(2024, time.February, 29)) {
		t.Error("leap day reported as padding")
	}
	if !IsToday(date(2024, time.February, 29), date(2024, time.February, 29)) {
		t.Error("IsToday")
	}
	for _, g := range grids {
		if g.Days[0].Weekday() != time.Monday {
			t.Errorf("%v grid does not start on the configured week start", g.Month)
		}
		if len(g.Days)%7 != 0 {
			t.Errorf("%v grid has %d days, not whole weeks", g.Month, len(g.Days))
		}
	}
}

func TestCustomDayView(t *testing.T) {
	spec := &CustomSpec{Unit: UnitDay, Count: 5}
	dates, err := Dates(KindCustom, date(2024, time.March, 30), time.Sunday, spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 5 {
		t.Fatalf("custom day view has %d dates, want 5", len(dates))
	}
	for i, d := range dates {
		if want := date(2024, time.March, 30).AddDate(0, 0, i); !d.Equal(want) {
			t.Errorf("date %d = %v, want %v", i, d, want)
		}
	}
}

func TestCustomWeekViewWithFilter(t *testing.T) {
	spec := &CustomSpec{Unit: UnitWeek, Count: 2, WeekDays: []int{1, 3, 5}}
	dates, err := Dates(KindCustom, date(2024, time.January, 15), time.Sunday, spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 6 {
		t.Fatalf("filtered two-week view has %d dates, want 6", len(dates))
	}
	for _, d := range dates {
		switch d.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Errorf("weekday filter leaked %v", d.Weekday())
		}
	}
}

func TestCustomDayUnitIgnoresFilter(t *testing.T) {
	spec := &CustomSpec{Unit: UnitDay, Count: 3, WeekDays: []int{0}}
	dates, err := Dates(KindCustom, date(2024, time.January, 15), time.Sunday, spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 3 {
		t.Errorf("day unit must ignore the weekday filter, got %d dates", len(dates))
	}
}

func TestCustomMonthViewDeduplicates(t *testing.T) {
	spec := &CustomSpec{Unit: UnitMonth, Count: 2}
	dates, err := Dates(KindCustom, date(2024, time.January, 1), time.Sunday, spec)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, d := range dates {
		key := d.Format("20060102")
		if seen[key] {
			t.Fatalf("duplicate date %s in concatenated month view", key)
		}
		seen[key] = true
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Fatalf("dates out of order at %d: %v then %v", i, dates[i-1], dates[i])
		}
	}
}

func TestCustomZeroCount(t *testing.T) {
	spec := &CustomSpec{Unit: UnitWeek, Count: 0}
	dates, err := Dates(KindCustom, date(2024, time.January, 15), time.Sunday, spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 0 {
		t.Errorf("count 0 must produce no dates, got %d", len(dates))
	}
	if got := RangeLabel(dates); got != "" {
		t.Errorf("count 0 label = %q, want empty", got)
	}
	bounds, err := Bounds(KindCustom, date(2024, time.January, 15), time.Sunday, spec)
	if err != nil {
		t.Fatal(err)
	}
	if !bounds.IsZero() {
		t.Errorf("count 0 bounds = %v, want zero", bounds)
	}
}

func TestInvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec *CustomSpec
	}{
		{"nil spec", nil},
		{"unknown unit", &CustomSpec{Unit: "fortnight", Count: 1}},
		{"negative count", &CustomSpec{Unit: UnitDay, Count: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Dates(KindCustom, date(2024, time.January, 15), time.Sunday, tt.spec)
			var specErr *InvalidViewSpecError
			if !errors.As(err, &specErr) {
				t.Errorf("want InvalidViewSpecError, got %v", err)
			}
		})
	}
}

func TestRangeLabel(t *testing.T) {
	single := []time.Time{date(2024, time.January, 15)}
	if got := RangeLabel(single); got != "Jan 15, 2024" {
		t.Errorf("single day label = %q", got)
	}
	span := []time.Time{date(2023, time.December, 31), date(2024, time.February, 3)}
	if got := RangeLabel(span); got != "Dec 31, 2023 - Feb 3, 2024" {
		t.Errorf("span label = %q", got)
	}
}
