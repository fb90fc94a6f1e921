package ics

import (
	"bytes"
	"testing"
	"time"

	goical "github.com/emersion/go-ical"

	"github.com/calweave/calweave/pkg/calendar"
)

// The exporter claims byte-compatible RFC 5545 output; an independent
// implementation must be able to read it back.
func TestExportReadableByIndependentDecoder(t *testing.T) {
	events := []calendar.Event{
		{
			ID:    "interop-1",
			Title: "Quarterly review",
			Start: time.Date(2024, time.May, 6, 9, 30, 0, 0, time.UTC),
			End:   time.Date(2024, time.May, 6, 11, 0, 0, 0, time.UTC),
			Recurrence: &calendar.Rule{
				Frequency: calendar.FreqWeekly,
				Interval:  2,
				WeekDays:  []int{1},
				Count:     6,
			},
		},
		{
			ID:     "interop-2",
			Title:  "Company holiday",
			AllDay: true,
			Start:  time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	raw := testEncoder().Encode(events)

	cal, err := goical.NewDecoder(bytes.NewReader(raw)).Decode()
	if err != nil {
		t.Fatalf("independent decoder rejected our output: %v\n%s", err, raw)
	}

	var vevents []*goical.Component
	for _, child := range cal.Children {
		if child.Name == goical.CompEvent {
			vevents = append(vevents, child)
		}
	}
	if len(vevents) != 2 {
		t.Fatalf("independent decoder saw %d events, want 2", len(vevents))
	}

	first := vevents[0]
	if got := first.Props.Get(goical.PropUID); got == nil || got.Value != "interop-1" {
		t.Errorf("UID = %v", got)
	}
	if got := first.Props.Get(goical.PropSummary); got == nil || got.Value != "Quarterly review" {
		t.Errorf("SUMMARY = %v", got)
	}
	if got := first.Props.Get(goical.PropRecurrenceRule); got == nil ||
		got.Value != "FREQ=WEEKLY;INTERVAL=2;COUNT=6;BYDAY=MO" {
		t.Errorf("RRULE = %v", got)
	}

	second := vevents[1]
	dtstart := second.Props.Get(goical.PropDateTimeStart)
	if dtstart == nil || dtstart.Value != "20240704" {
		t.Errorf("all-day DTSTART = %v", dtstart)
	}
	if dtstart != nil && dtstart.Params.Get(goical.ParamValue) != "DATE" {
		t.Errorf("all-day DTSTART params = %v", dtstart.Params)
	}
}
