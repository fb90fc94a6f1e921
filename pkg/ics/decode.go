package ics

import (
	"github.com/calweave/calweave/pkg/caldate"
	"github.com/calweave/calweave/pkg/calendar"
)

// Decode parses RFC 5545 text into events. The reader is permissive, not
// validating: unknown keys are preserved in the event's Extra map, lines
// outside any VEVENT block are ignored, and malformed fragments are skipped.
// There is no hard-fail mode; callers wanting strictness run the validator on
// the result.
func Decode(data []byte) []calendar.Event {
	var events []calendar.Event
	var cur *calendar.Event

	for _, line := range unfoldLines(string(data)) {
		name, params, value, ok := splitContentLine(line)
		if !ok {
			continue
		}

		switch name {
		case "BEGIN":
			if value == "VEVENT" {
				cur = &calendar.Event{}
			}
			continue
		case "END":
			if value == "VEVENT" && cur != nil {
				events = append(events, *cur)
				cur = nil
			}
			continue
		}

		if cur == nil {
			continue
		}
		applyProp(cur, name, params, value)
	}

	return events
}

func applyProp(ev *calendar.Event, name string, params map[string]string, value string) {
	switch name {
	case "UID":
		ev.ID = value
	case "SUMMARY":
		ev.Title = unescapeText(value)
	case "DESCRIPTION":
		ev.Description = unescapeText(value)
	case "LOCATION":
		ev.Location = unescapeText(value)
	case "URL":
		ev.URL = unescapeText(value)
	case ColorProp:
		ev.Color = unescapeText(value)
	case "DTSTART":
		t, isDate, err := parseDateTime(value)
		if err != nil {
			return
		}
		ev.Start = t
		if isDate || params["VALUE"] == "DATE" {
			ev.AllDay = true
		}
		if tz := params["TZID"]; tz != "" {
			ev.Timezone = tz
		}
	case "DTEND":
		t, isDate, err := parseDateTime(value)
		if err != nil {
			return
		}
		if isDate || params["VALUE"] == "DATE" {
			// Exported all-day ends are exclusive; undo the one-day shift.
			ev.End = caldate.AddDays(t, -1)
			ev.AllDay = true
		} else {
			ev.End = t
		}
	case "RRULE":
		ev.Recurrence = ParseRRule(value)
	case "EXDATE":
		ev.ExDates = append(ev.ExDates, parseDateTimeList(value)...)
	case "RDATE":
		ev.RDates = append(ev.RDates, parseDateTimeList(value)...)
	case "RECURRENCE-ID":
		t, _, err := parseDateTime(value)
		if err != nil {
			return
		}
		ev.RecurrenceID = &t
	case "STATUS":
		ev.Status = value
	case "TRANSP":
		ev.Transparency = value
	case "DTSTAMP", "SEQUENCE", "CREATED", "LAST-MODIFIED":
		// Generation metadata, recomputed on export.
	default:
		if ev.Extra == nil {
			ev.Extra = make(map[string]string)
		}
		ev.Extra[name] = unescapeText(value)
	}
}
