package ics

import (
	"sort"
	"strings"
	"time"

	"github.com/calweave/calweave/pkg/caldate"
	"github.com/calweave/calweave/pkg/calendar"
)

// ColorProp carries the event display color, which RFC 5545 has no field for.
const ColorProp = "X-CALWEAVE-COLOR"

// Encoder serializes event collections into VCALENDAR documents.
type Encoder struct {
	// ProdID identifies the producing application, e.g.
	// "-//calweave//calweave 1.0//EN".
	ProdID string

	// Now supplies the DTSTAMP generation timestamp; nil means time.Now.
	Now func() time.Time
}

// NewEncoder returns an encoder with the given product id.
func NewEncoder(prodID string) *Encoder {
	return &Encoder{ProdID: prodID}
}

// Encode writes the collection as RFC 5545 text: one VEVENT per event in
// input order, fields in a fixed order, CRLF endings, 75-octet folding.
// Output is deterministic for a fixed Now, so exports diff cleanly.
func (e *Encoder) Encode(events []calendar.Event) []byte {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	stamp := now().UTC().Format(utcTimeLayout)

	var lines []string
	push := func(line string) {
		lines = append(lines, foldLine(line)...)
	}

	push("BEGIN:VCALENDAR")
	push("VERSION:2.0")
	push("PRODID:" + e.ProdID)
	push("CALSCALE:GREGORIAN")
	push("METHOD:PUBLISH")

	for _, ev := range events {
		push("BEGIN:VEVENT")
		push("UID:" + ev.ID)
		push("DTSTAMP:" + stamp)

		if ev.AllDay {
			push("DTSTART;VALUE=DATE:" + formatDateTime(ev.Start, true))
			// iCalendar all-day DTEND is exclusive, so the end date moves
			// forward one day on the way out.
			push("DTEND;VALUE=DATE:" + formatDateTime(caldate.AddDays(ev.End, 1), true))
		} else {
			push("DTSTART:" + formatDateTime(ev.Start, false))
			push("DTEND:" + formatDateTime(ev.End, false))
		}

		push("SUMMARY:" + escapeText(ev.Title))
		if ev.Description != "" {
			push("DESCRIPTION:" + escapeText(ev.Description))
		}
		if ev.Location != "" {
			push("LOCATION:" + escapeText(ev.Location))
		}
		if ev.URL != "" {
			push("URL:" + escapeText(ev.URL))
		}
		if ev.Color != "" {
			push(ColorProp + ":" + escapeText(ev.Color))
		}
		if ev.Recurrence != nil {
			push("RRULE:" + FormatRRule(*ev.Recurrence))
		}
		if len(ev.ExDates) > 0 {
			push("EXDATE:" + formatDateTimeList(ev.ExDates, ev.AllDay))
		}
		if len(ev.RDates) > 0 {
			push("RDATE:" + formatDateTimeList(ev.RDates, ev.AllDay))
		}
		if ev.RecurrenceID != nil {
			push("RECURRENCE-ID:" + formatDateTime(*ev.RecurrenceID, ev.AllDay))
		}
		if ev.Status != "" {
			push("STATUS:" + strings.ToUpper(ev.Status))
		}
		if ev.Transparency != "" {
			push("TRANSP:" + strings.ToUpper(ev.Transparency))
		}
		for _, key := range sortedKeys(ev.Extra) {
			push(strings.ToUpper(key) + ":" + escapeText(ev.Extra[key]))
		}

		push("END:VEVENT")
	}

	push("END:VCALENDAR")

	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
