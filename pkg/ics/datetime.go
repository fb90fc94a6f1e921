package ics

import (
	"strings"
	"time"
)

const (
	dateLayout      = "20060102"
	localTimeLayout = "20060102T150405"
	utcTimeLayout   = "20060102T150405Z"
)

// parseDateTime reads the three RFC 5545 date-time shapes: bare dates,
// floating local date-times and UTC date-times suffixed with Z. Floating
// values are carried in UTC; the event's own timezone field names the zone
// they are interpreted against.
func parseDateTime(s string) (t time.Time, isDate bool, err error) {
	s = strings.TrimSpace(s)

	if len(s) == len(dateLayout) {
		t, err = time.Parse(dateLayout, s)
		return t, true, err
	}
	if strings.HasSuffix(s, "Z") {
		t, err = time.Parse(utcTimeLayout, s)
		return t, false, err
	}
	if len(s) == len(localTimeLayout) {
		t, err = time.Parse(localTimeLayout, s)
		return t, false, err
	}

	t, err = time.Parse(time.RFC3339, s)
	return t, false, err
}

// parseDateTimeList reads a comma-separated EXDATE/RDATE value, dropping
// unparseable entries.
func parseDateTimeList(s string) []time.Time {
	var out []time.Time
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, _, err := parseDateTime(part)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func formatDateTime(t time.Time, asDate bool) string {
	if asDate {
		return t.Format(dateLayout)
	}
	return t.Format(localTimeLayout)
}

func formatDateTimeList(ts []time.Time, asDate bool) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = formatDateTime(t, asDate)
	}
	return strings.Join(parts, ",")
}
