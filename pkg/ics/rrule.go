package ics

import (
	"strconv"
	"strings"

	"github.com/calweave/calweave/pkg/calendar"
)

// icalDays maps weekday numbers (0=Sunday..6=Saturday) to RFC 5545 codes.
var icalDays = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// FormatRRule serializes a rule as the value of an RRULE line. Structured
// fields win over the raw pass-through parts covering the same key; raw
// parts the structured model does not cover are emitted verbatim.
func FormatRRule(r calendar.Rule) string {
	parts := []string{"FREQ=" + strings.ToUpper(string(r.Frequency))}

	if r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	if r.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	} else if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.UTC().Format(utcTimeLayout))
	}

	if len(r.WeekDays) > 0 {
		days := make([]string, 0, len(r.WeekDays))
		for _, wd := range r.WeekDays {
			if wd < 0 || wd > 6 {
				continue
			}
			prefix := ""
			if r.WeekOfMonth != 0 {
				prefix = strconv.Itoa(r.WeekOfMonth)
			}
			days = append(days, prefix+icalDays[wd])
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	} else if len(r.Raw.ByDay) > 0 {
		parts = append(parts, "BYDAY="+strings.Join(r.Raw.ByDay, ","))
	}

	if r.MonthDay != 0 {
		parts = append(parts, "BYMONTHDAY="+strconv.Itoa(r.MonthDay))
	} else if len(r.Raw.ByMonthDay) > 0 {
		parts = append(parts, "BYMONTHDAY="+joinInts(r.Raw.ByMonthDay))
	}

	// The wire format is 1-indexed; the month selector is 0-indexed.
	if r.Month != nil {
		parts = append(parts, "BYMONTH="+strconv.Itoa(*r.Month+1))
	} else if len(r.Raw.ByMonth) > 0 {
		parts = append(parts, "BYMONTH="+joinInts(r.Raw.ByMonth))
	}

	if len(r.Raw.ByYearDay) > 0 {
		parts = append(parts, "BYYEARDAY="+joinInts(r.Raw.ByYearDay))
	}
	if len(r.Raw.ByWeekNo) > 0 {
		parts = append(parts, "BYWEEKNO="+joinInts(r.Raw.ByWeekNo))
	}
	if len(r.Raw.BySetPos) > 0 {
		parts = append(parts, "BYSETPOS="+joinInts(r.Raw.BySetPos))
	}
	if r.Raw.WeekStart != "" {
		parts = append(parts, "WKST="+r.Raw.WeekStart)
	}

	return strings.Join(parts, ";")
}

// ParseRRule reads an RRULE value into the structured rule plus raw
// pass-through fields. An empty value means the event never repeats (nil).
func ParseRRule(val string) *calendar.Rule {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}

	r := &calendar.Rule{Interval: 1}
	for _, part := range strings.Split(val, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])

		switch key {
		case "FREQ":
			r.Frequency = calendar.Frequency(strings.ToLower(value))
		case "INTERVAL":
			if n, err := strconv.Atoi(value); err == nil && n >= 1 {
				r.Interval = n
			}
		case "COUNT":
			if n, err := strconv.Atoi(value); err == nil {
				r.Count = n
			}
		case "UNTIL":
			if t, _, err := parseDateTime(value); err == nil {
				r.Until = &t
			}
		case "BYDAY":
			parseByDay(r, value)
		case "BYMONTHDAY":
			vals := splitInts(value)
			if len(vals) == 1 {
				r.MonthDay = vals[0]
			} else if len(vals) > 1 {
				r.Raw.ByMonthDay = vals
			}
		case "BYMONTH":
			vals := splitInts(value)
			if len(vals) == 1 {
				m := vals[0] - 1
				r.Month = &m
			} else if len(vals) > 1 {
				r.Raw.ByMonth = vals
			}
		case "BYYEARDAY":
			r.Raw.ByYearDay = splitInts(value)
		case "BYWEEKNO":
			r.Raw.ByWeekNo = splitInts(value)
		case "BYSETPOS":
			r.Raw.BySetPos = splitInts(value)
		case "WKST":
			r.Raw.WeekStart = value
		}
	}
	return r
}

// parseByDay maps BYDAY tokens onto the structured weekday fields when they
// fit (plain days, or a shared nth-week prefix); anything else lands in the
// raw list untouched.
func parseByDay(r *calendar.Rule, value string) {
	tokens := strings.Split(value, ",")
	var days []int
	week := 0
	structured := true

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if len(tok) < 2 {
			structured = false
			break
		}
		prefix, code := tok[:len(tok)-2], tok[len(tok)-2:]
		day := dayIndex(code)
		if day < 0 {
			structured = false
			break
		}
		n := 0
		if prefix != "" {
			v, err := strconv.Atoi(prefix)
			if err != nil {
				structured = false
				break
			}
			n = v
		}
		if i == 0 {
			week = n
		} else if n != week {
			structured = false
			break
		}
		days = append(days, day)
	}

	if structured {
		r.WeekDays = days
		r.WeekOfMonth = week
		return
	}
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	r.Raw.ByDay = tokens
}

func dayIndex(code string) int {
	for i, d := range icalDays {
		if d == strings.ToUpper(code) {
			return i
		}
	}
	return -1
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
