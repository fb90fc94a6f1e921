package recur

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/calweave/calweave/pkg/calendar"
	"github.com/calweave/calweave/pkg/ics"
)

// ExpandRaw expands rules whose shape the structured engine does not
// interpret (BYSETPOS, BYYEARDAY, BYWEEKNO and friends) by handing the wire
// form to the rrule library. The same candidate ceiling and range overlap
// semantics apply. Structured rules should go through Expand instead.
func ExpandRaw(ev calendar.Event, rangeStart, rangeEnd time.Time) ([]calendar.Event, error) {
	rule := ev.Recurrence
	if rule == nil {
		return nil, nil
	}

	src := "DTSTART:" + ev.Start.UTC().Format(instanceIDFormat) + "\nRRULE:" + ics.FormatRRule(*rule)
	r, err := rrule.StrToRRule(src)
	if err != nil {
		return nil, fmt.Errorf("parse rrule: %w", err)
	}

	duration := ev.Duration()
	times := r.Between(rangeStart.Add(-duration), rangeEnd, true)
	if len(times) > MaxCandidates {
		times = times[:MaxCandidates]
	}

	out := make([]calendar.Event, 0, len(times))
	for _, t := range times {
		end := t.Add(duration)
		if t.After(rangeEnd) || end.Before(rangeStart) {
			continue
		}
		out = append(out, newInstance(ev, t, duration))
	}
	return out, nil
}
