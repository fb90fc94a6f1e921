// Package calendar defines the event and recurrence rule model shared by the
// view, expansion and codec packages, together with the structural validator.
package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/calweave/calweave/pkg/caldate"
)

// Event is a single calendar entry. Start and End are wall-clock instants
// interpreted against Timezone (or the owning calendar's zone when empty).
// A nil Recurrence means the event never repeats.
type Event struct {
	ID    string
	Title string

	Start  time.Time
	End    time.Time
	AllDay bool

	Description string
	Location    string
	URL         string
	Color       string

	// Timezone is an IANA zone name; empty means the calendar default.
	Timezone string

	Recurrence *Rule

	// ExDates and RDates carry EXDATE/RDATE instants for recurring events.
	// They are round-tripped by the codec and not consulted by expansion.
	ExDates []time.Time
	RDates  []time.Time

	// RecurrenceID marks this record as an override of one occurrence of
	// another recurring event.
	RecurrenceID *time.Time

	Status       string
	Transparency string

	// Extra holds unrecognized attributes, preserved verbatim through
	// import/export and never interpreted.
	Extra map[string]string
}

// NewEvent creates an event with a generated unique id.
func NewEvent(title string, start, end time.Time) Event {
	return Event{
		ID:    uuid.NewString(),
		Title: title,
		Start: start,
		End:   end,
	}
}

// Duration returns the span between Start and End.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// OverlapsRange reports whether the event's interval intersects the inclusive
// range [start, end]. All-day events are compared at day granularity.
func (e Event) OverlapsRange(start, end time.Time) bool {
	evStart, evEnd := e.Start, e.End
	if e.AllDay {
		evStart = caldate.StartOfDay(evStart)
		evEnd = caldate.EndOfDay(evEnd)
	}
	return !evStart.After(end) && !evEnd.Before(start)
}

// Clone returns a deep copy. Operations on events never mutate in place;
// they return fresh records built from clones.
func (e Event) Clone() Event {
	out := e
	if e.Recurrence != nil {
		r := e.Recurrence.Clone()
		out.Recurrence = &r
	}
	if e.ExDates != nil {
		out.ExDates = append([]time.Time(nil), e.ExDates...)
	}
	if e.RDates != nil {
		out.RDates = append([]time.Time(nil), e.RDates...)
	}
	if e.RecurrenceID != nil {
		rid := *e.RecurrenceID
		out.RecurrenceID = &rid
	}
	if e.Extra != nil {
		out.Extra = make(map[string]string, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
