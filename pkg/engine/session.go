// Package engine ties the view, selection and expansion paths together
// behind a CalendarSession that owns its memoization tables. Multiple
// sessions never share cached state, so independent calendars cannot
// cross-contaminate results.
package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/calweave/calweave/internal/cache"
	"github.com/calweave/calweave/pkg/calendar"
	"github.com/calweave/calweave/pkg/recur"
	"github.com/calweave/calweave/pkg/view"
)

// Config configures a session.
type Config struct {
	// Location is the calendar's display timezone; nil means UTC.
	Location *time.Location

	// WeekStart is the first day of week for view grids.
	WeekStart time.Weekday

	// Logger receives expansion diagnostics. The zero value discards them.
	Logger zerolog.Logger
}

// Session is the one stateful object of the engine. The underlying
// computations stay pure; the session only caches their results keyed by
// their inputs, so concurrent reads are safe.
type Session struct {
	cfg    Config
	gen    atomic.Uint64
	dates  *cache.Cache[string, []time.Time]
	bounds *cache.Cache[string, view.Range]
}

// New creates a session with empty caches.
func New(cfg Config) *Session {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Session{
		cfg:    cfg,
		dates:  cache.New[string, []time.Time](),
		bounds: cache.New[string, view.Range](),
	}
}

// Invalidate drops all memoized results.
func (s *Session) Invalidate() {
	s.gen.Add(1)
	s.dates.Purge()
	s.bounds.Purge()
}

// VisibleDates returns the date sequence rendered by a view, memoized per
// (view kind, anchor day, custom spec).
func (s *Session) VisibleDates(kind view.Kind, anchor time.Time, spec *view.CustomSpec) ([]time.Time, error) {
	key := s.key(kind, anchor, spec)
	if dates, ok := s.dates.Get(key); ok {
		return dates, nil
	}
	dates, err := view.Dates(kind, anchor.In(s.cfg.Location), s.cfg.WeekStart, spec)
	if err != nil {
		return nil, err
	}
	s.dates.Set(key, dates)
	return dates, nil
}

// BoundsFor returns the inclusive event query range of a view.
func (s *Session) BoundsFor(kind view.Kind, anchor time.Time, spec *view.CustomSpec) (view.Range, error) {
	key := s.key(kind, anchor, spec)
	if b, ok := s.bounds.Get(key); ok {
		return b, nil
	}
	b, err := view.Bounds(kind, anchor.In(s.cfg.Location), s.cfg.WeekStart, spec)
	if err != nil {
		return view.Range{}, err
	}
	s.bounds.Set(key, b)
	return b, nil
}

// EventsForView selects the events visible under a view: non-recurring
// events overlapping the bounds as-is, recurring events expanded into their
// occurrence instances inside the bounds. Results are ordered by start time.
func (s *Session) EventsForView(kind view.Kind, anchor time.Time, spec *view.CustomSpec, events []calendar.Event) ([]calendar.Event, error) {
	bounds, err := s.BoundsFor(kind, anchor, spec)
	if err != nil {
		return nil, err
	}
	if bounds.IsZero() {
		return nil, nil
	}

	var out []calendar.Event
	for _, ev := range events {
		if ev.Recurrence == nil {
			if ev.OverlapsRange(bounds.Start, bounds.End) {
				out = append(out, ev)
			}
			continue
		}
		out = append(out, s.expand(ev, bounds)...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// expand runs the structured engine, falling back to the raw-rule path for
// shapes it does not interpret.
func (s *Session) expand(ev calendar.Event, bounds view.Range) []calendar.Event {
	if ev.Recurrence.Structured() {
		return recur.Expand(ev, bounds.Start, bounds.End)
	}
	if ev.Recurrence.Raw.Empty() {
		return nil
	}
	instances, err := recur.ExpandRaw(ev, bounds.Start, bounds.End)
	if err != nil {
		s.cfg.Logger.Warn().Err(err).Str("id", ev.ID).Msg("failed to expand raw recurrence rule")
		return nil
	}
	return instances
}

// key builds the dependency key for the memo tables. The generation prefix
// lets Invalidate orphan concurrent writers racing a purge.
func (s *Session) key(kind view.Kind, anchor time.Time, spec *view.CustomSpec) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(s.gen.Load(), 10))
	b.WriteByte('|')
	b.WriteString(string(kind))
	b.WriteByte('|')
	b.WriteString(anchor.In(s.cfg.Location).Format("20060102"))
	if spec != nil {
		fmt.Fprintf(&b, "|%s|%d|%v", spec.Unit, spec.Count, spec.WeekDays)
	}
	return b.String()
}
