package engine

import "time"

// ConvertWall reinterprets t's wall-clock fields from one zone and expresses
// the resulting instant in another. It is the only place the engine touches
// the host timezone database; the core packages treat instants as opaque.
func ConvertWall(t time.Time, from, to *time.Location) time.Time {
	if from == nil {
		from = time.UTC
	}
	if to == nil {
		to = time.UTC
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from)
	return wall.In(to)
}

// OffsetAt returns the zone's UTC offset in seconds at instant t.
func OffsetAt(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	_, offset := t.In(loc).Zone()
	return offset
}

// CurrentOffset returns the zone's UTC offset in seconds right now.
func CurrentOffset(loc *time.Location) int {
	return OffsetAt(time.Now(), loc)
}
