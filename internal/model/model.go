package model

import (
	"fmt"
	"time"
)

// Timestamp layouts used on the wire.
const (
	// LayoutFloating carries no offset; the reader decides the zone.
	LayoutFloating = "2006-01-02T15:04:05"
	// LayoutOffset carries an explicit UTC offset.
	LayoutOffset = time.RFC3339
)

// Event is one performance slot: a band playing a venue between Start and
// End. Events are built once by a parser and never mutated.
type Event struct {
	Name  string
	Venue string

	Start time.Time
	End   time.Time
}

// Record is the JSON shape of an Event.
type Record struct {
	Name      string `json:"name"`
	Venue     string `json:"venue"`
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
}

// Record renders e with timestamps formatted using layout.
func (e Event) Record(layout string) Record {
	return Record{
		Name:      e.Name,
		Venue:     e.Venue,
		StartTime: e.Start.Format(layout),
		EndTime:   e.End.Format(layout),
	}
}

// Event parses r back into an Event. loc is only consulted for layouts
// without an offset.
func (r Record) Event(layout string, loc *time.Location) (Event, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(layout, r.StartTime, loc)
	if err != nil {
		return Event{}, fmt.Errorf("model: starttime of %q: %w", r.Name, err)
	}
	end, err := time.ParseInLocation(layout, r.EndTime, loc)
	if err != nil {
		return Event{}, fmt.Errorf("model: endtime of %q: %w", r.Name, err)
	}
	return Event{
		Name:  r.Name,
		Venue: r.Venue,
		Start: start,
		End:   end,
	}, nil
}
