// Package csvsched reads the venue-by-time-slot grid exported from the
// festival's timetable spreadsheet.
//
// The first CSV record is the header: one "venue" column plus one column per
// time slot, labelled "HH:MM". Every other record is one venue's day. A cell
// holds the name of the band playing that slot, repeats the name while the
// set continues, or is empty.
package csvsched

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/isaacthefallenapple/sniester/internal/clocktime"
	appLog "github.com/isaacthefallenapple/sniester/internal/log"
	"github.com/isaacthefallenapple/sniester/internal/model"
)

// VenueColumn is the header label of the venue column.
const VenueColumn = "venue"

var (
	ErrEmptyInput    = errors.New("csvsched: input has no header row")
	ErrNoVenueColumn = errors.New("csvsched: header has no venue column")
)

// EndSlot selects which slot label closes an event when the cell changes.
type EndSlot string

const (
	// EndPrevious closes at the label of the last slot the event occupied.
	EndPrevious EndSlot = "previous"
	// EndCurrent closes at the label of the slot where the change is seen.
	EndCurrent EndSlot = "current"
)

// Options controls how slot labels become timestamps.
type Options struct {
	// BaseDate is festival day 1 at midnight; its location is used for
	// every timestamp.
	BaseDate time.Time
	// RolloverHour: slot hours before it belong to BaseDate + 1 day.
	RolloverHour int
	// Uppercase upper-cases band and venue names.
	Uppercase bool
	EndSlot   EndSlot
}

// DefaultOptions matches the 2025 timetable: day 1 is Friday 23 May.
func DefaultOptions() Options {
	return Options{
		BaseDate:     time.Date(2025, time.May, 23, 0, 0, 0, 0, time.UTC),
		RolloverHour: 12,
		Uppercase:    true,
		EndSlot:      EndPrevious,
	}
}

// Slot is one parsed header column.
type Slot struct {
	Label string
	Clock clocktime.Clock
}

// RowError ties a failure to its 1-based CSV record number (the header is 1).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("csvsched: row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Parse reads a whole grid and returns the events of every row in input
// order. Any malformed header, label or record aborts the parse.
func Parse(r io.Reader, opts Options) ([]model.Event, error) {
	// FieldsPerRecord stays 0, so every row must have as many cells as the
	// header. A short or long row fails with csv.ErrFieldCount instead of
	// being padded with empty cells.
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, &RowError{Row: 1, Err: err}
	}

	venueCol, slots, err := ParseHeader(header)
	if err != nil {
		return nil, &RowError{Row: 1, Err: err}
	}

	events := make([]model.Event, 0)
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}

		cells := make([]string, 0, len(rec)-1)
		cells = append(cells, rec[:venueCol]...)
		cells = append(cells, rec[venueCol+1:]...)

		events = append(events, ParseRow(slots, rec[venueCol], cells, opts)...)
	}

	appLog.Debug("csvsched: parse completed", "slots", len(slots), "event_count", len(events))
	return events, nil
}

// ParseHeader locates the venue column and parses every other label as a
// time slot, keeping column order.
func ParseHeader(header []string) (int, []Slot, error) {
	venueCol := -1
	slots := make([]Slot, 0, len(header))

	for i, label := range header {
		label = strings.TrimSpace(label)
		if label == VenueColumn && venueCol < 0 {
			venueCol = i
			continue
		}
		c, err := clocktime.ParseColon(label)
		if err != nil {
			return 0, nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		slots = append(slots, Slot{Label: label, Clock: c})
	}

	if venueCol < 0 {
		return 0, nil, ErrNoVenueColumn
	}
	return venueCol, slots, nil
}

// ParseRow rebuilds one venue's events from its cells, which line up with
// slots. An event still running in the last column is dropped, as the
// timetable gives it no closing label.
func ParseRow(slots []Slot, venue string, cells []string, opts Options) []model.Event {
	var (
		events []model.Event
		name   string
		open   bool
		start  int
	)

	n := min(len(slots), len(cells))
	for i := 0; i < n; i++ {
		cell := strings.TrimSpace(cells[i])

		switch {
		case !open && cell == "":
			continue
		case !open:
			name, start, open = cell, i, true
		case cell != name:
			end := i
			if opts.EndSlot != EndCurrent {
				end = i - 1
			}
			events = append(events, opts.event(name, venue, slots[start], slots[end]))

			if cell == "" {
				name, open = "", false
			} else {
				name, start = cell, i
			}
		}
	}

	if open {
		appLog.Debug("csvsched: dropping event still open at end of row",
			"venue", venue, "name", name, "start", slots[start].Label)
	}
	return events
}

func (o Options) event(name, venue string, from, to Slot) model.Event {
	venue = strings.TrimSpace(venue)
	if o.Uppercase {
		name = strings.ToUpper(name)
		venue = strings.ToUpper(venue)
	}
	return model.Event{
		Name:  name,
		Venue: venue,
		Start: clocktime.On(o.BaseDate, from.Clock, o.RolloverHour),
		End:   clocktime.On(o.BaseDate, to.Clock, o.RolloverHour),
	}
}
