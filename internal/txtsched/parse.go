// Package txtsched reads the hand-written daily lineup files.
//
// A lineup file looks like:
//
//	1
//	Stage1:
//	FooBars @ 2200-2330
//	Other Band @ 0000-0100
//
// The first line is the day of the month. A line ending in ":" names the
// venue for the event lines below it.
package txtsched

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/isaacthefallenapple/sniester/internal/clocktime"
	"github.com/isaacthefallenapple/sniester/internal/model"
)

// UnknownVenue is used for events listed before any venue header.
const UnknownVenue = "?"

var (
	ErrEmptyInput    = errors.New("txtsched: missing day line")
	ErrBadDay        = errors.New("txtsched: day line is not a valid day of the month")
	ErrMalformedLine = errors.New("txtsched: expected a venue header or \"<name> @ HHMM-HHMM\"")
)

// Options places the lineup on the calendar.
type Options struct {
	Year  int
	Month time.Month
	// RolloverHour: clock values before it belong to the next day.
	RolloverHour int
	Location     *time.Location
}

// DefaultOptions matches the 2024 edition: May, Central European Summer
// Time written as a fixed +02:00 offset.
func DefaultOptions() Options {
	return Options{
		Year:         2024,
		Month:        time.May,
		RolloverHour: 13,
		Location:     time.FixedZone("", 2*60*60),
	}
}

// Date returns midnight of the given day of the month.
func (o Options) Date(day int) (time.Time, error) {
	loc := o.Location
	if loc == nil {
		loc = time.UTC
	}
	d := time.Date(o.Year, o.Month, day, 0, 0, 0, 0, loc)
	if day < 1 || d.Day() != day || d.Month() != o.Month {
		return time.Time{}, fmt.Errorf("%w: %d", ErrBadDay, day)
	}
	return d, nil
}

// Lineup is one parsed file.
type Lineup struct {
	Day    int
	Date   time.Time
	Events []model.Event
}

// LineError ties a failure to its 1-based line number.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("txtsched: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ParseFile opens path and parses it.
func ParseFile(path string, opts Options) (Lineup, error) {
	f, err := os.Open(path)
	if err != nil {
		return Lineup{}, err
	}
	defer f.Close()

	lineup, err := Parse(f, opts)
	if err != nil {
		return Lineup{}, fmt.Errorf("%s: %w", path, err)
	}
	return lineup, nil
}

// Parse reads a whole lineup. The first malformed line fails the parse.
func Parse(r io.Reader, opts Options) (Lineup, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Lineup{}, err
		}
		return Lineup{}, ErrEmptyInput
	}
	first := strings.TrimSpace(sc.Text())
	day, err := strconv.Atoi(first)
	if err != nil {
		return Lineup{}, &LineError{Line: 1, Text: first, Err: fmt.Errorf("%w: %v", ErrBadDay, err)}
	}
	date, err := opts.Date(day)
	if err != nil {
		return Lineup{}, &LineError{Line: 1, Text: first, Err: err}
	}

	lineup := Lineup{Day: day, Date: date, Events: make([]model.Event, 0)}
	venue := UnknownVenue

	for n := 2; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if v, ok := strings.CutSuffix(line, ":"); ok {
			venue = strings.TrimSpace(v)
			continue
		}

		ev, err := parseEvent(line, venue, date, opts.RolloverHour)
		if err != nil {
			return Lineup{}, &LineError{Line: n, Text: line, Err: err}
		}
		lineup.Events = append(lineup.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return Lineup{}, err
	}

	return lineup, nil
}

// parseEvent splits "<name> @ HHMM-HHMM". The last "@" separates the slot
// so band names may contain one.
func parseEvent(line, venue string, date time.Time, rollover int) (model.Event, error) {
	i := strings.LastIndex(line, "@")
	if i < 0 {
		return model.Event{}, ErrMalformedLine
	}
	name := strings.TrimSpace(line[:i])
	if name == "" {
		return model.Event{}, fmt.Errorf("%w: empty name", ErrMalformedLine)
	}

	from, to, ok := strings.Cut(line[i+1:], "-")
	if !ok || strings.Contains(to, "-") {
		return model.Event{}, fmt.Errorf("%w: slot must be HHMM-HHMM", ErrMalformedLine)
	}
	start, err := clocktime.ParseCompact(from)
	if err != nil {
		return model.Event{}, err
	}
	end, err := clocktime.ParseCompact(to)
	if err != nil {
		return model.Event{}, err
	}

	return model.Event{
		Name:  name,
		Venue: venue,
		Start: clocktime.On(date, start, rollover),
		End:   clocktime.On(date, end, rollover),
	}, nil
}

// OutputPath swaps the extension of in for ext, e.g. day1.txt -> day1.json.
func OutputPath(in, ext string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}
