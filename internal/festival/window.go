// Package festival checks parsed events against the festival's dates.
package festival

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "github.com/isaacthefallenapple/sniester/internal/log"
	"github.com/isaacthefallenapple/sniester/internal/model"
)

// Window is the span a festival's events may occupy: from midnight of the
// first day until the rollover hour after the last day, which is where the
// overnight rule stops pulling clock values forward.
type Window struct {
	Days     []time.Time
	Start    time.Time
	End      time.Time
	Rollover int
}

// NewWindow lists days consecutive festival days starting at first.
func NewWindow(first time.Time, days, rolloverHour int) (Window, error) {
	if days <= 0 {
		return Window{}, fmt.Errorf("festival: day count must be positive, got %d", days)
	}

	first = time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   days,
		Dtstart: first,
	})
	if err != nil {
		return Window{}, fmt.Errorf("festival: build day rule: %w", err)
	}

	all := r.All()
	if len(all) == 0 {
		return Window{}, errors.New("festival: day rule produced no days")
	}
	last := all[len(all)-1]

	return Window{
		Days:     all,
		Start:    first,
		End:      time.Date(last.Year(), last.Month(), last.Day()+1, rolloverHour, 0, 0, 0, last.Location()),
		Rollover: rolloverHour,
	}, nil
}

// Contains reports whether t lies inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// NearestDay returns the 1-based festival day whose programme is closest to
// t. A day's programme runs from its midnight until the rollover hour of the
// next calendar day; an instant inside that span has distance zero.
func (w Window) NearestDay(t time.Time) (int, time.Time) {
	if len(w.Days) == 0 {
		return 0, time.Time{}
	}

	best, bestDist := 0, time.Duration(-1)
	for i, d := range w.Days {
		from := d
		to := time.Date(d.Year(), d.Month(), d.Day()+1, w.Rollover, 0, 0, 0, d.Location())

		var dist time.Duration
		switch {
		case t.Before(from):
			dist = from.Sub(t)
		case t.After(to):
			dist = t.Sub(to)
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best + 1, w.Days[best]
}

// Finding describes an event that breaks the schedule's invariants. Day is
// the festival day the event's start is nearest to.
type Finding struct {
	Event  model.Event
	Reason string
	Day    int
}

func (f Finding) Error() string {
	return fmt.Sprintf("festival: %q at %q (%s - %s, near day %d): %s",
		f.Event.Name, f.Event.Venue,
		f.Event.Start.Format(time.RFC3339), f.Event.End.Format(time.RFC3339),
		f.Day, f.Reason)
}

// Check returns one Finding per event that does not start before it ends
// or falls outside the window.
func (w Window) Check(events []model.Event) []Finding {
	var out []Finding
	for _, ev := range events {
		day, _ := w.NearestDay(ev.Start)
		switch {
		case !ev.Start.Before(ev.End):
			out = append(out, Finding{Event: ev, Reason: "does not start before it ends", Day: day})
		case !w.Contains(ev.Start) || !w.Contains(ev.End):
			out = append(out, Finding{Event: ev, Reason: "outside the festival window", Day: day})
		}
	}
	return out
}

// Enforce logs every finding as a warning. In strict mode the findings are
// also returned as a joined error.
func (w Window) Enforce(events []model.Event, strict bool) error {
	findings := w.Check(events)
	if len(findings) == 0 {
		return nil
	}

	errs := make([]error, 0, len(findings))
	for _, f := range findings {
		appLog.Warn("suspicious event",
			"name", f.Event.Name,
			"venue", f.Event.Venue,
			"start", f.Event.Start.Format(time.RFC3339),
			"end", f.Event.End.Format(time.RFC3339),
			"reason", f.Reason,
			"nearest_day", f.Day,
		)
		errs = append(errs, f)
	}

	if strict {
		return errors.Join(errs...)
	}
	return nil
}
