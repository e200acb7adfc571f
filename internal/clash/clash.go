// Package clash finds events booked into the same venue at the same time.
package clash

import (
	"fmt"
	"slices"
	"time"

	"github.com/rdleal/intervalst/interval"

	appLog "github.com/isaacthefallenapple/sniester/internal/log"
	"github.com/isaacthefallenapple/sniester/internal/model"
)

// Clash is a pair of overlapping events at one venue; First comes earlier
// in the input.
type Clash struct {
	Venue  string
	First  model.Event
	Second model.Event
}

type span struct {
	start, end int64
}

// Find returns every overlapping pair per venue, in input order. Events that
// merely touch (one ends when the next starts) do not clash, and events that
// do not start before they end are ignored.
func Find(events []model.Event) ([]Clash, error) {
	venues := make([]string, 0)
	byVenue := make(map[string][]int)
	for i, ev := range events {
		if _, ok := byVenue[ev.Venue]; !ok {
			venues = append(venues, ev.Venue)
		}
		byVenue[ev.Venue] = append(byVenue[ev.Venue], i)
	}

	var out []Clash
	for _, venue := range venues {
		// The tree keys on the interval, so identical spans share one
		// bucket of event indexes.
		tree := interval.NewSearchTree[span](func(x, y time.Time) int { return x.Compare(y) })
		buckets := make(map[span][]int)

		for _, i := range byVenue[venue] {
			ev := events[i]
			if !ev.Start.Before(ev.End) {
				continue
			}

			hits, _ := tree.AllIntersections(ev.Start, ev.End)
			var prior []int
			for _, s := range hits {
				prior = append(prior, buckets[s]...)
			}
			slices.Sort(prior)
			for _, j := range slices.Compact(prior) {
				if overlaps(events[j], ev) {
					out = append(out, Clash{Venue: venue, First: events[j], Second: ev})
				}
			}

			key := span{ev.Start.UnixNano(), ev.End.UnixNano()}
			if _, ok := buckets[key]; !ok {
				if err := tree.Insert(ev.Start, ev.End, key); err != nil {
					return nil, fmt.Errorf("clash: index %q at %q: %w", ev.Name, venue, err)
				}
			}
			buckets[key] = append(buckets[key], i)
		}
	}
	return out, nil
}

func overlaps(a, b model.Event) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Report logs each clash as a warning and returns how many were found.
func Report(events []model.Event) int {
	clashes, err := Find(events)
	if err != nil {
		appLog.Error("clash detection failed", err)
		return 0
	}
	for _, c := range clashes {
		appLog.Warn("venue double-booked",
			"venue", c.Venue,
			"first", c.First.Name,
			"second", c.Second.Name,
			"from", c.Second.Start.Format(time.RFC3339),
		)
	}
	return len(clashes)
}
