package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/isaacthefallenapple/sniester/internal/model"
)

const (
	productID      = "-//sniester//festival schedule//EN"
	floatingLayout = "20060102T150405"
)

// uidNamespace scopes the name-based UIDs of exported events.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/isaacthefallenapple/sniester"))

// ICSOptions controls the calendar export.
type ICSOptions struct {
	// Name becomes X-WR-CALNAME.
	Name string
	// Floating writes DTSTART/DTEND without a zone, for schedules whose
	// timestamps carry no offset.
	Floating bool
	// Stamp is used for DTSTAMP; zero means now.
	Stamp time.Time
}

// WriteICS writes events as an iCalendar feed with one VEVENT per event.
func WriteICS(w io.Writer, events []model.Event, opts ICSOptions) error {
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, ev := range events {
		ve := cal.AddEvent(EventUID(ev))
		ve.SetDtStampTime(stamp)
		if opts.Floating {
			ve.SetProperty(ical.ComponentPropertyDtStart, ev.Start.Format(floatingLayout))
			ve.SetProperty(ical.ComponentPropertyDtEnd, ev.End.Format(floatingLayout))
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
		ve.SetSummary(ev.Name)
		ve.SetLocation(ev.Venue)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("export: serialize ics: %w", err)
	}
	return nil
}

// EventUID derives a stable UID from the event's fields, so re-exporting an
// unchanged schedule lets calendar clients update in place.
func EventUID(ev model.Event) string {
	key := ev.Name + "\x00" + ev.Venue + "\x00" + ev.Start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@sniester"
}
