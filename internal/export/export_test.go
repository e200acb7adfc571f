package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/isaacthefallenapple/sniester/internal/model"
)

var cest = time.FixedZone("", 2*60*60)

func sampleEvents(loc *time.Location) []model.Event {
	return []model.Event{
		{
			Name:  "Nick Cave & The Bad Seeds",
			Venue: "Main",
			Start: time.Date(2024, 5, 1, 22, 0, 0, 0, loc),
			End:   time.Date(2024, 5, 1, 23, 30, 0, 0, loc),
		},
		{
			Name:  "FooBars",
			Venue: "Stage1",
			Start: time.Date(2024, 5, 1, 23, 45, 0, 0, loc),
			End:   time.Date(2024, 5, 2, 0, 45, 0, 0, loc),
		},
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleEvents(cest)[1:], model.LayoutOffset); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := `[{"name":"FooBars","venue":"Stage1","starttime":"2024-05-01T23:45:00+02:00","endtime":"2024-05-02T00:45:00+02:00"}]` + "\n"
	if buf.String() != want {
		t.Fatalf("expected %s, got %s", want, buf.String())
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil, model.LayoutOffset); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("expected [], got %q", buf.String())
	}
}

func TestWriteJSONKeepsAmpersand(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleEvents(cest)[:1], model.LayoutOffset); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Nick Cave & The Bad Seeds") {
		t.Fatalf("expected unescaped ampersand, got %s", buf.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		loc    *time.Location
	}{
		{"offset", model.LayoutOffset, cest},
		{"floating", model.LayoutFloating, time.UTC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleEvents(tt.loc)

			var buf bytes.Buffer
			if err := WriteJSON(&buf, in, tt.layout); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out, err := ReadJSON(&buf, tt.layout, tt.loc)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(out) != len(in) {
				t.Fatalf("expected %d events, got %d", len(in), len(out))
			}
			for i := range in {
				if in[i].Name != out[i].Name || in[i].Venue != out[i].Venue ||
					!in[i].Start.Equal(out[i].Start) || !in[i].End.Equal(out[i].End) {
					t.Fatalf("event %d: expected %+v, got %+v", i, in[i], out[i])
				}
			}
		})
	}
}

func TestReadJSONRejectsGarbage(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"name":1}`), model.LayoutOffset, nil); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestWriteICS(t *testing.T) {
	events := sampleEvents(cest)
	stamp := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteICS(&buf, events, ICSOptions{Name: "day1", Stamp: stamp}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cal, err := ical.ParseCalendar(&buf)
	if err != nil {
		t.Fatalf("expected parseable calendar, got %v", err)
	}

	vevents := cal.Events()
	if len(vevents) != len(events) {
		t.Fatalf("expected %d VEVENTs, got %d", len(events), len(vevents))
	}

	for i, ve := range vevents {
		if got := ve.GetProperty(ical.ComponentPropertySummary).Value; got != events[i].Name {
			t.Fatalf("event %d: expected summary %q, got %q", i, events[i].Name, got)
		}
		if got := ve.GetProperty(ical.ComponentPropertyLocation).Value; got != events[i].Venue {
			t.Fatalf("event %d: expected location %q, got %q", i, events[i].Venue, got)
		}
		if got := ve.GetProperty(ical.ComponentPropertyUniqueId).Value; got != EventUID(events[i]) {
			t.Fatalf("event %d: expected uid %q, got %q", i, EventUID(events[i]), got)
		}
		start, err := ve.GetStartAt()
		if err != nil {
			t.Fatalf("event %d: expected start, got %v", i, err)
		}
		if !start.Equal(events[i].Start) {
			t.Fatalf("event %d: expected start %v, got %v", i, events[i].Start, start)
		}
	}
}

func TestWriteICSFloating(t *testing.T) {
	events := sampleEvents(time.UTC)[1:]

	var buf bytes.Buffer
	if err := WriteICS(&buf, events, ICSOptions{Floating: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cal, err := ical.ParseCalendar(&buf)
	if err != nil {
		t.Fatalf("expected parseable calendar, got %v", err)
	}
	ve := cal.Events()[0]
	if got := ve.GetProperty(ical.ComponentPropertyDtStart).Value; got != "20240501T234500" {
		t.Fatalf("expected floating DTSTART, got %q", got)
	}
	if got := ve.GetProperty(ical.ComponentPropertyDtEnd).Value; got != "20240502T004500" {
		t.Fatalf("expected floating DTEND, got %q", got)
	}
}

func TestEventUIDStable(t *testing.T) {
	a := sampleEvents(cest)[0]
	b := a
	b.Start = a.Start.UTC()
	if EventUID(a) != EventUID(b) {
		t.Fatalf("expected UID to ignore location")
	}

	c := a
	c.Venue = "Other"
	if EventUID(a) == EventUID(c) {
		t.Fatalf("expected UID to change with venue")
	}
}
