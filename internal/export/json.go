package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/isaacthefallenapple/sniester/internal/model"
)

// WriteJSON writes events as a single JSON array followed by a newline.
// An empty schedule is written as [] rather than null.
func WriteJSON(w io.Writer, events []model.Event, layout string) error {
	records := make([]model.Record, 0, len(events))
	for _, ev := range events {
		records = append(records, ev.Record(layout))
	}

	enc := json.NewEncoder(w)
	// Band names like "Nick Cave & The Bad Seeds" stay readable.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

// ReadJSON is the inverse of WriteJSON.
func ReadJSON(r io.Reader, layout string, loc *time.Location) ([]model.Event, error) {
	var records []model.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("export: decode json: %w", err)
	}

	events := make([]model.Event, 0, len(records))
	for _, rec := range records {
		ev, err := rec.Event(layout, loc)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
