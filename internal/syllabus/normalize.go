package syllabus

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
)

const defaultTitle = "Untitled"

// dateFormats are tried in order. A bare date makes the event all-day at
// local midnight; the datetime forms carry their own clock time.
var dateFormats = []struct {
	layout string
	allDay bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", true},
}

// NormalizeIn converts one extracted item into a canonical event in the
// given location. The course and advisory type travel inside the notes
// metadata block rather than as their own columns.
func NormalizeIn(item model.ExtractedItem, course string, loc *time.Location) (model.Event, error) {
	start, allDay, err := parseItemDate(item.Date, loc)
	if err != nil {
		return model.Event{}, err
	}

	title := item.Title
	if title == "" {
		title = defaultTitle
	}

	return model.Event{
		ID:      uuid.NewString(),
		Title:   title,
		StartAt: start,
		AllDay:  allDay,
		Notes: notes.Encode(item.Description, model.EventMetadata{
			Course: course,
			Type:   item.Type,
		}),
		Source: model.SourceAI,
	}, nil
}

// Normalize is NormalizeIn in the process-local timezone.
func Normalize(item model.ExtractedItem, course string) (model.Event, error) {
	return NormalizeIn(item, course, time.Local)
}

// NormalizeAll converts a batch, dropping items whose date cannot be parsed.
// Surviving events keep the input order.
func NormalizeAll(items []model.ExtractedItem, course string, loc *time.Location) []model.Event {
	out := make([]model.Event, 0, len(items))
	for _, item := range items {
		ev, err := NormalizeIn(item, course, loc)
		if err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func parseItemDate(value string, loc *time.Location) (time.Time, bool, error) {
	for _, f := range dateFormats {
		t, err := time.ParseInLocation(f.layout, value, loc)
		if err != nil {
			continue
		}
		if f.allDay {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		}
		return t, f.allDay, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrBadDate, value)
}
