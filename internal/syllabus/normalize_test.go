package syllabus

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
)

func TestNormalizeDateOnlyIsAllDayLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	item := model.ExtractedItem{Title: "Assignment 1", Type: "assignment", Date: "2025-09-15", Description: "Intro to C"}

	ev, err := NormalizeIn(item, "COMP 206", loc)
	if err != nil {
		t.Fatalf("NormalizeIn() error = %v", err)
	}
	if !ev.AllDay {
		t.Error("AllDay = false, want true for a bare date")
	}
	want := time.Date(2025, time.September, 15, 0, 0, 0, 0, loc)
	if !ev.StartAt.Equal(want) {
		t.Errorf("StartAt = %v, want %v", ev.StartAt, want)
	}
	if ev.StartAt.Location() != loc {
		t.Errorf("StartAt location = %v, want %v", ev.StartAt.Location(), loc)
	}
}

func TestNormalizeDatetimeKeepsClockTime(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	item := model.ExtractedItem{Title: "Midterm", Type: "exam", Date: "2025-10-20T14:30:00"}

	ev, err := NormalizeIn(item, "COMP 206", loc)
	if err != nil {
		t.Fatalf("NormalizeIn() error = %v", err)
	}
	if ev.AllDay {
		t.Error("AllDay = true, want false for a datetime")
	}
	want := time.Date(2025, time.October, 20, 14, 30, 0, 0, loc)
	if !ev.StartAt.Equal(want) {
		t.Errorf("StartAt = %v, want %v", ev.StartAt, want)
	}
}

func TestNormalizeDefaultsUntitled(t *testing.T) {
	item := model.ExtractedItem{Type: "reading", Date: "2025-09-01"}

	ev, err := NormalizeIn(item, "COMP 206", time.UTC)
	if err != nil {
		t.Fatalf("NormalizeIn() error = %v", err)
	}
	if ev.Title != "Untitled" {
		t.Errorf("Title = %q, want %q", ev.Title, "Untitled")
	}
}

func TestNormalizeEncodesMetadataInNotes(t *testing.T) {
	item := model.ExtractedItem{Title: "Assignment 1", Type: "assignment", Date: "2025-09-15", Description: "Submit on myCourses"}

	ev, err := NormalizeIn(item, "COMP 206", time.UTC)
	if err != nil {
		t.Fatalf("NormalizeIn() error = %v", err)
	}
	userNotes, meta := notes.Decode(ev.Notes)
	if userNotes != "Submit on myCourses" {
		t.Errorf("decoded notes = %q", userNotes)
	}
	if meta.Course != "COMP 206" || meta.Type != "assignment" {
		t.Errorf("decoded meta = %+v", meta)
	}
	if meta.Semester != "" || meta.Weight != "" {
		t.Errorf("semester/weight should be empty, got %+v", meta)
	}
}

func TestNormalizeProducesValidAIEvent(t *testing.T) {
	item := model.ExtractedItem{Title: "Final", Type: "exam", Date: "2025-12-10"}

	ev, err := NormalizeIn(item, "MATH 240", time.UTC)
	if err != nil {
		t.Fatalf("NormalizeIn() error = %v", err)
	}
	if ev.Source != model.SourceAI {
		t.Errorf("Source = %q, want %q", ev.Source, model.SourceAI)
	}
	if strings.TrimSpace(ev.ID) == "" {
		t.Error("ID is empty, want generated id")
	}
	if err := ev.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNormalizeBadDate(t *testing.T) {
	item := model.ExtractedItem{Title: "TBD", Type: "exam", Date: "sometime in April"}

	_, err := NormalizeIn(item, "COMP 206", time.UTC)
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("NormalizeIn() error = %v, want ErrBadDate", err)
	}
}

func TestNormalizeAllDropsBadDates(t *testing.T) {
	items := []model.ExtractedItem{
		{Title: "A", Type: "assignment", Date: "2025-09-01"},
		{Title: "B", Type: "exam", Date: "not a date"},
		{Title: "C", Type: "reading", Date: "2025-09-03"},
	}

	events := NormalizeAll(items, "COMP 206", time.UTC)
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Title != "A" || events[1].Title != "C" {
		t.Errorf("titles = %q, %q", events[0].Title, events[1].Title)
	}
}
