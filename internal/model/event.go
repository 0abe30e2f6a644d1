package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidSource = errors.New("model: invalid event source")
	ErrInvalidRange  = errors.New("model: event end is before start")
)

// Source records where an event came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceAI     Source = "ai"
	SourceSync   Source = "sync"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceAI, SourceSync:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

var examKeywords = []string{"exam", "midterm", "final", "quiz", "test"}

// PriorityForType maps an event type string to a display priority.
// Exam-like types are high, everything else medium.
func PriorityForType(eventType string) Priority {
	t := strings.ToLower(eventType)
	for _, kw := range examKeywords {
		if strings.Contains(t, kw) {
			return PriorityHigh
		}
	}
	return PriorityMedium
}

// Event is the canonical persisted calendar record. Academic metadata
// (course, type, semester, weight) is not modeled as columns; it lives inside
// Notes as a block encoded by the notes package.
type Event struct {
	ID      string
	Title   string
	StartAt time.Time
	EndAt   *time.Time
	// AllDay means StartAt anchors a local calendar date and its
	// time-of-day carries no meaning.
	AllDay bool
	Notes  string
	Source Source
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if e.StartAt.IsZero() {
		return errors.New("model: event start_at is required")
	}
	if e.EndAt != nil && e.EndAt.Before(e.StartAt) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange, e.StartAt.Format(time.RFC3339), e.EndAt.Format(time.RFC3339))
	}
	if !e.Source.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSource, e.Source)
	}
	return nil
}

// EventMetadata is the structured academic metadata multiplexed into an
// event's notes. Empty string means unset; decoding never yields a missing
// field. Weight stays a string to preserve user formatting such as "10%".
type EventMetadata struct {
	Course   string
	Type     string
	Semester string
	Weight   string
}

func (m EventMetadata) IsZero() bool {
	return m.Course == "" && m.Type == "" && m.Semester == "" && m.Weight == ""
}

// ExtractedItem is one entry returned by the syllabus extraction service.
// It only lives between an extraction call and normalization.
type ExtractedItem struct {
	Title       string
	Type        string
	Date        string
	Description string
}
