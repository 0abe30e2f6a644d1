package storage

import "time"

// ImportRecord is one syllabus import run: which course it was for, how many
// events it produced, and when it happened.
type ImportRecord struct {
	ID         string
	Course     string
	ItemCount  int
	ImportedAt time.Time
}

type EventListFilter struct {
	// From and To bound the event start time, inclusive-From, exclusive-To.
	From   *time.Time
	To     *time.Time
	Source string
	Limit  int
	Offset int
}

type ImportListFilter struct {
	Limit  int
	Offset int
}
