// Package calendar groups events into local calendar days and lays out the
// month grid the calendar view renders.
package calendar

import (
	"sort"
	"time"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
)

// DayKeyLayout is the bucket key format for one local calendar day.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar-day bucket for t in loc. Bucketing always
// happens in the display timezone, never UTC: an event at 23:30 local must
// land on the day the user sees it.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// Index maps day keys to the events starting on that local day, each day's
// slice sorted ascending by start time.
type Index map[string][]model.Event

// IndexByDay buckets events by their local start day. The sort is stable, so
// events sharing a start time keep their input order.
func IndexByDay(events []model.Event, loc *time.Location) Index {
	idx := make(Index, len(events))
	for _, ev := range events {
		key := DayKey(ev.StartAt, loc)
		idx[key] = append(idx[key], ev)
	}
	for _, day := range idx {
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].StartAt.Before(day[j].StartAt)
		})
	}
	return idx
}

// Visible returns at most cap events for the day plus the exact count of
// events hidden by the cap. A non-positive cap hides nothing.
func (idx Index) Visible(key string, cap int) ([]model.Event, int) {
	day := idx[key]
	if cap <= 0 || len(day) <= cap {
		return day, 0
	}
	return day[:cap], len(day) - cap
}
