package calendar

import "time"

// GridCells is the fixed month-grid size: six rows of seven weekdays. Six
// rows cover every month regardless of which weekday the 1st falls on.
const GridCells = 42

// Cell is one slot of the month grid.
type Cell struct {
	Day     time.Time
	Key     string
	InMonth bool
	IsToday bool
}

// MonthGrid lays out the 42-cell grid for the month containing anchor,
// starting on the Sunday on or before the 1st. Leading and trailing cells
// belong to the adjacent months and are marked InMonth=false.
func MonthGrid(anchor, today time.Time, loc *time.Location) [GridCells]Cell {
	anchor = anchor.In(loc)
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	todayKey := DayKey(today, loc)

	var grid [GridCells]Cell
	for i := range grid {
		day := start.AddDate(0, 0, i)
		key := DayKey(day, loc)
		grid[i] = Cell{
			Day:     day,
			Key:     key,
			InMonth: day.Month() == anchor.Month(),
			IsToday: key == todayKey,
		}
	}
	return grid
}
