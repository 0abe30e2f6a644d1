package update

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/calendar"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h":
		m.shiftFocusMonth(-1)
		return m, m.loadEventsCmd()
	case "l":
		m.shiftFocusMonth(1)
		return m, m.loadEventsCmd()
	case "t":
		m.Calendar.FocusDate = m.deps.Now().In(m.deps.Location)
		m.Calendar.Cursor = m.todayCellIndex()
		m.Status = StatusBar{Text: "calendar focus: today", IsError: false}
		return m, m.loadEventsCmd()
	case "left":
		m.moveDayCursor(-1)
	case "right":
		m.moveDayCursor(1)
	case "up":
		m.moveDayCursor(-7)
	case "down":
		m.moveDayCursor(7)
	case "enter":
		m.jumpAgendaToCursorDay()
		m.CurrentView = ViewAgenda
	}
	return m, nil
}

func (m *Model) shiftFocusMonth(delta int) {
	m.Calendar.FocusDate = m.Calendar.FocusDate.AddDate(0, delta, 0)
	m.Calendar.Cursor = m.todayCellIndex()
	m.Status = StatusBar{
		Text:    fmt.Sprintf("calendar focus: %s", m.Calendar.FocusDate.Format("January 2006")),
		IsError: false,
	}
}

func (m *Model) moveDayCursor(delta int) {
	next := m.Calendar.Cursor + delta
	if next < 0 || next >= calendar.GridCells {
		return
	}
	m.Calendar.Cursor = next
}

// todayCellIndex finds the grid slot of today when today sits inside the
// focused month's grid, otherwise the slot of the 1st.
func (m Model) todayCellIndex() int {
	grid := calendar.MonthGrid(m.Calendar.FocusDate, m.deps.Now(), m.deps.Location)
	for i, cell := range grid {
		if cell.IsToday {
			return i
		}
	}
	for i, cell := range grid {
		if cell.InMonth {
			return i
		}
	}
	return 0
}

// jumpAgendaToCursorDay moves the agenda cursor to the first event on the
// selected calendar day, if any.
func (m *Model) jumpAgendaToCursorDay() {
	grid := calendar.MonthGrid(m.Calendar.FocusDate, m.deps.Now(), m.deps.Location)
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(grid) {
		return
	}
	key := grid[m.Calendar.Cursor].Key
	for i, item := range m.Agenda.Items {
		if item.Date == key {
			m.Agenda.Cursor = i
			m.syncSelectedEventToCursor()
			return
		}
	}
}

func (m *Model) ensureCalendarState() {
	if m.Calendar.FocusDate.IsZero() {
		m.Calendar.FocusDate = m.deps.Now().In(m.deps.Location)
	}
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= calendar.GridCells {
		m.Calendar.Cursor = 0
	}
}

func (m Model) renderCalendarView() string {
	return views.RenderCalendarPanel(views.CalendarPanelData{
		MonthLabel: m.Calendar.FocusDate.In(m.deps.Location).Format("January 2006"),
		Cells:      m.calendarCells(),
	})
}

func (m Model) calendarCells() []views.CalendarCellData {
	loc := m.deps.Location
	grid := calendar.MonthGrid(m.Calendar.FocusDate, m.deps.Now(), loc)
	idx := calendar.IndexByDay(m.Events, loc)

	cells := make([]views.CalendarCellData, 0, len(grid))
	for i, cell := range grid {
		visible, hidden := idx.Visible(cell.Key, m.deps.DayCap)
		titles := make([]string, 0, len(visible))
		for _, ev := range visible {
			titles = append(titles, ev.Title)
		}
		cells = append(cells, views.CalendarCellData{
			DayLabel: strconv.Itoa(cell.Day.Day()),
			InMonth:  cell.InMonth,
			IsToday:  cell.IsToday,
			Selected: i == m.Calendar.Cursor,
			Events:   titles,
			Hidden:   hidden,
		})
	}
	return cells
}

// renderDayPane details the day under the calendar cursor.
func (m Model) renderDayPane() string {
	grid := calendar.MonthGrid(m.Calendar.FocusDate, m.deps.Now(), m.deps.Location)
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(grid) {
		return "day:\n(no selection)"
	}
	key := grid[m.Calendar.Cursor].Key
	idx := calendar.IndexByDay(m.Events, m.deps.Location)
	day := idx[key]

	out := "day: " + key + "\n"
	if len(day) == 0 {
		return out + "(no events)"
	}
	for _, ev := range day {
		item := m.toAgendaItem(ev)
		when := "all-day"
		if !item.AllDay {
			when = item.Time
		}
		out += fmt.Sprintf("- %s %s", when, item.Title)
		if item.Course != "" {
			out += " (" + item.Course + ")"
		}
		out += "\n"
	}
	return out
}
