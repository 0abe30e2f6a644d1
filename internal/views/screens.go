package views

import (
	"fmt"
	"strings"
)

type AgendaItemData struct {
	ID       string
	Title    string
	Date     string
	Time     string
	Course   string
	Type     string
	Priority string
	AllDay   bool
}

type AgendaPanelData struct {
	ListView   string
	Items      []AgendaItemData
	SelectedID string
}

type ImportRowData struct {
	Course    string
	ItemCount int
	When      string
}

type DashboardPanelData struct {
	UpcomingCount int
	ExamCount     int
	TotalCount    int
	NextUp        []AgendaItemData
	Imports       []ImportRowData
}

type CalendarCellData struct {
	DayLabel string
	InMonth  bool
	IsToday  bool
	Selected bool
	Events   []string
	Hidden   int
}

type CalendarPanelData struct {
	MonthLabel string
	Cells      []CalendarCellData
}

type ImportPanelData struct {
	CourseView   string
	TextAreaView string
	Busy         bool
	SpinnerView  string
	LastMessage  string
}

type EditorFieldData struct {
	Label   string
	Value   string
	Focused bool
}

type EditorPanelData struct {
	Active    bool
	EventID   string
	Fields    []EditorFieldData
	ErrorText string
}

type EventMetadataData struct {
	SelectedID      string
	Course          string
	Type            string
	Semester        string
	Weight          string
	Priority        string
	NotesEditorView string
	MarkdownView    string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDashboardPanel(data DashboardPanelData) string {
	var b strings.Builder
	b.WriteString("dashboard:\n")
	b.WriteString(fmt.Sprintf("upcoming: %d | exams: %d | total: %d\n", data.UpcomingCount, data.ExamCount, data.TotalCount))
	b.WriteString("\nnext up:\n")
	if len(data.NextUp) == 0 {
		b.WriteString("  (nothing scheduled)\n")
	}
	for _, item := range data.NextUp {
		badge := priorityBadge(item.Priority)
		when := item.Date
		if item.Time != "" {
			when += " " + item.Time
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s", badge, when, item.Title))
		if item.Course != "" {
			b.WriteString(" (" + item.Course + ")")
		}
		b.WriteString("\n")
	}
	if len(data.Imports) > 0 {
		b.WriteString("\nrecent imports:\n")
		for _, row := range data.Imports {
			b.WriteString(fmt.Sprintf("  %s  %s (%d events)\n", row.When, row.Course, row.ItemCount))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderAgendaPanel(data AgendaPanelData) string {
	var b strings.Builder
	b.WriteString("agenda:\n")
	b.WriteString("actions: [j/k]move [enter]edit [x]delete [h/l]month\n")
	b.WriteString(data.ListView + "\n")

	currentDay := ""
	for _, item := range data.Items {
		if item.Date != currentDay {
			currentDay = item.Date
			b.WriteString(fmt.Sprintf("\n%s:\n", currentDay))
		}
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		when := "all-day"
		if !item.AllDay {
			when = item.Time
		}
		b.WriteString(fmt.Sprintf("%s %s %-7s %s", cursor, priorityBadge(item.Priority), when, item.Title))
		if item.Course != "" {
			b.WriteString(" (" + item.Course + ")")
		}
		b.WriteString("\n")
	}
	if currentDay == "" {
		b.WriteString("(agenda empty)")
	}
	return strings.TrimSpace(b.String())
}

const calendarCellWidth = 8

// RenderCalendarPanel draws the six-week month grid. Each cell shows the day
// number and at most DayCap event titles; anything beyond the cap collapses
// into a "+N more" line.
func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar: " + data.MonthLabel + "\n")
	b.WriteString("actions: [h/l]month [t]today [arrows]day [enter]agenda\n")
	b.WriteString(weekdayHeader() + "\n")

	for week := 0; week*7 < len(data.Cells); week++ {
		cells := data.Cells[week*7 : week*7+7]
		b.WriteString(renderWeekRow(cells))
	}
	return strings.TrimSpace(b.String())
}

func weekdayHeader() string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	padded := make([]string, len(names))
	for i, n := range names {
		padded[i] = pad(n, calendarCellWidth)
	}
	return strings.Join(padded, " ")
}

func renderWeekRow(cells []CalendarCellData) string {
	depth := 0
	for _, c := range cells {
		lines := len(c.Events)
		if c.Hidden > 0 {
			lines++
		}
		if lines > depth {
			depth = lines
		}
	}

	var b strings.Builder
	for _, c := range cells {
		label := c.DayLabel
		switch {
		case c.Selected:
			label = ">" + label
		case c.IsToday:
			label = "*" + label
		}
		if !c.InMonth {
			label = dimStyle.Render(label)
		} else if c.IsToday {
			label = todayStyle.Render(label)
		}
		b.WriteString(pad(label, calendarCellWidth) + " ")
	}
	b.WriteString("\n")

	for line := 0; line < depth; line++ {
		for _, c := range cells {
			b.WriteString(pad(cellLine(c, line), calendarCellWidth) + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cellLine(c CalendarCellData, line int) string {
	if line < len(c.Events) {
		return truncate(c.Events[line], calendarCellWidth)
	}
	if line == len(c.Events) && c.Hidden > 0 {
		return fmt.Sprintf("+%d more", c.Hidden)
	}
	return ""
}

func RenderImportPanel(data ImportPanelData) string {
	var b strings.Builder
	b.WriteString("import syllabus:\n")
	b.WriteString("course: " + data.CourseView + "\n")
	b.WriteString("paste syllabus text below, [ctrl+s] to extract, [esc] to cancel\n")
	b.WriteString(data.TextAreaView + "\n")
	if data.Busy {
		b.WriteString("\nextracting " + data.SpinnerView + "\n")
	}
	if data.LastMessage != "" {
		b.WriteString("\n" + data.LastMessage)
	}
	return strings.TrimSpace(b.String())
}

func RenderEditorPanel(data EditorPanelData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nevent-editor: " + data.EventID + "\n")
	b.WriteString("keys: [tab] field [enter] save [esc] close\n")
	for _, f := range data.Fields {
		cursor := " "
		if f.Focused {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, f.Label, f.Value))
	}
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderEventMetadataPane(data EventMetadataData) string {
	if strings.TrimSpace(data.SelectedID) == "" {
		return "metadata:\n(no selection)"
	}
	return fmt.Sprintf("metadata:\nid: %s\ncourse: %s\ntype: %s\nsemester: %s\nweight: %s\npriority: %s\n\nnotes-editor:\n%s\n\nnotes-preview:\n%s",
		data.SelectedID,
		orDash(data.Course),
		orDash(data.Type),
		orDash(data.Semester),
		orDash(data.Weight),
		data.Priority,
		data.NotesEditorView,
		data.MarkdownView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func priorityBadge(priority string) string {
	if strings.EqualFold(priority, "high") {
		return "[HIGH]"
	}
	return "[MED]"
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func pad(s string, width int) string {
	// lipgloss-styled labels carry escape codes, so measure the raw width
	// before styling where it matters; plain cells just pad with spaces.
	if printable := plainWidth(s); printable < width {
		return s + strings.Repeat(" ", width-printable)
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func plainWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width++
		}
	}
	return width
}
