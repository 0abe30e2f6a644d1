package update

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/views"
)

const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldCourse
	fieldType
	fieldSemester
	fieldWeight
	fieldNotes
	editorFieldCount
)

var editorFieldLabels = [editorFieldCount]string{
	"title", "date", "time", "course", "type", "semester", "weight", "notes",
}

// EditorState is the in-place event editor. Fields hold text until save, when
// date and time are parsed and the metadata block is re-encoded into notes.
type EditorState struct {
	Active  bool
	EventID string
	Source  model.Source
	EndAt   *time.Time
	Cursor  int
	Fields  [editorFieldCount]string
	Err     string
}

// openEditor loads the event into the editor, splitting its notes into the
// user text and the metadata fields.
func (m *Model) openEditor(id string) {
	ev, ok := m.eventByID(id)
	if !ok {
		m.Status = StatusBar{Text: "event not found: " + id, IsError: true}
		return
	}
	userNotes, meta := notes.Decode(ev.Notes)
	local := ev.StartAt.In(m.deps.Location)

	m.Editor = EditorState{
		Active:  true,
		EventID: ev.ID,
		Source:  ev.Source,
		EndAt:   ev.EndAt,
	}
	m.Editor.Fields[fieldTitle] = ev.Title
	m.Editor.Fields[fieldDate] = local.Format("2006-01-02")
	if !ev.AllDay {
		m.Editor.Fields[fieldTime] = local.Format("15:04")
	}
	m.Editor.Fields[fieldCourse] = meta.Course
	m.Editor.Fields[fieldType] = meta.Type
	m.Editor.Fields[fieldSemester] = meta.Semester
	m.Editor.Fields[fieldWeight] = meta.Weight
	m.Editor.Fields[fieldNotes] = userNotes
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editor = EditorState{}
		return m, nil
	case "tab":
		m.Editor.Cursor = (m.Editor.Cursor + 1) % editorFieldCount
		return m, nil
	case "shift+tab":
		m.Editor.Cursor = (m.Editor.Cursor + editorFieldCount - 1) % editorFieldCount
		return m, nil
	case "enter":
		ev, err := m.editorEvent()
		if err != nil {
			m.Editor.Err = err.Error()
			return m, nil
		}
		m.Editor = EditorState{}
		return m, m.saveEventCmd(ev)
	case "backspace":
		field := &m.Editor.Fields[m.Editor.Cursor]
		if len(*field) > 0 {
			runes := []rune(*field)
			*field = string(runes[:len(runes)-1])
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		m.Editor.Fields[m.Editor.Cursor] += text
	}
	return m, nil
}

// editorEvent assembles the edited event. An empty time field makes the
// event all-day at local midnight.
func (m Model) editorEvent() (model.Event, error) {
	loc := m.deps.Location
	dateText := strings.TrimSpace(m.Editor.Fields[fieldDate])
	timeText := strings.TrimSpace(m.Editor.Fields[fieldTime])

	day, err := time.ParseInLocation("2006-01-02", dateText, loc)
	if err != nil {
		return model.Event{}, err
	}
	start := day
	allDay := true
	if timeText != "" {
		clock, err := time.Parse("15:04", timeText)
		if err != nil {
			return model.Event{}, err
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		allDay = false
	}

	title := strings.TrimSpace(m.Editor.Fields[fieldTitle])
	if title == "" {
		title = "Untitled"
	}
	source := m.Editor.Source
	if !source.IsValid() {
		source = model.SourceManual
	}

	ev := model.Event{
		ID:      m.Editor.EventID,
		Title:   title,
		StartAt: start,
		EndAt:   m.Editor.EndAt,
		AllDay:  allDay,
		Notes: notes.Encode(m.Editor.Fields[fieldNotes], model.EventMetadata{
			Course:   strings.TrimSpace(m.Editor.Fields[fieldCourse]),
			Type:     strings.TrimSpace(m.Editor.Fields[fieldType]),
			Semester: strings.TrimSpace(m.Editor.Fields[fieldSemester]),
			Weight:   strings.TrimSpace(m.Editor.Fields[fieldWeight]),
		}),
		Source: source,
	}
	return ev, ev.Validate()
}

// saveEventCmd upserts the event, so saving an unchanged editor twice leaves
// exactly one row. The reminder is cancelled and rescheduled to follow the
// possibly-moved start time.
func (m Model) saveEventCmd(ev model.Event) tea.Cmd {
	repo := m.deps.Repo
	engine := m.deps.Reminders
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.UpsertEvent(ctx, ev); err != nil {
			return AppErrorMsg{Err: err}
		}
		if engine != nil {
			engine.Cancel(ev.ID)
			_ = engine.ScheduleEvent(ev)
		}
		return EventSavedMsg{ID: ev.ID}
	}
}

func (m Model) renderEditorIfVisible() string {
	if !m.Editor.Active {
		return ""
	}
	fields := make([]views.EditorFieldData, 0, editorFieldCount)
	for i, label := range editorFieldLabels {
		fields = append(fields, views.EditorFieldData{
			Label:   label,
			Value:   m.Editor.Fields[i],
			Focused: i == m.Editor.Cursor,
		})
	}
	return views.RenderEditorPanel(views.EditorPanelData{
		Active:    true,
		EventID:   m.Editor.EventID,
		Fields:    fields,
		ErrorText: m.Editor.Err,
	})
}
