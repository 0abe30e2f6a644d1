package update

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/commands"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			text := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				text = " "
			}
			m.commandInput.SetValue(m.commandInput.Value() + text)
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			ev, buildErr := m.manualEvent(a.Date, a.Title)
			if buildErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: buildErr.Error()}
			}
			followUp = m.saveEventCmd(ev)
			return commands.Result{Message: fmt.Sprintf("added event: %s on %s", a.Title, a.Date)}, nil
		},
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			raw, readErr := os.ReadFile(a.Path)
			if readErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: readErr.Error()}
			}
			m.CurrentView = ViewImport
			m.Import.Busy = true
			m.courseInput.SetValue(a.Course)
			followUp = tea.Batch(m.importSpinner.Tick, m.runImportCmd(a.Course, string(raw)))
			return commands.Result{Message: fmt.Sprintf("importing %s for %s", a.Path, a.Course)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "dashboard":
				m.CurrentView = ViewDashboard
			case "calendar":
				m.CurrentView = ViewCalendar
			case "agenda":
				m.CurrentView = ViewAgenda
			case "imports":
				m.CurrentView = ViewDashboard
			default:
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unknown subject: " + a.Subject}
			}
			if a.Course != "" {
				m.focusAgendaOnCourse(a.Course)
				return commands.Result{Message: fmt.Sprintf("show %s course=%s", a.Subject, a.Course)}, nil
			}
			return commands.Result{Message: "show " + a.Subject}, nil
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			id, found := m.resolveEventID(a.ID)
			if !found {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no event matches id: " + a.ID}
			}
			followUp = m.deleteEventCmd(id)
			return commands.Result{Message: "removing event: " + id}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, followUp
}

// manualEvent builds an all-day manual event for the add command.
func (m Model) manualEvent(date, title string) (model.Event, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), m.deps.Location)
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID:      uuid.NewString(),
		Title:   title,
		StartAt: day,
		AllDay:  true,
		Notes:   notes.Encode("", model.EventMetadata{}),
		Source:  model.SourceManual,
	}, nil
}

// resolveEventID accepts either a full id or a unique prefix.
func (m Model) resolveEventID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	match := ""
	for _, ev := range m.Events {
		if ev.ID == raw {
			return ev.ID, true
		}
		if strings.HasPrefix(ev.ID, raw) {
			if match != "" {
				return "", false
			}
			match = ev.ID
		}
	}
	return match, match != ""
}

func (m *Model) focusAgendaOnCourse(course string) {
	for i, item := range m.Agenda.Items {
		if strings.EqualFold(item.Course, course) {
			m.Agenda.Cursor = i
			m.syncSelectedEventToCursor()
			return
		}
	}
}
