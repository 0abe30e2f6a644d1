package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/views"
)

func (m Model) handleAgendaKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Agenda.Cursor > 0 {
			m.Agenda.Cursor--
		}
		m.syncSelectedEventToCursor()
	case "down", "j":
		if m.Agenda.Cursor < len(m.Agenda.Items)-1 {
			m.Agenda.Cursor++
		}
		m.syncSelectedEventToCursor()
	case "h", "left":
		m.shiftFocusMonth(-1)
		return m, m.loadEventsCmd()
	case "l", "right":
		m.shiftFocusMonth(1)
		return m, m.loadEventsCmd()
	case "enter":
		if selected, ok := m.currentAgendaItem(); ok {
			m.openEditor(selected.ID)
		}
	case "x":
		if selected, ok := m.currentAgendaItem(); ok {
			return m, m.deleteEventCmd(selected.ID)
		}
	}
	return m, nil
}

func (m Model) deleteEventCmd(id string) tea.Cmd {
	repo := m.deps.Repo
	engine := m.deps.Reminders
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.DeleteEvent(ctx, id); err != nil {
			return AppErrorMsg{Err: err}
		}
		if engine != nil {
			engine.Cancel(id)
		}
		return EventDeletedMsg{ID: id}
	}
}

func (m Model) renderAgendaView() string {
	items := make([]views.AgendaItemData, 0, len(m.Agenda.Items))
	for _, item := range m.Agenda.Items {
		items = append(items, views.AgendaItemData{
			ID:       item.ID,
			Title:    item.Title,
			Date:     item.Date,
			Time:     item.Time,
			Course:   item.Course,
			Type:     item.Type,
			Priority: item.Priority,
			AllDay:   item.AllDay,
		})
	}
	return views.RenderAgendaPanel(views.AgendaPanelData{
		ListView:   m.agendaList.View(),
		Items:      items,
		SelectedID: m.SelectedEventID,
	})
}

func (m Model) renderMetadataPane() string {
	selected, ok := m.currentAgendaItem()
	if !ok {
		return "metadata:\n(no selection)"
	}
	ev, found := m.eventByID(selected.ID)
	meta := metadataFor(ev.Notes)
	if !found {
		meta.Course = selected.Course
		meta.Type = selected.Type
	}
	return views.RenderEventMetadataPane(views.EventMetadataData{
		SelectedID:      selected.ID,
		Course:          meta.Course,
		Type:            meta.Type,
		Semester:        meta.Semester,
		Weight:          meta.Weight,
		Priority:        selected.Priority,
		NotesEditorView: selected.Notes,
		MarkdownView:    m.metaViewport.View(),
	})
}
