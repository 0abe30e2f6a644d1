package update

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/storage"
)

// loadEventsCmd pulls the window around the focused month plus the recent
// import history. One message carries both so a single reload refreshes the
// whole UI.
func (m Model) loadEventsCmd() tea.Cmd {
	repo := m.deps.Repo
	if repo == nil {
		return nil
	}
	loc := m.deps.Location
	focus := m.Calendar.FocusDate.In(loc)
	from := time.Date(focus.Year(), focus.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
	to := from.AddDate(0, 4, 0)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		events, err := repo.ListEvents(ctx, storage.EventListFilter{From: &from, To: &to})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		imports, err := repo.ListImports(ctx, storage.ImportListFilter{Limit: 5})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventsLoadedMsg{Events: events, Imports: imports}
	}
}

func (m *Model) rebuildAgenda() {
	items := make([]AgendaItem, 0, len(m.Events))
	for _, ev := range m.Events {
		items = append(items, m.toAgendaItem(ev))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartAt.Before(items[j].StartAt)
	})
	m.Agenda.Items = items
	if m.Agenda.Cursor >= len(items) {
		m.Agenda.Cursor = 0
	}
	m.syncSelectedEventToCursor()
}

func (m Model) toAgendaItem(ev model.Event) AgendaItem {
	userNotes, meta := notes.Decode(ev.Notes)
	local := ev.StartAt.In(m.deps.Location)
	item := AgendaItem{
		ID:       ev.ID,
		Title:    ev.Title,
		Date:     local.Format("2006-01-02"),
		Course:   meta.Course,
		Type:     meta.Type,
		Priority: string(model.PriorityForType(meta.Type)),
		AllDay:   ev.AllDay,
		StartAt:  ev.StartAt,
		Notes:    userNotes,
	}
	if !ev.AllDay {
		item.Time = local.Format("15:04")
	}
	return item
}

func (m Model) eventByID(id string) (model.Event, bool) {
	for _, ev := range m.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

func (m Model) currentAgendaItem() (AgendaItem, bool) {
	if len(m.Agenda.Items) == 0 {
		return AgendaItem{}, false
	}
	if m.Agenda.Cursor < 0 || m.Agenda.Cursor >= len(m.Agenda.Items) {
		return AgendaItem{}, false
	}
	return m.Agenda.Items[m.Agenda.Cursor], true
}

func (m *Model) syncSelectedEventToCursor() {
	if selected, ok := m.currentAgendaItem(); ok {
		m.SelectedEventID = selected.ID
	} else {
		m.SelectedEventID = ""
	}
}

func (m *Model) ensureAgendaState() {
	if m.Agenda.Cursor < 0 {
		m.Agenda.Cursor = 0
	}
	if m.Agenda.Cursor >= len(m.Agenda.Items) && len(m.Agenda.Items) > 0 {
		m.Agenda.Cursor = len(m.Agenda.Items) - 1
	}
	if len(m.Agenda.Items) > 0 && m.SelectedEventID == "" {
		m.syncSelectedEventToCursor()
	}
}
