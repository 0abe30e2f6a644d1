package update

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/storage"
)

type fakeRepo struct {
	events  map[string]model.Event
	imports []storage.ImportRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: make(map[string]model.Event)}
}

func (r *fakeRepo) CreateEvent(_ context.Context, in model.Event) error {
	r.events[in.ID] = in
	return nil
}

func (r *fakeRepo) GetEvent(_ context.Context, id string) (model.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return model.Event{}, storage.ErrNotFound
	}
	return ev, nil
}

func (r *fakeRepo) UpsertEvent(_ context.Context, in model.Event) error {
	r.events[in.ID] = in
	return nil
}

func (r *fakeRepo) DeleteEvent(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeRepo) ListEvents(_ context.Context, _ storage.EventListFilter) ([]model.Event, error) {
	out := make([]model.Event, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev)
	}
	return out, nil
}

func (r *fakeRepo) CreateImport(_ context.Context, in storage.ImportRecord) error {
	r.imports = append(r.imports, in)
	return nil
}

func (r *fakeRepo) ListImports(_ context.Context, _ storage.ImportListFilter) ([]storage.ImportRecord, error) {
	return r.imports, nil
}

type stubExtractor struct {
	items []model.ExtractedItem
	err   error
}

func (s stubExtractor) Extract(_ context.Context, _, _ string) ([]model.ExtractedItem, error) {
	return s.items, s.err
}

func fixedNow() time.Time {
	return time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
}

func testModel(t *testing.T, repo storage.Repository, ex Extractor) Model {
	t.Helper()
	return NewModel(Deps{
		Repo:      repo,
		Extractor: ex,
		Log:       zerolog.Nop(),
		Location:  time.UTC,
		DayCap:    3,
		Now:       fixedNow,
	})
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func examEvent(id string, at time.Time) model.Event {
	return model.Event{
		ID:      id,
		Title:   "Midterm",
		StartAt: at,
		Notes:   notes.Encode("", model.EventMetadata{Course: "COMP 206", Type: "exam"}),
		Source:  model.SourceAI,
	}
}

func assignmentEvent(id string, at time.Time) model.Event {
	return model.Event{
		ID:      id,
		Title:   "Assignment",
		StartAt: at,
		AllDay:  true,
		Notes:   notes.Encode("bring laptop", model.EventMetadata{Course: "MATH 240", Type: "assignment"}),
		Source:  model.SourceManual,
	}
}

func TestKeySwitchesView(t *testing.T) {
	m := testModel(t, newFakeRepo(), stubExtractor{})
	cases := []struct {
		key  string
		want View
	}{
		{"1", ViewDashboard},
		{"2", ViewCalendar},
		{"3", ViewAgenda},
		{"4", ViewImport},
	}
	for _, tc := range cases {
		next, _ := m.Update(keyMsg(tc.key))
		if got := next.(Model).CurrentView; got != tc.want {
			t.Errorf("key %q -> view %s, want %s", tc.key, got, tc.want)
		}
	}
}

func TestEventsLoadedRebuildsAgendaSorted(t *testing.T) {
	m := testModel(t, newFakeRepo(), stubExtractor{})
	later := examEvent("later", time.Date(2026, 9, 20, 9, 0, 0, 0, time.UTC))
	earlier := assignmentEvent("earlier", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC))

	next, _ := m.Update(EventsLoadedMsg{Events: []model.Event{later, earlier}})
	m = next.(Model)

	if len(m.Agenda.Items) != 2 {
		t.Fatalf("agenda items = %d, want 2", len(m.Agenda.Items))
	}
	if m.Agenda.Items[0].ID != "earlier" {
		t.Errorf("first item = %s, want earlier", m.Agenda.Items[0].ID)
	}
	if m.Agenda.Items[0].Course != "MATH 240" || m.Agenda.Items[0].Notes != "bring laptop" {
		t.Errorf("metadata not decoded: %+v", m.Agenda.Items[0])
	}
	if m.Agenda.Items[1].Priority != string(model.PriorityHigh) {
		t.Errorf("exam priority = %s, want high", m.Agenda.Items[1].Priority)
	}
	if m.SelectedEventID != "earlier" {
		t.Errorf("selected = %s, want earlier", m.SelectedEventID)
	}
}

func TestDashboardStatsCountExams(t *testing.T) {
	m := testModel(t, newFakeRepo(), stubExtractor{})
	events := []model.Event{
		examEvent("exam-future", time.Date(2026, 9, 20, 9, 0, 0, 0, time.UTC)),
		assignmentEvent("hw-future", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)),
		examEvent("exam-past", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)),
	}
	next, _ := m.Update(EventsLoadedMsg{Events: events})
	m = next.(Model)

	stats := m.dashboardStats()
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Upcoming != 2 {
		t.Errorf("upcoming = %d, want 2", stats.Upcoming)
	}
	if stats.Exams != 1 {
		t.Errorf("exams = %d, want 1", stats.Exams)
	}
}

func TestEditorRoundTripKeepsNotesStable(t *testing.T) {
	m := testModel(t, newFakeRepo(), stubExtractor{})
	ev := assignmentEvent("hw", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	next, _ := m.Update(EventsLoadedMsg{Events: []model.Event{ev}})
	m = next.(Model)

	m.openEditor("hw")
	if !m.Editor.Active {
		t.Fatal("editor did not open")
	}
	if m.Editor.Fields[fieldCourse] != "MATH 240" || m.Editor.Fields[fieldNotes] != "bring laptop" {
		t.Fatalf("editor fields not populated: %+v", m.Editor.Fields)
	}
	if m.Editor.Fields[fieldTime] != "" {
		t.Fatalf("all-day event has time field %q", m.Editor.Fields[fieldTime])
	}

	saved, err := m.editorEvent()
	if err != nil {
		t.Fatalf("editorEvent() error = %v", err)
	}
	if saved.Notes != ev.Notes {
		t.Errorf("notes changed on no-op edit:\nbefore %q\nafter  %q", ev.Notes, saved.Notes)
	}
	if !saved.AllDay || !saved.StartAt.Equal(ev.StartAt) {
		t.Errorf("start changed on no-op edit: %+v", saved)
	}
	if saved.Source != model.SourceManual {
		t.Errorf("source = %s, want manual preserved", saved.Source)
	}
}

func TestEditorTimeFieldMakesTimedEvent(t *testing.T) {
	m := testModel(t, newFakeRepo(), stubExtractor{})
	ev := assignmentEvent("hw", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	next, _ := m.Update(EventsLoadedMsg{Events: []model.Event{ev}})
	m = next.(Model)

	m.openEditor("hw")
	m.Editor.Fields[fieldTime] = "14:30"
	saved, err := m.editorEvent()
	if err != nil {
		t.Fatalf("editorEvent() error = %v", err)
	}
	if saved.AllDay {
		t.Error("AllDay = true after setting a time")
	}
	want := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	if !saved.StartAt.Equal(want) {
		t.Errorf("StartAt = %v, want %v", saved.StartAt, want)
	}
}

func TestPaletteAddCommand(t *testing.T) {
	repo := newFakeRepo()
	m := testModel(t, repo, stubExtractor{})
	m.Palette.Active = true
	m.Palette.Input = "add 2026-09-25 Essay draft"

	next, cmd := m.executePaletteCommand()
	m = next
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %s", m.Status.Text)
	}
	if cmd == nil {
		t.Fatal("expected a follow-up command")
	}
	msg := cmd()
	saved, ok := msg.(EventSavedMsg)
	if !ok {
		t.Fatalf("follow-up msg = %T, want EventSavedMsg", msg)
	}
	stored, err := repo.GetEvent(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("event not persisted: %v", err)
	}
	if stored.Title != "Essay draft" || !stored.AllDay || stored.Source != model.SourceManual {
		t.Fatalf("unexpected stored event: %+v", stored)
	}
}

func TestPaletteRemoveByPrefix(t *testing.T) {
	repo := newFakeRepo()
	ev := examEvent("abc-123", time.Date(2026, 9, 20, 9, 0, 0, 0, time.UTC))
	_ = repo.CreateEvent(context.Background(), ev)

	m := testModel(t, repo, stubExtractor{})
	next, _ := m.Update(EventsLoadedMsg{Events: []model.Event{ev}})
	m = next.(Model)
	m.Palette.Input = "remove abc"

	m2, cmd := m.executePaletteCommand()
	if m2.Status.IsError {
		t.Fatalf("unexpected error status: %s", m2.Status.Text)
	}
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if msg := cmd(); msg.(EventDeletedMsg).ID != "abc-123" {
		t.Fatalf("unexpected delete msg: %+v", msg)
	}
	if _, err := repo.GetEvent(context.Background(), "abc-123"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("event still present: %v", err)
	}
}

func TestRunImportPersistsEventsAndHistory(t *testing.T) {
	repo := newFakeRepo()
	ex := stubExtractor{items: []model.ExtractedItem{
		{Title: "Assignment 1", Type: "assignment", Date: "2026-09-15", Description: "Intro"},
		{Title: "Broken", Type: "exam", Date: "someday"},
		{Title: "Final", Type: "final exam", Date: "2026-12-10"},
	}}
	m := testModel(t, repo, ex)

	msg := m.runImportCmd("COMP 206", "syllabus text")()
	done, ok := msg.(ImportCompletedMsg)
	if !ok {
		t.Fatalf("msg = %T (%+v), want ImportCompletedMsg", msg, msg)
	}
	if done.Course != "COMP 206" || done.Count != 2 {
		t.Fatalf("unexpected completion: %+v", done)
	}
	if len(repo.events) != 2 {
		t.Fatalf("persisted events = %d, want 2", len(repo.events))
	}
	if len(repo.imports) != 1 || repo.imports[0].ItemCount != 2 {
		t.Fatalf("unexpected import history: %+v", repo.imports)
	}
}

func TestCalendarCellsApplyDayCap(t *testing.T) {
	m := testModel(t, newFakeRepo(), stubExtractor{})
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	events := make([]model.Event, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		ev := examEvent(id, day.Add(time.Duration(len(events))*time.Hour))
		events = append(events, ev)
	}
	next, _ := m.Update(EventsLoadedMsg{Events: events})
	m = next.(Model)

	var found bool
	for _, cell := range m.calendarCells() {
		if cell.IsToday {
			found = true
			if len(cell.Events) != 3 {
				t.Errorf("visible events = %d, want 3", len(cell.Events))
			}
			if cell.Hidden != 2 {
				t.Errorf("hidden = %d, want 2", cell.Hidden)
			}
		}
	}
	if !found {
		t.Fatal("no today cell in grid")
	}
}
