package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/storage"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/syllabus"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/views"
)

func (m Model) handleImportKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Import.Busy {
		if msg.String() == "esc" {
			m.CurrentView = ViewDashboard
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.CurrentView = ViewDashboard
		m.courseInput.Blur()
		m.syllabusArea.Blur()
		return m, nil
	case "tab":
		if m.courseInput.Focused() {
			m.courseInput.Blur()
			m.syllabusArea.Focus()
		} else {
			m.syllabusArea.Blur()
			m.courseInput.Focus()
		}
		return m, nil
	case "ctrl+s":
		course := strings.TrimSpace(m.courseInput.Value())
		text := strings.TrimSpace(m.syllabusArea.Value())
		if course == "" {
			m.Status = StatusBar{Text: "import needs a course name", IsError: true}
			return m, nil
		}
		if text == "" {
			m.Status = StatusBar{Text: "import needs syllabus text", IsError: true}
			return m, nil
		}
		m.Import.Busy = true
		m.Import.LastMessage = ""
		m.Status = StatusBar{Text: fmt.Sprintf("extracting events for %s", course), IsError: false}
		return m, tea.Batch(m.importSpinner.Tick, m.runImportCmd(course, text))
	}

	var cmd tea.Cmd
	if m.courseInput.Focused() {
		m.courseInput, cmd = m.courseInput.Update(msg)
	} else {
		m.syllabusArea, cmd = m.syllabusArea.Update(msg)
	}
	return m, cmd
}

// runImportCmd is the whole import pipeline as one background command:
// extract, normalize, persist, schedule reminders, record the run.
func (m Model) runImportCmd(course, text string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		items, err := deps.Extractor.Extract(ctx, text, course)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		events := syllabus.NormalizeAll(items, course, deps.Location)
		dropped := len(items) - len(events)
		if dropped > 0 {
			deps.Log.Warn().Int("dropped", dropped).Str("course", course).Msg("skipped items with unparseable dates")
		}

		for _, ev := range events {
			if err := deps.Repo.CreateEvent(ctx, ev); err != nil {
				return AppErrorMsg{Err: err}
			}
			if deps.Reminders != nil {
				_ = deps.Reminders.ScheduleEvent(ev)
			}
		}

		rec := storage.ImportRecord{
			ID:         uuid.NewString(),
			Course:     course,
			ItemCount:  len(events),
			ImportedAt: deps.Now(),
		}
		if err := deps.Repo.CreateImport(ctx, rec); err != nil {
			return AppErrorMsg{Err: err}
		}
		deps.Log.Info().Str("course", course).Int("events", len(events)).Msg("syllabus import complete")
		return ImportCompletedMsg{Course: course, Count: len(events)}
	}
}

func (m Model) renderImportView() string {
	return views.RenderImportPanel(views.ImportPanelData{
		CourseView:   m.courseInput.View(),
		TextAreaView: m.syllabusArea.View(),
		Busy:         m.Import.Busy,
		SpinnerView:  m.importSpinner.View(),
		LastMessage:  m.Import.LastMessage,
	})
}
