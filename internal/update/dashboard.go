package update

import (
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/views"
)

type DashboardStats struct {
	Upcoming int
	Exams    int
	Total    int
}

// dashboardStats summarizes the loaded window: how many events are still
// ahead, and how many of those look like exams.
func (m Model) dashboardStats() DashboardStats {
	now := m.deps.Now()
	stats := DashboardStats{Total: len(m.Agenda.Items)}
	for _, item := range m.Agenda.Items {
		if item.StartAt.Before(now) && !item.AllDay {
			continue
		}
		if item.AllDay && item.StartAt.In(m.deps.Location).AddDate(0, 0, 1).Before(now) {
			continue
		}
		stats.Upcoming++
		if item.Priority == string(model.PriorityHigh) {
			stats.Exams++
		}
	}
	return stats
}

func (m Model) upcomingItems(limit int) []AgendaItem {
	now := m.deps.Now()
	out := make([]AgendaItem, 0, limit)
	for _, item := range m.Agenda.Items {
		if item.StartAt.Before(now) && !item.AllDay {
			continue
		}
		if item.AllDay && item.StartAt.In(m.deps.Location).AddDate(0, 0, 1).Before(now) {
			continue
		}
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (m Model) renderDashboardView() string {
	stats := m.dashboardStats()

	next := make([]views.AgendaItemData, 0, 5)
	for _, item := range m.upcomingItems(5) {
		next = append(next, views.AgendaItemData{
			ID:       item.ID,
			Title:    item.Title,
			Date:     item.Date,
			Time:     item.Time,
			Course:   item.Course,
			Priority: item.Priority,
			AllDay:   item.AllDay,
		})
	}

	imports := make([]views.ImportRowData, 0, len(m.Imports))
	for _, rec := range m.Imports {
		imports = append(imports, views.ImportRowData{
			Course:    rec.Course,
			ItemCount: rec.ItemCount,
			When:      rec.ImportedAt.In(m.deps.Location).Format("2006-01-02 15:04"),
		})
	}

	return views.RenderDashboardPanel(views.DashboardPanelData{
		UpcomingCount: stats.Upcoming,
		ExamCount:     stats.Exams,
		TotalCount:    stats.Total,
		NextUp:        next,
		Imports:       imports,
	})
}
