// Package update holds the bubbletea model driving the agenda UI. State
// mutation lives here; drawing is delegated to the views package.
package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/reminder"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/storage"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/views"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewCalendar  View = "Calendar"
	ViewAgenda    View = "Agenda"
	ViewImport    View = "Import"
)

// Extractor is the syllabus extraction dependency. The real client talks to
// the Gemini API; tests swap in a stub.
type Extractor interface {
	Extract(ctx context.Context, rawText, courseName string) ([]model.ExtractedItem, error)
}

// Deps carries everything the model needs from the outside. All of it is
// injected at construction; the package keeps no globals.
type Deps struct {
	Repo      storage.Repository
	Extractor Extractor
	Reminders *reminder.Engine
	Log       zerolog.Logger
	Location  *time.Location
	DayCap    int
	Now       func() time.Time
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Calendar  string
	Agenda    string
	Import    string
	Help      string
	Quit      string
}

// AgendaItem is one row of the agenda list, flattened for display. Course,
// Type, Semester and Weight come out of the notes metadata block.
type AgendaItem struct {
	ID       string
	Title    string
	Date     string
	Time     string
	Course   string
	Type     string
	Priority string
	AllDay   bool
	StartAt  time.Time
	Notes    string
}

type AgendaState struct {
	Items  []AgendaItem
	Cursor int
}

type CalendarState struct {
	FocusDate time.Time
	Cursor    int
}

type ImportState struct {
	Busy        bool
	LastMessage string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView     View
	SelectedEventID string
	Events          []model.Event
	Imports         []storage.ImportRecord
	Agenda          AgendaState
	Calendar        CalendarState
	Import          ImportState
	Editor          EditorState
	Palette         CommandPaletteState
	HelpVisible     bool
	AlertLog        []reminder.Alert
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error
	deps            Deps
	// Bubble components used for rich TUI controls
	agendaList    list.Model
	courseInput   textinput.Model
	commandInput  textinput.Model
	syllabusArea  textarea.Model
	importSpinner spinner.Model
	helpModel     help.Model
	metaViewport  viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type EventsLoadedMsg struct {
	Events  []model.Event
	Imports []storage.ImportRecord
}

type ImportCompletedMsg struct {
	Course string
	Count  int
}

type EventSavedMsg struct {
	ID string
}

type EventDeletedMsg struct {
	ID string
}

type AlertDueMsg struct {
	Alert reminder.Alert
}

func NewModel(deps Deps) Model {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.DayCap <= 0 {
		deps.DayCap = 3
	}
	m := Model{
		CurrentView: ViewDashboard,
		Calendar: CalendarState{
			FocusDate: deps.Now().In(deps.Location),
		},
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Calendar:  "2",
			Agenda:    "3",
			Import:    "4",
			Help:      "?",
			Quit:      "q",
		},
		deps: deps,
	}
	m.initBubbleComponents()
	m.Calendar.Cursor = m.todayCellIndex()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadEventsCmd()}
	if m.deps.Reminders != nil {
		cmds = append(cmds, waitForAlertCmd(m.deps.Reminders.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		m.ensureAgendaState()
		m.ensureCalendarState()

		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		if m.Editor.Active {
			return m.handleEditorKey(typed)
		}

		if m.CurrentView == ViewImport {
			// The import screen owns almost every key while typing.
			return m.handleImportKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Dashboard:
			m.CurrentView = ViewDashboard
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Agenda:
			m.CurrentView = ViewAgenda
			return m, nil
		case m.Keys.Import:
			m.CurrentView = ViewImport
			m.courseInput.Focus()
			m.syllabusArea.Blur()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewAgenda {
			return m.handleAgendaKey(typed)
		}
		if m.CurrentView == ViewCalendar {
			return m.handleCalendarKey(typed)
		}
	case spinner.TickMsg:
		if m.Import.Busy {
			var cmd tea.Cmd
			m.importSpinner, cmd = m.importSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.deps.Log.Error().Err(typed.Err).Msg("ui error")
		}
		return m, nil
	case EventsLoadedMsg:
		m.Events = typed.Events
		m.Imports = typed.Imports
		m.rebuildAgenda()
		return m, nil
	case ImportCompletedMsg:
		m.Import.Busy = false
		m.Import.LastMessage = fmt.Sprintf("imported %d event(s) for %s", typed.Count, typed.Course)
		m.Status = StatusBar{Text: m.Import.LastMessage, IsError: false}
		m.syllabusArea.Reset()
		return m, m.loadEventsCmd()
	case EventSavedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("event saved: %s", typed.ID), IsError: false}
		return m, m.loadEventsCmd()
	case EventDeletedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("event removed: %s", typed.ID), IsError: false}
		return m, m.loadEventsCmd()
	case AlertDueMsg:
		m.AlertLog = append(m.AlertLog, typed.Alert)
		if len(m.AlertLog) > 20 {
			m.AlertLog = m.AlertLog[len(m.AlertLog)-20:]
		}
		m.Status = StatusBar{
			Text:    fmt.Sprintf("reminder: %s at %s", typed.Alert.Title, typed.Alert.EventStart.In(m.deps.Location).Format("15:04")),
			IsError: false,
		}
		if m.deps.Reminders != nil {
			return m, waitForAlertCmd(m.deps.Reminders.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewDashboard:
		leftPane = m.renderDashboardView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
		rightPane = m.renderDayPane() + m.renderHelpIfVisible()
	case ViewAgenda:
		leftPane = m.renderAgendaView()
		rightPane = m.renderMetadataPane() + m.renderEditorIfVisible() + m.renderHelpIfVisible()
	case ViewImport:
		leftPane = m.renderImportView()
		rightPane = m.renderHelpIfVisible()
	}
	notificationView := ""
	if len(m.AlertLog) > 0 {
		last := m.AlertLog[len(m.AlertLog)-1]
		notificationView = views.RenderNotification("reminder",
			fmt.Sprintf("%s @ %s", last.Title, last.FireAt.In(m.deps.Location).Format("15:04:05")))
	}
	if m.Import.Busy {
		spin := m.importSpinner.View()
		notificationView = strings.TrimSpace(strings.Join([]string{notificationView, "import: " + spin + " running"}, "\n"))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("agenda | view: %s | selected: %s", m.CurrentView, m.SelectedEventID),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notificationView,
		Footer:       fmt.Sprintf("keys: %s dashboard | %s calendar | %s agenda | %s import | %s help | %s quit", m.Keys.Dashboard, m.Keys.Calendar, m.Keys.Agenda, m.Keys.Import, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewCalendar, ViewAgenda, ViewImport:
		return true
	default:
		return false
	}
}

func (m *Model) initBubbleComponents() {
	m.agendaList = list.New([]list.Item{}, list.NewDefaultDelegate(), 58, 12)
	m.agendaList.Title = "Agenda (list)"
	m.agendaList.SetShowHelp(false)
	m.agendaList.SetFilteringEnabled(false)

	m.courseInput = textinput.New()
	m.courseInput.Prompt = "course> "
	m.courseInput.CharLimit = 64
	m.courseInput.Width = 32

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.syllabusArea = textarea.New()
	m.syllabusArea.SetWidth(56)
	m.syllabusArea.SetHeight(12)
	m.syllabusArea.ShowLineNumbers = false
	m.syllabusArea.Placeholder = "Paste syllabus text here"

	m.importSpinner = spinner.New()
	m.importSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.metaViewport = viewport.New(50, 10)
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Agenda.Items))
	for _, item := range m.Agenda.Items {
		desc := item.Date
		if !item.AllDay {
			desc += " " + item.Time
		}
		if item.Course != "" {
			desc += " | " + item.Course
		}
		items = append(items, listItem{title: item.Title, description: desc})
	}
	m.agendaList.SetItems(items)
	if len(items) > 0 {
		m.agendaList.Select(m.Agenda.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if sel, ok := m.currentAgendaItem(); ok {
		userNotes := sel.Notes
		if strings.TrimSpace(userNotes) == "" {
			userNotes = "_No notes_"
		}
		m.metaViewport.SetContent(views.RenderMarkdown(userNotes))
	}
}

func waitForAlertCmd(ch <-chan reminder.Alert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlertDueMsg{Alert: a}
	}
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: m.Keys.Agenda, Action: "switch to Agenda"},
		{Key: m.Keys.Import, Action: "switch to Import"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next month"},
			{Key: "arrows", Action: "move day cursor"},
			{Key: "t", Action: "jump to today"},
			{Key: "enter", Action: "open day in agenda"},
		}
	case ViewAgenda:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "edit selected event"},
			{Key: "x", Action: "delete selected event"},
			{Key: "h/l", Action: "previous/next month"},
		}
	case ViewImport:
		return []KeyBinding{
			{Key: "tab", Action: "switch course/text field"},
			{Key: "ctrl+s", Action: "run extraction"},
			{Key: "esc", Action: "back to dashboard"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
