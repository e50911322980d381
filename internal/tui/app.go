package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/jira"
	"github.com/xalt/visitcal/internal/logging"
	"github.com/xalt/visitcal/internal/store"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenProjectPicker
	ScreenTypePicker
	ScreenFieldPicker
	ScreenCalendar
	ScreenDetail
)

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates first-run setup (project and type selection) and the
// calendar -> detail flow.
type AppModel struct {
	// Dependencies
	client   *jira.Client
	store    *store.Store
	settings *store.SettingsFile
	ctx      context.Context

	// CLI flags (pre-filled values)
	projectFlag string
	viewFlag    domain.ViewMode

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	err           error
	loadingMsg    string

	// Setup state accumulated before the calendar shows
	pickedProject jira.Project
	pickedType    string

	// Cached models to preserve state across screen transitions
	calendarModel *CalendarModel
}

// NewAppModel creates a new app model. projectFlag pre-selects a project
// key and skips the picker.
func NewAppModel(client *jira.Client, s *store.Store, settings *store.SettingsFile, ctx context.Context, projectFlag string, view domain.ViewMode) AppModel {
	return AppModel{
		client:        client,
		store:         s,
		settings:      settings,
		ctx:           ctx,
		projectFlag:   projectFlag,
		viewFlag:      view,
		currentScreen: ScreenLoading,
		loadingMsg:    "Connecting to Jira...",
	}
}

// Init decides whether setup is needed or the calendar can show directly.
func (m AppModel) Init() tea.Cmd {
	settings := m.store.Settings()

	if m.projectFlag != "" {
		settings.WorkItemTypes = nil
		settings.Projects = []string{m.projectFlag}
		settings.ProjectKey = m.projectFlag
		m.store.SetSettings(settings)
	}

	// A usable work item selection means setup already happened.
	if len(settings.EffectiveWorkItems()) > 0 || m.projectFlag != "" {
		return func() tea.Msg { return setupDoneMsg{} }
	}

	return m.listProjects()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenCalendar {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case projectsLoadedMsg:
		m.currentScreen = ScreenProjectPicker
		pickerModel := NewProjectPickerModel(msg.projects)
		m.currentModel = pickerModel
		return m, pickerModel.Init()

	case ProjectSelectedMsg:
		m.pickedProject = msg.Project
		m.loadingMsg = fmt.Sprintf("Loading issue types for %s...", msg.Project.Key)
		m.currentModel = nil
		m.currentScreen = ScreenLoading
		return m, m.listIssueTypes(msg.Project.Key)

	case issueTypesLoadedMsg:
		m.currentScreen = ScreenTypePicker
		pickerModel := NewTypePickerModel(msg.types)
		m.currentModel = pickerModel
		return m, pickerModel.Init()

	case TypeSelectedMsg:
		m.pickedType = msg.Name
		m.loadingMsg = "Loading custom fields..."
		m.currentModel = nil
		m.currentScreen = ScreenLoading
		return m, m.listFields()

	case fieldsLoadedMsg:
		m.currentScreen = ScreenFieldPicker
		pickerModel := NewStartFieldPickerModel(msg.fields, m.store.Settings().Fields.StartField)
		m.currentModel = pickerModel
		return m, pickerModel.Init()

	case StartFieldSelectedMsg:
		m.persistSetup(msg.Field.ID)
		m.currentModel = nil
		return m, func() tea.Msg { return setupDoneMsg{} }

	case StartFieldSkippedMsg:
		m.persistSetup("")
		m.currentModel = nil
		return m, func() tea.Msg { return setupDoneMsg{} }

	case setupDoneMsg:
		m.currentScreen = ScreenCalendar
		calendarModel := NewCalendarModel(m.store, m.client, m.ctx, m.viewFlag)
		m.calendarModel = &calendarModel
		m.currentModel = m.calendarModel
		return m, calendarModel.Init()

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detailModel := NewDetailModel(msg.event, m.client.BaseURL())
		m.currentModel = detailModel
		return m, detailModel.Init()

	case closeDetailMsg:
		m.currentScreen = ScreenCalendar
		m.currentModel = m.calendarModel
		// Request window size to ensure proper rendering
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep calendarModel in sync when on calendar screen
		if m.currentScreen == ScreenCalendar {
			if cm, ok := m.currentModel.(CalendarModel); ok {
				m.calendarModel = &cm
			}
		}
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	// Show error if present
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	// Delegate to current screen
	if m.currentModel != nil {
		return m.currentModel.View()
	}

	// Show loading state
	return m.loadingMsg + "\n\nPress Ctrl+C to quit"
}

// listProjects creates a command to list the site's projects.
func (m AppModel) listProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.client.SearchProjects(m.ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to list projects: %w", err)}
		}

		if len(projects) == 0 {
			return ErrorMsg{Err: fmt.Errorf("no projects visible to this account")}
		}

		return projectsLoadedMsg{projects: projects}
	}
}

// persistSetup stores the picked work item type (and optionally a new
// start field mapping) so the next launch skips setup.
func (m *AppModel) persistSetup(startField string) {
	settings := m.store.Settings()
	settings.WorkItemTypes = []domain.WorkItemType{{
		Name:       m.pickedType,
		ProjectKey: m.pickedProject.Key,
		Kind:       domain.WorkItemIssueType,
	}}
	if startField != "" {
		settings.Fields.StartField = startField
	}
	m.store.SetSettings(settings)
	if err := m.settings.Save(m.store.Settings()); err != nil {
		logging.Warn("could not persist settings", "error", err)
	}
}

// listIssueTypes creates a command to load a project's issue types.
func (m AppModel) listIssueTypes(projectKey string) tea.Cmd {
	return func() tea.Msg {
		types, err := m.client.ProjectIssueTypes(m.ctx, projectKey)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load issue types: %w", err)}
		}

		if len(types) == 0 {
			return ErrorMsg{Err: fmt.Errorf("project %s has no issue types", projectKey)}
		}

		return issueTypesLoadedMsg{types: types}
	}
}

// listFields creates a command to load the site's custom fields for the
// start field mapping. A failure keeps the default mapping instead of
// blocking setup.
func (m AppModel) listFields() tea.Cmd {
	return func() tea.Msg {
		fields, err := m.client.ListCustomFields(m.ctx)
		if err != nil || len(fields) == 0 {
			if err != nil {
				logging.Warn("could not list custom fields, keeping default mapping", "error", err)
			}
			return StartFieldSkippedMsg{}
		}
		return fieldsLoadedMsg{fields: fields}
	}
}

// Custom messages for app transitions.
type (
	projectsLoadedMsg struct {
		projects []jira.Project
	}

	issueTypesLoadedMsg struct {
		types []jira.IssueType
	}

	fieldsLoadedMsg struct {
		fields []jira.Field
	}

	setupDoneMsg struct{}
)
