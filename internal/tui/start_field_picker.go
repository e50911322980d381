package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xalt/visitcal/internal/jira"
)

// StartFieldSelectedMsg is emitted when the user picks the custom field
// that holds the visit start time.
type StartFieldSelectedMsg struct {
	Field jira.Field
}

// StartFieldSkippedMsg is emitted when the user keeps the current mapping.
type StartFieldSkippedMsg struct{}

// fieldItem wraps a jira.Field for use in bubbles/list.
type fieldItem struct {
	field jira.Field
}

func (i fieldItem) FilterValue() string {
	return i.field.Name
}

// fieldDelegate is a custom item delegate for field items.
type fieldDelegate struct{}

func (d fieldDelegate) Height() int                             { return 1 }
func (d fieldDelegate) Spacing() int                            { return 0 }
func (d fieldDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d fieldDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(fieldItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%s (%s)", i.field.Name, i.field.ID)
	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
	}
}

// StartFieldPickerModel lets the user map the visit start time to one of
// the site's custom fields. Pressing s keeps the current mapping.
type StartFieldPickerModel struct {
	list    list.Model
	current string
	err     error
}

// NewStartFieldPickerModel creates a new StartFieldPickerModel. current
// is the field id of the existing mapping, shown in the title.
func NewStartFieldPickerModel(fields []jira.Field, current string) StartFieldPickerModel {
	items := make([]list.Item, len(fields))
	for i, f := range fields {
		items[i] = fieldItem{field: f}
	}

	l := list.New(items, fieldDelegate{}, 80, 20)
	l.Title = fmt.Sprintf("Which field holds the visit start time? [s: keep %s]", current)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	l.Styles.HelpStyle = HelpStyle

	return StartFieldPickerModel{
		list:    l,
		current: current,
	}
}

// Init initializes the model.
func (m StartFieldPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m StartFieldPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.list.SettingFilter() {
				return m, func() tea.Msg {
					return QuitMsg{}
				}
			}
		case "s":
			if !m.list.SettingFilter() {
				return m, func() tea.Msg {
					return StartFieldSkippedMsg{}
				}
			}
		case "enter":
			if item, ok := m.list.SelectedItem().(fieldItem); ok {
				return m, func() tea.Msg {
					return StartFieldSelectedMsg{Field: item.field}
				}
			}
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m StartFieldPickerModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return m.list.View()
}
