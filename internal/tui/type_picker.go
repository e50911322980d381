package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xalt/visitcal/internal/jira"
)

// TypeSelectedMsg is emitted when the user selects a work item type.
type TypeSelectedMsg struct {
	Name string
}

// typeItem wraps a jira.IssueType for use in bubbles/list.
type typeItem struct {
	issueType jira.IssueType
}

func (i typeItem) FilterValue() string {
	return i.issueType.Name
}

// typeDelegate is a custom item delegate for issue type items.
type typeDelegate struct{}

func (d typeDelegate) Height() int                             { return 1 }
func (d typeDelegate) Spacing() int                            { return 0 }
func (d typeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d typeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(typeItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.issueType.Name)
	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
	}
}

// TypePickerModel displays a project's issue types so the user can pick
// which one marks a visit. Skipped entirely when the settings already
// name one.
type TypePickerModel struct {
	list list.Model
	err  error
}

// NewTypePickerModel creates a new TypePickerModel.
func NewTypePickerModel(types []jira.IssueType) TypePickerModel {
	items := make([]list.Item, len(types))
	for i, t := range types {
		items[i] = typeItem{issueType: t}
	}

	l := list.New(items, typeDelegate{}, 80, 20)
	l.Title = "Which issue type holds your visits?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	l.Styles.HelpStyle = HelpStyle

	return TypePickerModel{
		list: l,
	}
}

// Init initializes the model.
func (m TypePickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m TypePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case "enter":
			if item, ok := m.list.SelectedItem().(typeItem); ok {
				return m, func() tea.Msg {
					return TypeSelectedMsg{Name: item.issueType.Name}
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
func (m TypePickerModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return m.list.View()
}
