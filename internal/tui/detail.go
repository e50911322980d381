package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"

	"github.com/xalt/visitcal/internal/domain"
)

// Layout constants
const (
	leftPanelRatio = 0.4 // Left panel takes 40% of width
	minLeftWidth   = 32
	maxLeftWidth   = 52
	headerHeight   = 1
	footerHeight   = 1
	borderSize     = 2 // Top + bottom border
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	inferredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205"))
)

// DetailModel shows one visit event in a split-screen layout: metadata
// on the left, the flattened description in a scrollable panel on the
// right.
type DetailModel struct {
	event   *domain.VisitEvent
	baseURL string

	viewport viewport.Model

	width  int
	height int
}

// NewDetailModel creates a detail view for one event.
func NewDetailModel(event *domain.VisitEvent, baseURL string) DetailModel {
	vp := viewport.New(40, 10) // Resized on WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return DetailModel{
		event:    event,
		baseURL:  baseURL,
		viewport: vp,
	}
}

// Init requests the window size for the first layout pass.
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages.
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// resizeComponents recalculates the description viewport dimensions.
func (m *DetailModel) resizeComponents() {
	leftWidth := m.leftWidth()
	rightWidth := m.width - leftWidth - 3
	if rightWidth < 30 {
		rightWidth = 30
	}

	contentHeight := m.height - headerHeight - footerHeight - borderSize
	if contentHeight < 10 {
		contentHeight = 10
	}

	m.viewport.Width = rightWidth - borderSize - 2
	m.viewport.Height = contentHeight - borderSize
	m.updateViewportContent()
}

// handleKeyPress processes keyboard input.
func (m DetailModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "enter":
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "o":
		_ = browser.OpenURL(m.baseURL + "/browse/" + m.event.Key)
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d":
		m.viewport.HalfViewDown()
	case "ctrl+u":
		m.viewport.HalfViewUp()
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	}
	return m, nil
}

// View renders the split-screen detail view.
func (m DetailModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	leftWidth := m.leftWidth()
	rightWidth := width - leftWidth - 1

	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 10 {
		contentHeight = 10
	}

	header := dimStyle.Render("[q]back [o]open in browser [j/k]scroll [g/G]top/bottom")

	leftPanel := panelBorderStyle.
		Width(leftWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderMetadata(leftWidth - borderSize - 2))

	rightPanel := focusedPanelBorderStyle.
		Width(rightWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderDescription())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.renderFooter(width))
}

// leftWidth computes the metadata panel width.
func (m DetailModel) leftWidth() int {
	w := int(float64(m.width) * leftPanelRatio)
	if w < minLeftWidth {
		w = minLeftWidth
	}
	if w > maxLeftWidth {
		w = maxLeftWidth
	}
	return w
}

// renderMetadata renders the left panel: key, status, times and the
// mapped fields.
func (m DetailModel) renderMetadata(width int) string {
	ev := m.event
	var b strings.Builder

	b.WriteString(detailLabelStyle.Render(ev.Key))
	b.WriteString("\n\n")

	b.WriteString(detailTitleStyle.Render(wordwrap.String(ev.Summary, width)))
	b.WriteString("\n\n")

	b.WriteString(detailLabelStyle.Render("Status: "))
	b.WriteString(eventStyle(ev.Category, false).Render(ev.Status))
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("Start:  "))
	b.WriteString(detailValueStyle.Render(ev.Start.Format("Mon Jan 2, 2006 15:04")))
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("End:    "))
	b.WriteString(detailValueStyle.Render(ev.End.Format("Mon Jan 2, 2006 15:04")))
	if ev.EndInferred {
		b.WriteString(inferredStyle.Render(" (estimated)"))
	}
	b.WriteString("\n")

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label + ": "))
		b.WriteString(detailValueStyle.Render(truncate(value, width-len(label)-2)))
		b.WriteString("\n")
	}

	writeField("Site", ev.Site)
	writeField("Type", ev.VisitType)
	writeField("Visitor", ev.VisitorName)
	writeField("Assignee", ev.Assignee)

	if len(ev.CustomFields) > 0 {
		b.WriteString("\n")
		for _, cf := range ev.CustomFields {
			writeField(cf.Label, cf.Value)
		}
	}

	return b.String()
}

// renderDescription renders the right panel with the viewport.
func (m DetailModel) renderDescription() string {
	var b strings.Builder
	b.WriteString(detailLabelStyle.Render("Description"))
	b.WriteString("\n")

	if m.event.Description == "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("No description"))
		return b.String()
	}

	b.WriteString(m.viewport.View())
	return b.String()
}

// renderFooter renders the scroll position bar.
func (m DetailModel) renderFooter(width int) string {
	right := ""
	if m.event.Description != "" {
		switch {
		case m.viewport.AtTop():
			right = "TOP"
		case m.viewport.AtBottom():
			right = "END"
		default:
			right = fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		}
	}

	left := m.event.Key
	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return dimStyle.Render(left) + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// updateViewportContent rewraps the description for the current width.
func (m *DetailModel) updateViewportContent() {
	wrapWidth := m.viewport.Width - 2
	if wrapWidth < 30 {
		wrapWidth = 30
	}
	m.viewport.SetContent(detailValueStyle.Render(wordwrap.String(m.event.Description, wrapWidth)))
}
