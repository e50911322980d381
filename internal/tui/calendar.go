package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/xalt/visitcal/internal/calendar"
	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/fetch"
	"github.com/xalt/visitcal/internal/ingest"
	"github.com/xalt/visitcal/internal/jira"
	"github.com/xalt/visitcal/internal/store"
)

// Layout constants
const (
	minCellWidth = 10
	headerLines  = 2 // Title line + weekday header
	maxEventRows = 8 // Cap on stacked event rows per week before "+N more"
	hourGutter   = 6 // Width of the hour label column in the week views
)

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// CalendarModel is the main calendar view: a month or week grid with
// visit events packed into rows.
type CalendarModel struct {
	// Dependencies
	store  *store.Store
	client *jira.Client
	ctx    context.Context

	// UI components
	keymap  KeyMap
	help    HelpModel
	spinner spinner.Model

	// Calendar state
	mode     domain.ViewMode
	anchor   time.Time // Any date inside the shown period
	selected time.Time // Cursor day
	selEvent int       // Cursor event index within the selected day

	// Derived layout, rebuilt on every data or navigation change
	grid calendar.Grid
	rows calendar.RowAssignment

	// View state
	width      int
	height     int
	showHelp   bool
	loading    bool
	errorToast string

	now func() time.Time
}

// NewCalendarModel creates the calendar view anchored on today.
func NewCalendarModel(s *store.Store, client *jira.Client, ctx context.Context, mode domain.ViewMode) CalendarModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := CalendarModel{
		store:   s,
		client:  client,
		ctx:     ctx,
		keymap:  DefaultKeyMap(),
		help:    NewHelpModel(DefaultKeyMap()),
		spinner: sp,
		mode:    mode,
		loading: true,
		now:     time.Now,
	}
	m.anchor = calendar.StartOfDay(m.now())
	m.selected = m.anchor
	m.rebuildLayout()
	return m
}

// Init starts the spinner and the first fetch.
func (m CalendarModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.WindowSize(),
		m.startFetch(),
	)
}

// Update handles messages.
func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case eventsLoadedMsg:
		if m.store.ReplaceEvents(msg.generation, msg.events, msg.report.Dropped) {
			m.loading = false
			m.errorToast = ""
			(&m).rebuildLayout()
		}
		return m, nil

	case eventsErrorMsg:
		m.loading = false
		m.errorToast = fmt.Sprintf("Fetch failed: %v", msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m CalendarModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Help overlay swallows everything else
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "h", "left":
		return m.moveSelection(-1)
	case "l", "right":
		return m.moveSelection(1)
	case "k", "up":
		return m.moveSelection(-7)
	case "j", "down":
		return m.moveSelection(7)
	case "[", "pgup":
		return m.shiftPeriod(-1)
	case "]", "pgdown":
		return m.shiftPeriod(1)
	case "t":
		m.anchor = calendar.StartOfDay(m.now())
		m.selected = m.anchor
		m.selEvent = 0
		m.loading = true
		(&m).rebuildLayout()
		return m, m.startFetch()
	case "v":
		m.mode = nextViewMode(m.mode)
		m.loading = true
		(&m).rebuildLayout()
		return m, m.startFetch()
	case "tab":
		(&m).cycleEvent(1)
	case "shift+tab":
		(&m).cycleEvent(-1)
	case "r":
		m.loading = true
		return m, m.startFetch()
	case "o":
		if ev := m.selectedEvent(); ev != nil {
			_ = browser.OpenURL(m.client.BaseURL() + "/browse/" + ev.Key)
		}
	case "enter":
		if ev := m.selectedEvent(); ev != nil {
			return m, func() tea.Msg { return openDetailMsg{event: ev} }
		}
	}

	return m, nil
}

// moveSelection moves the cursor day, shifting the period when the
// cursor leaves the visible window.
func (m CalendarModel) moveSelection(days int) (tea.Model, tea.Cmd) {
	m.selected = m.selected.AddDate(0, 0, days)
	m.selEvent = 0

	if m.selected.Before(m.grid.First()) || m.selected.After(m.grid.Last()) {
		m.anchor = m.selected
		m.loading = true
		(&m).rebuildLayout()
		return m, m.startFetch()
	}
	return m, nil
}

// shiftPeriod moves one whole month or week in either direction.
func (m CalendarModel) shiftPeriod(dir int) (tea.Model, tea.Cmd) {
	if m.mode == domain.ViewMonth {
		m.anchor = time.Date(m.anchor.Year(), m.anchor.Month(), 1, 0, 0, 0, 0, m.anchor.Location()).AddDate(0, dir, 0)
	} else {
		m.anchor = m.anchor.AddDate(0, 0, 7*dir)
	}
	m.selected = m.anchor
	m.selEvent = 0
	m.loading = true
	(&m).rebuildLayout()
	return m, m.startFetch()
}

// cycleEvent moves the event cursor within the selected day.
func (m *CalendarModel) cycleEvent(dir int) {
	ids := m.store.DayEventIDs(calendar.KeyFor(m.selected))
	if len(ids) == 0 {
		return
	}
	m.selEvent = (m.selEvent + dir + len(ids)) % len(ids)
}

// selectedEvent returns the event under the cursor, or nil.
func (m CalendarModel) selectedEvent() *domain.VisitEvent {
	ids := m.store.DayEventIDs(calendar.KeyFor(m.selected))
	if len(ids) == 0 {
		return nil
	}
	idx := m.selEvent
	if idx >= len(ids) {
		idx = 0
	}
	ev, err := m.store.GetEvent(ids[idx])
	if err != nil {
		return nil
	}
	return ev
}

// rebuildLayout recomputes the grid and row packing from the store.
func (m *CalendarModel) rebuildLayout() {
	now := m.now()
	switch m.mode {
	case domain.ViewMonth:
		m.grid = calendar.MonthGrid(m.anchor, now)
	case domain.ViewFullWeek:
		m.grid = calendar.WeekGrid(m.anchor, now, true)
	default:
		m.grid = calendar.WeekGrid(m.anchor, now, false)
	}

	events := m.store.EventsInRange(m.grid.First(), m.grid.Last())
	m.rows = calendar.AssignRows(events, m.grid)
}

// startFetch issues a new fetch generation for the visible window.
// Callers flip the loading flag themselves; this only builds the command.
func (m CalendarModel) startFetch() tea.Cmd {
	generation := m.store.NextGeneration()
	settings := m.store.Settings()

	start, end := calendar.VisibleWindow(m.anchor, m.now(), m.mode)

	return func() tea.Msg {
		issues, err := fetch.Visits(m.ctx, m.client, settings, start, end)
		if err != nil {
			return eventsErrorMsg{generation: generation, err: err}
		}
		events, report := ingest.Issues(issues, settings)
		return eventsLoadedMsg{generation: generation, events: events, report: report}
	}
}

// nextViewMode cycles month -> week -> fullweek -> month.
func nextViewMode(mode domain.ViewMode) domain.ViewMode {
	switch mode {
	case domain.ViewMonth:
		return domain.ViewWeek
	case domain.ViewWeek:
		return domain.ViewFullWeek
	default:
		return domain.ViewMonth
	}
}

// View renders the calendar.
func (m CalendarModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	var sections []string
	sections = append(sections, m.renderHeader(width))
	sections = append(sections, m.renderWeekdayHeader(width))

	bodyHeight := height - headerLines - 1 // footer
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	if m.showHelp {
		sections = append(sections, m.help.View(width))
	} else if m.loading && len(m.store.AllEvents()) == 0 {
		sections = append(sections, lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading visits..."))
	} else {
		sections = append(sections, m.renderGrid(width, bodyHeight))
	}

	sections = append(sections, m.renderFooter(width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the period title and fetch status.
func (m CalendarModel) renderHeader(width int) string {
	var title string
	switch m.mode {
	case domain.ViewMonth:
		title = m.anchor.Format("January 2006")
	default:
		monday := calendar.StartOfWeek(m.anchor)
		title = fmt.Sprintf("Week of %s", monday.Format("Jan 2, 2006"))
	}

	var statusParts []string
	if m.loading {
		statusParts = append(statusParts, m.spinner.View()+"fetching")
	}
	statusParts = append(statusParts, fmt.Sprintf("%d visits", len(m.store.AllEvents())))
	if d := m.store.DroppedCount(); d > 0 {
		statusParts = append(statusParts, fmt.Sprintf("%d skipped", d))
	}
	if m.errorToast != "" {
		statusParts = append(statusParts, errorStyle.Render(m.errorToast))
	}
	statusParts = append(statusParts, "[?]help")
	status := strings.Join(statusParts, " | ")

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

// renderWeekdayHeader renders the Mon..Sun column captions. The week
// views prefix the hour gutter so columns line up with the event grid.
func (m CalendarModel) renderWeekdayHeader(width int) string {
	cols := m.columnsShown()
	cellWidth := m.cellWidth(width)

	var b strings.Builder
	if m.mode != domain.ViewMonth {
		b.WriteString(strings.Repeat(" ", hourGutter))
	}
	for i := 0; i < cols; i++ {
		label := weekdayNames[i]
		if m.mode != domain.ViewMonth && i < len(m.grid.Weeks[0]) {
			label = m.grid.Weeks[0][i].Date.Format("Mon 2")
		}
		b.WriteString(dimStyle.Render(padCell(label, cellWidth)))
	}
	return b.String()
}

// renderFooter renders the selected day and its event count.
func (m CalendarModel) renderFooter(width int) string {
	left := m.selected.Format("Mon Jan 2, 2006")
	ids := m.store.DayEventIDs(calendar.KeyFor(m.selected))
	if len(ids) > 0 {
		left = fmt.Sprintf("%s | event %d/%d", left, m.selEvent+1, len(ids))
	}

	right := "h/l:day j/k:week [/]:period t:today v:view enter:details"
	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return dimStyle.Render(left) + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// renderGrid renders the current period: stacked week rows for the
// month view, hour-bucketed rows for the week views.
func (m CalendarModel) renderGrid(width, height int) string {
	if m.mode != domain.ViewMonth {
		return m.renderHourGrid(width, height)
	}

	cellWidth := m.cellWidth(width)
	weekRows := make([]string, 0, len(m.grid.Weeks))

	// Distribute the height across week rows, at least the day number
	// line plus one event row each.
	perWeek := height / len(m.grid.Weeks)
	if perWeek < 2 {
		perWeek = 2
	}

	for _, week := range m.grid.Weeks {
		weekRows = append(weekRows, m.renderWeek(week, cellWidth, perWeek))
	}
	return strings.Join(weekRows, "\n")
}

// renderWeek renders one week: a day number line followed by the packed
// event rows, sized to the tallest stack in this week.
func (m CalendarModel) renderWeek(week calendar.Week, cellWidth, maxLines int) string {
	var lines []string
	lines = append(lines, m.renderDayNumbers(week, cellWidth))

	rowCount := m.rows.MaxRow(week) + 1
	if rowCount > maxEventRows {
		rowCount = maxEventRows
	}
	if rowCount > maxLines-1 {
		rowCount = maxLines - 1
	}

	for row := 0; row < rowCount; row++ {
		lines = append(lines, m.renderEventRow(m.rows, week, row, cellWidth))
	}

	// Overflow marker when the cap cut rows off
	if m.rows.MaxRow(week)+1 > rowCount {
		var cells []string
		for _, day := range week {
			hidden := m.rows.MaxRow([]calendar.Day{day}) + 1 - rowCount
			if hidden > 0 {
				cells = append(cells, dimStyle.Render(padCell(fmt.Sprintf("+%d more", hidden), cellWidth)))
			} else {
				cells = append(cells, padCell("", cellWidth))
			}
		}
		lines = append(lines, strings.Join(cells, ""))
	}

	return strings.Join(lines, "\n")
}

// renderDayNumbers renders the date line of a week.
func (m CalendarModel) renderDayNumbers(week calendar.Week, cellWidth int) string {
	var cells []string
	for _, day := range week {
		label := fmt.Sprintf("%2d", day.Date.Day())

		style := dayNumberStyle
		switch {
		case day.Today:
			style = todayStyle
			label += " •"
		case day.Faded:
			style = fadedDayStyle
		}
		if calendar.SameDay(day.Date, m.selected) {
			style = selectedDayStyle
		}

		cells = append(cells, style.Render(padCell(label, cellWidth)))
	}
	return strings.Join(cells, "")
}

// renderHourGrid renders the week views: events grouped by starting
// hour, each bucket packed independently so visits at different times
// of day never compete for rows.
func (m CalendarModel) renderHourGrid(width, height int) string {
	week := m.grid.Weeks[0]
	cellWidth := m.cellWidth(width)

	events := m.store.EventsInRange(m.grid.First(), m.grid.Last())
	buckets := calendar.HourBuckets(events)
	if len(buckets) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			dimStyle.Render("No visits this week"))
	}

	var lines []string
	for hour := 0; hour < 24; hour++ {
		bucket, ok := buckets[hour]
		if !ok {
			continue
		}

		ra := calendar.AssignRows(bucket, m.grid)
		rowCount := ra.MaxRow(week) + 1
		for row := 0; row < rowCount; row++ {
			gutter := strings.Repeat(" ", hourGutter)
			if row == 0 {
				gutter = dimStyle.Render(padCell(fmt.Sprintf("%02d:00", hour), hourGutter))
			}
			lines = append(lines, gutter+m.renderEventRow(ra, week, row, cellWidth))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// renderEventRow renders one packed row across a week. An event bar
// shows its label on the first visible day and a continuation dash on
// the rest of its span.
func (m CalendarModel) renderEventRow(rows calendar.RowAssignment, week calendar.Week, row, cellWidth int) string {
	barFields := m.store.Settings().BarFields.Monthly
	if m.mode != domain.ViewMonth {
		barFields = m.store.Settings().BarFields.Weekly
	}

	var cells []string
	for i, day := range week {
		cell := padCell("", cellWidth)

		for _, id := range rows.DayEvents[day.Key()] {
			r, ok := rows.RowFor(id)
			if !ok || r != row {
				continue
			}
			ev, err := m.store.GetEvent(id)
			if err != nil {
				break
			}

			span := rows.Spans[id]
			first := len(span) > 0 && span[0] == day.Key()
			label := "─"
			if first || i == 0 {
				label = barLabel(*ev, barFields, cellWidth-1)
			}

			selected := calendar.SameDay(day.Date, m.selected) && m.isCursorEvent(id)
			cell = eventStyle(ev.Category, selected).Render(padCell(label, cellWidth))
			break
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "")
}

// isCursorEvent reports whether the id is the event under the cursor.
func (m CalendarModel) isCursorEvent(id string) bool {
	ids := m.store.DayEventIDs(calendar.KeyFor(m.selected))
	idx := m.selEvent
	if idx >= len(ids) {
		idx = 0
	}
	return len(ids) > 0 && ids[idx] == id
}

// barLabel builds the text on an event bar: the summary plus the
// configured extra fields, truncated to the cell.
func barLabel(ev domain.VisitEvent, barFields []string, maxWidth int) string {
	parts := []string{ev.Summary}
	for _, f := range barFields {
		if v := barFieldValue(ev, f); v != "" {
			parts = append(parts, v)
		}
	}
	return truncate(strings.Join(parts, " · "), maxWidth)
}

// barFieldValue resolves a configured bar field name against an event.
func barFieldValue(ev domain.VisitEvent, field string) string {
	switch field {
	case "site":
		return ev.Site
	case "typeOfVisit":
		return ev.VisitType
	case "visitorName":
		return ev.VisitorName
	case "assignee":
		return ev.Assignee
	case "status":
		return ev.Status
	}
	for _, cf := range ev.CustomFields {
		if cf.ID == field {
			return cf.Value
		}
	}
	return ""
}

// columnsShown returns how many day columns the current view has.
func (m CalendarModel) columnsShown() int {
	if len(m.grid.Weeks) == 0 {
		return 7
	}
	return len(m.grid.Weeks[0])
}

// cellWidth divides the terminal width across day columns, reserving
// the hour gutter in the week views.
func (m CalendarModel) cellWidth(width int) int {
	if m.mode != domain.ViewMonth {
		width -= hourGutter
	}
	w := width / m.columnsShown()
	if w < minCellWidth {
		w = minCellWidth
	}
	return w
}

// padCell pads or truncates s to exactly width columns.
func padCell(s string, width int) string {
	s = truncate(s, width-1)
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// truncate shortens s to at most max columns with an ellipsis.
func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
