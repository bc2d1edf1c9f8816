package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/robby/ghl/internal/domain"
	"github.com/robby/ghl/internal/list"
)

// Layout constants
const (
	pageJumpSize  = 10 // Number of items to jump with Ctrl+D/U
	chromeLines   = 3  // header + hint line + status line
	minAuthorArea = 12
)

// openAuthorPickerMsg asks the app to show the author picker overlay.
type openAuthorPickerMsg struct{}

// ListModel is the main item list view. All orchestrator mutations happen in
// Update; commands only run fetches.
type ListModel struct {
	orc       *list.Orchestrator
	kindLabel string // "issues" or "pull requests"

	// UI components
	keymap      KeyMap
	help        HelpModel
	spinner     spinner.Model
	searchInput textinput.Model

	// View state
	width      int
	height     int
	cursor     int
	scroll     int
	searchMode bool
	prevQuery  string // query to restore when search input is cancelled
	showHelp   bool
	errorToast string
}

// NewListModel creates the list view bound to an initialized orchestrator.
func NewListModel(orc *list.Orchestrator, kindLabel string) ListModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Search (#n for item number)..."
	ti.Prompt = "/ "

	return ListModel{
		orc:         orc,
		kindLabel:   kindLabel,
		keymap:      DefaultKeyMap(),
		help:        NewHelpModel(DefaultKeyMap()),
		spinner:     sp,
		searchInput: ti,
	}
}

// Init starts the spinner; the first page fetch is already in flight by the
// time the list is shown.
func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// Update handles messages.
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pageMsg:
		next, err := m.orc.Apply(msg.loaded)
		if err != nil {
			m.errorToast = fmt.Sprintf("Load failed: %v", err)
		}
		(&m).clampCursor()
		return m, runFetch(next)

	case authorPickedMsg:
		m.orc.SelectAuthor(msg.author)
		(&m).clampCursor()
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
func (m ListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Quit) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	// Search mode: every keystroke re-filters the live projection without
	// touching the item source.
	if m.searchMode {
		switch {
		case key.Matches(msg, m.keymap.ApplySearch):
			m.searchMode = false
			return m, nil
		case key.Matches(msg, m.keymap.CancelSearch):
			m.searchMode = false
			m.searchInput.SetValue(m.prevQuery)
			m.orc.SetSearchQuery(m.prevQuery)
			(&m).clampCursor()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.orc.SetSearchQuery(m.searchInput.Value())
			(&m).clampCursor()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true

	case key.Matches(msg, m.keymap.Search):
		m.searchMode = true
		m.prevQuery = m.orc.SearchQuery()
		m.searchInput.Focus()

	case key.Matches(msg, m.keymap.Down):
		(&m).moveCursor(1)

	case key.Matches(msg, m.keymap.Up):
		(&m).moveCursor(-1)

	case key.Matches(msg, m.keymap.Top):
		m.cursor = 0
		(&m).adjustScroll()

	case key.Matches(msg, m.keymap.Bottom):
		m.cursor = len(m.orc.VisibleItems()) - 1
		(&m).clampCursor()

	case key.Matches(msg, m.keymap.PageDown):
		(&m).moveCursor(pageJumpSize)

	case key.Matches(msg, m.keymap.PageUp):
		(&m).moveCursor(-pageJumpSize)

	case key.Matches(msg, m.keymap.Open):
		if it, ok := m.selectedItem(); ok {
			if err := m.orc.OpenItem(it); err != nil {
				m.errorToast = fmt.Sprintf("Open failed: %v", err)
			}
		}

	case key.Matches(msg, m.keymap.Refresh):
		m.errorToast = ""
		fetch, err := m.orc.Refresh()
		if err != nil {
			m.errorToast = err.Error()
			return m, nil
		}
		(&m).resetCursor()
		return m, runFetch(fetch)

	case key.Matches(msg, m.keymap.CycleState):
		return m.cycleState()

	case key.Matches(msg, m.keymap.SwitchFork):
		return m.switchFork()

	case key.Matches(msg, m.keymap.AuthorFilter):
		return m, func() tea.Msg { return openAuthorPickerMsg{} }
	}

	return m, nil
}

// cycleState advances SelectedState to the next valid state and starts the
// refresh that the state change requires.
func (m ListModel) cycleState() (tea.Model, tea.Cmd) {
	states := m.orc.ValidStates()
	current := m.orc.SelectedState()
	next := states[0]
	for i, s := range states {
		if s == current {
			next = states[(i+1)%len(states)]
			break
		}
	}

	fetch, err := m.orc.SetSelectedState(next)
	if err != nil {
		m.errorToast = err.Error()
		return m, nil
	}
	m.errorToast = ""
	(&m).resetCursor()
	return m, runFetch(fetch)
}

// switchFork toggles between the upstream repository and the local fork.
func (m ListModel) switchFork() (tea.Model, tea.Cmd) {
	forks := m.orc.Forks()
	if len(forks) == 0 {
		m.errorToast = "not a fork"
		return m, nil
	}

	target := forks[0]
	if target == m.orc.RemoteRepository() {
		target = forks[1]
	}

	fetch, err := m.orc.SwitchRemote(target)
	if err != nil {
		m.errorToast = err.Error()
		return m, nil
	}
	m.errorToast = ""
	(&m).resetCursor()
	return m, runFetch(fetch)
}

// moveCursor moves the selection by delta, clamped to the visible items.
func (m *ListModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// clampCursor keeps the selection inside the filtered view, which can shrink
// on any re-filter or refresh.
func (m *ListModel) clampCursor() {
	count := len(m.orc.VisibleItems())
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScroll()
}

func (m *ListModel) resetCursor() {
	m.cursor = 0
	m.scroll = 0
}

// adjustScroll ensures the selected row is visible.
func (m *ListModel) adjustScroll() {
	rows := m.visibleRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// visibleRows is the number of item rows that fit in the current window.
func (m *ListModel) visibleRows() int {
	height := m.height
	if height == 0 {
		height = 24
	}
	rows := height - chromeLines
	if m.searchMode {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// selectedItem returns the item under the cursor.
func (m ListModel) selectedItem() (domain.Item, bool) {
	visible := m.orc.VisibleItems()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return domain.Item{}, false
	}
	return visible[m.cursor], true
}

// View renders the list.
func (m ListModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	var sections []string
	sections = append(sections, m.renderHeader(width))
	sections = append(sections, m.renderHints(width))

	if m.searchMode {
		sections = append(sections, m.searchInput.View())
	}

	bodyHeight := height - chromeLines
	if m.searchMode {
		bodyHeight--
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case m.showHelp:
		body = m.help.View(width)
	case m.orc.IsLoading() && len(m.orc.Items()) == 0:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading "+m.kindLabel+"...")
	default:
		body = m.renderItems(width, bodyHeight)
	}
	sections = append(sections, body)

	sections = append(sections, m.renderStatusLine(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the listed repository and active filters on the left,
// load/count state on the right.
func (m ListModel) renderHeader(width int) string {
	title := fmt.Sprintf("%s · %s · %s", m.orc.RemoteRepository().NameWithOwner(), m.kindLabel, m.orc.SelectedState())
	if len(m.orc.Forks()) > 0 && m.orc.RemoteRepository() != m.orc.LocalRepository() {
		title += " (upstream)"
	}

	var statusParts []string
	if m.orc.IsBusy() {
		statusParts = append(statusParts, m.spinner.View()+"loading")
	}
	statusParts = append(statusParts, fmt.Sprintf("%d items", m.orc.FilteredCount()))
	if q := m.orc.SearchQuery(); strings.TrimSpace(q) != "" {
		statusParts = append(statusParts, "/"+q)
	}
	if a := m.orc.Authors().Selected(); a != nil {
		statusParts = append(statusParts, "@"+a.Login)
	}
	status := strings.Join(statusParts, " | ")

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}

	return TitleStyle.Render(title) + strings.Repeat(" ", padding) + DimStyle.Render(status)
}

// renderHints shows the key hints and either the error toast or the cursor
// position.
func (m ListModel) renderHints(width int) string {
	left := "j/k:move /:search s:state a:author u:fork o:open ?:help"

	right := ""
	if m.errorToast != "" {
		right = ErrorStyle.Render(m.errorToast)
	} else if count := len(m.orc.VisibleItems()); count > 0 {
		right = fmt.Sprintf("%d/%d", m.cursor+1, count)
	}

	padding := width - len(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return DimStyle.Render(left) + strings.Repeat(" ", padding) + right
}

// renderItems renders the visible window of filtered items.
func (m ListModel) renderItems(width, height int) string {
	visible := m.orc.VisibleItems()
	if len(visible) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.emptyMessage())
	}

	end := m.scroll + height
	if end > len(visible) {
		end = len(visible)
	}

	lines := make([]string, 0, height)
	for i := m.scroll; i < end; i++ {
		lines = append(lines, m.renderItemRow(visible[i], i == m.cursor, width))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// renderItemRow formats one row: number, title, author login right-aligned.
func (m ListModel) renderItemRow(it domain.Item, selected bool, width int) string {
	prefix := "  "
	style := NormalItemStyle
	if selected {
		prefix = "> "
		style = SelectedItemStyle
	}

	number := fmt.Sprintf("#%-6d", it.Number)
	author := it.Author.Login

	titleWidth := width - len(prefix) - len(number) - minAuthorArea - 2
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncate.StringWithTail(it.Title, uint(titleWidth), "…")

	padding := width - len(prefix) - len(number) - lipgloss.Width(title) - len(author) - 1
	if padding < 1 {
		padding = 1
	}

	return style.Render(prefix+number+title) + strings.Repeat(" ", padding) + DimStyle.Render(author)
}

// emptyMessage translates the derived status into user-facing text.
func (m ListModel) emptyMessage() string {
	switch m.orc.Message() {
	case domain.StatusNoItems:
		return StatusStyle.Render(fmt.Sprintf("There are no %s in this repository", m.kindLabel))
	case domain.StatusNoMatches:
		return StatusStyle.Render(fmt.Sprintf("No %s match the current filters", m.kindLabel))
	default:
		return ""
	}
}

// renderStatusLine shows the fork pair when one exists.
func (m ListModel) renderStatusLine(width int) string {
	forks := m.orc.Forks()
	if len(forks) == 0 {
		return ""
	}
	line := fmt.Sprintf("fork: %s ⇄ %s (u to switch)", forks[0].NameWithOwner(), forks[1].NameWithOwner())
	return DimStyle.Render(truncate.StringWithTail(line, uint(width), "…"))
}
