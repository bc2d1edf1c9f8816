package tui

import (
	"context"
	"fmt"
	"io"

	blist "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/robby/ghl/internal/domain"
	"github.com/robby/ghl/internal/list"
)

// authorItem wraps one author candidate for use in bubbles/list. The zero
// login is the "anyone" entry that clears the filter.
type authorItem struct {
	author *domain.Actor
}

func (i authorItem) FilterValue() string {
	if i.author == nil {
		return "anyone"
	}
	return i.author.Login
}

// authorDelegate is a single-line item delegate for author candidates.
type authorDelegate struct{}

func (d authorDelegate) Height() int                              { return 1 }
func (d authorDelegate) Spacing() int                             { return 0 }
func (d authorDelegate) Update(_ tea.Msg, _ *blist.Model) tea.Cmd { return nil }
func (d authorDelegate) Render(w io.Writer, m blist.Model, index int, item blist.Item) {
	i, ok := item.(authorItem)
	if !ok {
		return
	}

	label := "(anyone)"
	if i.author != nil {
		label = i.author.Login
	}

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+label))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+label))
	}
}

// AuthorPickerModel lets the user pick an author filter from the lazily
// paged candidate cache. The cache belongs to the orchestrator's
// AuthorFilter and survives this picker.
type AuthorPickerModel struct {
	filter *list.AuthorFilter
	ctx    context.Context
	list   blist.Model
	err    error
}

// NewAuthorPickerModel creates a picker over the filter's candidate cache.
func NewAuthorPickerModel(ctx context.Context, filter *list.AuthorFilter) AuthorPickerModel {
	l := blist.New(nil, authorDelegate{}, 80, 20)
	l.Title = "Filter by author (L loads more, esc cancels)"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle

	m := AuthorPickerModel{
		filter: filter,
		ctx:    ctx,
		list:   l,
	}
	m.rebuildRows()
	return m
}

// Init fetches the first candidate page if none is cached yet.
func (m AuthorPickerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.WindowSize()}
	if len(m.filter.Candidates()) == 0 {
		cmds = append(cmds, runAuthorFetch(m.filter.FetchMore(m.ctx)))
	}
	return tea.Batch(cmds...)
}

// rebuildRows refreshes the picker rows from the candidate cache, keeping
// the "(anyone)" entry first.
func (m *AuthorPickerModel) rebuildRows() {
	candidates := m.filter.Candidates()
	items := make([]blist.Item, 0, len(candidates)+1)
	items = append(items, authorItem{})
	for i := range candidates {
		items = append(items, authorItem{author: &candidates[i]})
	}
	m.list.SetItems(items)
}

// Update handles messages and updates the model state.
func (m AuthorPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case authorsPageMsg:
		if err := m.filter.Apply(msg.loaded); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		(&m).rebuildRows()
		return m, nil

	case tea.KeyMsg:
		// Pass keystrokes through to the list while its fuzzy filter is
		// active.
		if m.list.FilterState() == blist.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return closeAuthorPickerMsg{} }
		case "L":
			return m, runAuthorFetch(m.filter.FetchMore(m.ctx))
		case "enter":
			if item, ok := m.list.SelectedItem().(authorItem); ok {
				return m, func() tea.Msg {
					return authorPickedMsg{author: item.author}
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

// View renders the picker.
func (m AuthorPickerModel) View() string {
	view := m.list.View()

	if m.filter.HasMore() {
		view += HelpStyle.Render("\nL: load more authors")
	}
	if m.err != nil {
		view += ErrorStyle.Render(fmt.Sprintf("\nError: %v", m.err))
	}

	return view
}
