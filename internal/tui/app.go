package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robby/ghl/internal/domain"
	"github.com/robby/ghl/internal/list"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenList
	ScreenAuthorPicker
)

// AppModel is the root Bubble Tea model. It runs orchestrator initialization
// (fork resolution plus the first refresh), then shows the list; the author
// picker is a temporary overlay screen on top of the same orchestrator.
type AppModel struct {
	orc       *list.Orchestrator
	ctx       context.Context
	repo      domain.RepositoryRef
	kindLabel string

	currentScreen AppScreen
	currentModel  tea.Model
	err           error

	// Cached list model to preserve cursor/search state across the picker.
	listModel *ListModel
}

// NewAppModel creates the root model for one repository and list flavor.
func NewAppModel(ctx context.Context, orc *list.Orchestrator, repo domain.RepositoryRef, kindLabel string) AppModel {
	return AppModel{
		orc:           orc,
		ctx:           ctx,
		repo:          repo,
		kindLabel:     kindLabel,
		currentScreen: ScreenLoading,
	}
}

// Init kicks off initialization: fork resolution, then the first refresh.
func (m AppModel) Init() tea.Cmd {
	return func() tea.Msg {
		fetch, err := m.orc.Initialize(m.ctx, m.repo)
		return initializedMsg{fetch: fetch, err: err}
	}
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler outside the list screen
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenList {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case initializedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to initialize %s list: %w", m.kindLabel, msg.err)
			return m, nil
		}
		m.currentScreen = ScreenList
		listModel := NewListModel(m.orc, m.kindLabel)
		m.listModel = &listModel
		m.currentModel = m.listModel
		return m, tea.Batch(listModel.Init(), runFetch(msg.fetch))

	case openAuthorPickerMsg:
		m.currentScreen = ScreenAuthorPicker
		pickerModel := NewAuthorPickerModel(m.ctx, m.orc.Authors())
		m.currentModel = pickerModel
		return m, pickerModel.Init()

	case authorPickedMsg:
		// Back to the list, which applies the selection on its own loop
		// pass.
		m.currentScreen = ScreenList
		m.currentModel = m.listModel
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		if lm, ok := m.currentModel.(ListModel); ok {
			m.listModel = &lm
		}
		return m, tea.Batch(cmd, tea.WindowSize())

	case closeAuthorPickerMsg:
		m.currentScreen = ScreenList
		m.currentModel = m.listModel
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep the cached list model in sync when on the list screen
		if m.currentScreen == ScreenList {
			if lm, ok := m.currentModel.(ListModel); ok {
				m.listModel = &lm
			}
		}
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	if m.currentModel != nil {
		return m.currentModel.View()
	}

	return fmt.Sprintf("Resolving %s...\n\nPress Ctrl+C to quit", m.repo.NameWithOwner())
}
