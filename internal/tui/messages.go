// Package tui provides Bubble Tea models for the interactive TUI. The Bubble
// Tea update loop is the single consumer that serializes every mutation of
// the list orchestrator; commands only run fetches and deliver their results
// back as messages.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/robby/ghl/internal/domain"
	"github.com/robby/ghl/internal/list"
)

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// initializedMsg carries the outcome of orchestrator initialization and the
// first page fetch of the initial refresh.
type initializedMsg struct {
	fetch *list.Fetch
	err   error
}

// pageMsg carries one completed item-page load back to the update loop.
type pageMsg struct {
	loaded list.PageLoaded
}

// authorsPageMsg carries one completed author-page load.
type authorsPageMsg struct {
	loaded list.AuthorsLoaded
}

// authorPickedMsg is emitted when the user picks an author filter.
// A nil author clears the filter.
type authorPickedMsg struct {
	author *domain.Actor
}

// closeAuthorPickerMsg returns from the author picker without a selection.
type closeAuthorPickerMsg struct{}

// runFetch executes one item-page fetch off the update loop.
func runFetch(f *list.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return pageMsg{loaded: f.Run()}
	}
}

// runAuthorFetch executes one author-page fetch off the update loop.
func runAuthorFetch(f *list.AuthorFetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return authorsPageMsg{loaded: f.Run()}
	}
}
