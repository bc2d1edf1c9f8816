package gh

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/pkg/browser"
	"github.com/robby/ghl/internal/domain"
	"github.com/robby/ghl/internal/list"
)

// errSourceClosed indicates a page fetch on a source whose refresh cycle has
// already been torn down.
var errSourceClosed = errors.New("item source closed")

// pageFunc fetches one page of items in the given API states.
type pageFunc func(ctx context.Context, repo domain.RepositoryRef, states []string, cursor string) (domain.ItemPage, error)

// itemSource adapts one list query into a per-refresh paged source. The
// repository and state filter are captured at creation, so a refresh
// triggered by a state or remote change always queries the new values.
// closed is atomic: NextPage runs on a fetch goroutine while Close is called
// from the owning loop during teardown.
type itemSource struct {
	fetch  pageFunc
	repo   domain.RepositoryRef
	states []string
	closed atomic.Bool
}

func (s *itemSource) NextPage(ctx context.Context, cursor string) (domain.ItemPage, error) {
	if s.closed.Load() {
		return domain.ItemPage{}, errSourceClosed
	}
	return s.fetch(ctx, s.repo, s.states, cursor)
}

func (s *itemSource) Close() error {
	s.closed.Store(true)
	return nil
}

// IssueFlavor lists a repository's issues.
type IssueFlavor struct {
	client *Client
}

// NewIssueFlavor creates the issue flavor.
func NewIssueFlavor(client *Client) *IssueFlavor {
	return &IssueFlavor{client: client}
}

// issueStates maps display state names to IssueState enum values.
var issueStates = map[string][]string{
	"Open":   {"OPEN"},
	"Closed": {"CLOSED"},
}

func (f *IssueFlavor) ValidStates() []string {
	return []string{"Open", "Closed"}
}

func (f *IssueFlavor) CreateItemSource(repo domain.RepositoryRef, state string) list.ItemSource {
	return &itemSource{fetch: f.client.ListIssues, repo: repo, states: issueStates[state]}
}

func (f *IssueFlavor) LoadAuthors(ctx context.Context, repo domain.RepositoryRef, cursor string) (domain.ActorPage, error) {
	return f.client.ListAssignableUsers(ctx, repo, cursor)
}

func (f *IssueFlavor) OpenItem(item domain.Item) error {
	return openURL(item.URL)
}

// PullRequestFlavor lists a repository's pull requests.
type PullRequestFlavor struct {
	client *Client
}

// NewPullRequestFlavor creates the pull request flavor.
func NewPullRequestFlavor(client *Client) *PullRequestFlavor {
	return &PullRequestFlavor{client: client}
}

// pullStates maps display state names to PullRequestState enum values.
var pullStates = map[string][]string{
	"Open":   {"OPEN"},
	"Merged": {"MERGED"},
	"Closed": {"CLOSED"},
}

func (f *PullRequestFlavor) ValidStates() []string {
	return []string{"Open", "Merged", "Closed"}
}

func (f *PullRequestFlavor) CreateItemSource(repo domain.RepositoryRef, state string) list.ItemSource {
	return &itemSource{fetch: f.client.ListPullRequests, repo: repo, states: pullStates[state]}
}

func (f *PullRequestFlavor) LoadAuthors(ctx context.Context, repo domain.RepositoryRef, cursor string) (domain.ActorPage, error) {
	return f.client.ListAssignableUsers(ctx, repo, cursor)
}

func (f *PullRequestFlavor) OpenItem(item domain.Item) error {
	return openURL(item.URL)
}

// openURL opens an item URL in the user's browser.
func openURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("item has no URL")
	}
	return browser.OpenURL(url)
}
