package list

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/ghl/internal/domain"
)

// fakeSource serves pre-built item pages keyed by cursor and records its
// lifecycle.
type fakeSource struct {
	pages   map[string]domain.ItemPage
	errs    map[string]error
	calls   []string
	lastCtx context.Context
	closed  bool
}

func (s *fakeSource) NextPage(ctx context.Context, cursor string) (domain.ItemPage, error) {
	s.calls = append(s.calls, cursor)
	s.lastCtx = ctx
	if err := s.errs[cursor]; err != nil {
		return domain.ItemPage{}, err
	}
	return s.pages[cursor], nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

// fakeFlavor scripts pages per state and records every created source and
// opened item.
type fakeFlavor struct {
	states       []string
	pagesByState map[string]map[string]domain.ItemPage
	errsByState  map[string]map[string]error
	authorPages  map[string]domain.ActorPage

	sources     []*fakeSource
	repos       []domain.RepositoryRef
	authorRepos []domain.RepositoryRef
	opened      []domain.Item
	openErr     error
}

func (f *fakeFlavor) ValidStates() []string {
	return f.states
}

func (f *fakeFlavor) CreateItemSource(repo domain.RepositoryRef, state string) ItemSource {
	src := &fakeSource{pages: f.pagesByState[state], errs: f.errsByState[state]}
	f.sources = append(f.sources, src)
	f.repos = append(f.repos, repo)
	return src
}

func (f *fakeFlavor) LoadAuthors(ctx context.Context, repo domain.RepositoryRef, cursor string) (domain.ActorPage, error) {
	f.authorRepos = append(f.authorRepos, repo)
	return f.authorPages[cursor], nil
}

func (f *fakeFlavor) OpenItem(item domain.Item) error {
	f.opened = append(f.opened, item)
	return f.openErr
}

// fakeResolver scripts the parent-owner lookup.
type fakeResolver struct {
	parent string
	err    error
	calls  int
}

func (r *fakeResolver) ResolveParentOwnerLogin(ctx context.Context, repo domain.RepositoryRef) (string, error) {
	r.calls++
	return r.parent, r.err
}

func localRepo() domain.RepositoryRef {
	return domain.RepositoryRef{Host: "github.com", Owner: "alice", Name: "widgets"}
}

// newTestFlavor scripts a single open page holding the classic two items.
func newTestFlavor() *fakeFlavor {
	return &fakeFlavor{
		states: []string{"Open", "Closed"},
		pagesByState: map[string]map[string]domain.ItemPage{
			"Open": {
				"": {Items: []domain.Item{
					{Number: 1, Title: "Fix bug", Author: domain.Actor{Login: "alice"}},
					{Number: 2, Title: "Add feature", Author: domain.Actor{Login: "bob"}},
				}},
			},
			"Closed": {
				"": {Items: []domain.Item{
					{Number: 3, Title: "Old bug", Author: domain.Actor{Login: "alice"}},
				}},
			},
		},
	}
}

// drain runs the fetch chain to completion, applying each page in order.
func drain(t *testing.T, o *Orchestrator, fetch *Fetch) {
	t.Helper()
	for fetch != nil {
		next, err := o.Apply(fetch.Run())
		require.NoError(t, err)
		fetch = next
	}
}

func initialized(t *testing.T, flavor Flavor, resolver ParentResolver) *Orchestrator {
	t.Helper()
	o := New(flavor, resolver)
	fetch, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)
	drain(t, o, fetch)
	return o
}

func visibleNumbers(o *Orchestrator) []int {
	var numbers []int
	for _, it := range o.VisibleItems() {
		numbers = append(numbers, it.Number)
	}
	return numbers
}

func TestInitialize_NotAFork(t *testing.T) {
	flavor := newTestFlavor()
	resolver := &fakeResolver{}
	o := New(flavor, resolver)

	fetch, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)
	require.NotNil(t, fetch)

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, localRepo(), o.RemoteRepository())
	assert.Empty(t, o.Forks())
	assert.Equal(t, "Open", o.SelectedState())
	assert.True(t, o.IsLoading())
	assert.True(t, o.IsBusy())

	drain(t, o, fetch)
	assert.False(t, o.IsLoading())
	assert.False(t, o.IsBusy())
	assert.Equal(t, []int{1, 2}, visibleNumbers(o))
}

func TestInitialize_ForkResolvesUpstream(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{parent: "upstream"})

	want := domain.RepositoryRef{Host: "github.com", Owner: "upstream", Name: "widgets"}
	assert.Equal(t, want, o.RemoteRepository())
	require.Len(t, o.Forks(), 2)
	assert.Equal(t, want, o.Forks()[0])
	assert.Equal(t, localRepo(), o.Forks()[1])

	// Items are fetched from the upstream repository
	require.NotEmpty(t, flavor.repos)
	assert.Equal(t, want, flavor.repos[0])
}

func TestInitialize_ResolverFailurePropagates(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("network down")}
	o := New(newTestFlavor(), resolver)

	fetch, err := o.Initialize(context.Background(), localRepo())
	assert.ErrorContains(t, err, "network down")
	assert.Nil(t, fetch)

	// No partial state is callable
	_, err = o.Refresh()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Equal(t, domain.RepositoryRef{}, o.RemoteRepository())
}

func TestRefresh_SupersededResultsNeverObserved(t *testing.T) {
	flavor := newTestFlavor()
	o := New(flavor, &fakeResolver{})

	first, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)

	// A second refresh begins before the first page arrives
	second, err := o.Refresh()
	require.NoError(t, err)

	// The first cycle's source is closed and its context cancelled
	require.Len(t, flavor.sources, 2)
	assert.True(t, flavor.sources[0].closed)

	// The stale result is dropped: no follow-up fetch, no items delivered
	stale := first.Run()
	next, err := o.Apply(stale)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Empty(t, o.VisibleItems())
	assert.True(t, o.IsLoading())

	drain(t, o, second)
	assert.Equal(t, []int{1, 2}, visibleNumbers(o))
	assert.False(t, flavor.sources[1].closed)
}

func TestRefresh_CancelsPriorFetchContext(t *testing.T) {
	flavor := newTestFlavor()
	o := New(flavor, &fakeResolver{})

	first, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)
	_ = first.Run() // records the fetch context

	_, err = o.Refresh()
	require.NoError(t, err)

	select {
	case <-flavor.sources[0].lastCtx.Done():
	default:
		t.Fatal("previous generation's context not cancelled")
	}
}

func TestSearch_RefilterWithoutRefetch(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{})
	require.Len(t, flavor.sources, 1)

	o.SetSearchQuery("fix")
	assert.Equal(t, []int{1}, visibleNumbers(o))

	o.SetSearchQuery("#2")
	assert.Equal(t, []int{2}, visibleNumbers(o))

	o.SetSearchQuery("")
	assert.Equal(t, []int{1, 2}, visibleNumbers(o))

	// No additional source was ever created
	assert.Len(t, flavor.sources, 1)
	assert.Len(t, o.Items(), 2)
}

func TestSearch_InFlightPagesUseLatestPredicate(t *testing.T) {
	flavor := newTestFlavor()
	o := New(flavor, &fakeResolver{})

	fetch, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)

	// The query changes while the first page is still in flight; the page
	// must land through the newer predicate
	loaded := fetch.Run()
	o.SetSearchQuery("feature")

	next, err := o.Apply(loaded)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []int{2}, visibleNumbers(o))
}

func TestSelectAuthor_RestrictsAndRestores(t *testing.T) {
	o := initialized(t, newTestFlavor(), &fakeResolver{})

	o.SelectAuthor(&domain.Actor{Login: "BOB"})
	assert.Equal(t, []int{2}, visibleNumbers(o))

	// Author composes with the text stage
	o.SetSearchQuery("fix")
	assert.Empty(t, visibleNumbers(o))

	o.SelectAuthor(nil)
	assert.Equal(t, []int{1}, visibleNumbers(o))
}

func TestSetSelectedState(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{})

	// Invalid state is rejected without a refresh
	_, err := o.SetSelectedState("Merged")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, flavor.sources, 1)

	// Unchanged state is a no-op
	fetch, err := o.SetSelectedState("Open")
	require.NoError(t, err)
	assert.Nil(t, fetch)
	assert.Len(t, flavor.sources, 1)

	// A real change tears down the old source and queries the new state
	fetch, err = o.SetSelectedState("Closed")
	require.NoError(t, err)
	require.NotNil(t, fetch)
	assert.True(t, flavor.sources[0].closed)
	drain(t, o, fetch)
	assert.Equal(t, []int{3}, visibleNumbers(o))
}

func TestSwitchRemote(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{parent: "upstream"})

	// A ref outside the fork pair is rejected
	_, err := o.SwitchRemote(domain.RepositoryRef{Host: "github.com", Owner: "stranger", Name: "widgets"})
	assert.ErrorIs(t, err, ErrUnknownRemote)

	// Switching to the current remote is a no-op
	fetch, err := o.SwitchRemote(o.Forks()[0])
	require.NoError(t, err)
	assert.Nil(t, fetch)

	// Switching to the local fork refreshes against it
	fetch, err = o.SwitchRemote(o.Forks()[1])
	require.NoError(t, err)
	require.NotNil(t, fetch)
	assert.Equal(t, localRepo(), o.RemoteRepository())
	drain(t, o, fetch)
	assert.Equal(t, localRepo(), flavor.repos[len(flavor.repos)-1])
}

func TestSwitchRemote_NotAFork(t *testing.T) {
	o := initialized(t, newTestFlavor(), &fakeResolver{})

	_, err := o.SwitchRemote(localRepo())
	assert.ErrorIs(t, err, ErrUnknownRemote)
}

func TestMultiPageFetchChain(t *testing.T) {
	flavor := &fakeFlavor{
		states: []string{"Open"},
		pagesByState: map[string]map[string]domain.ItemPage{
			"Open": {
				"": {
					Items:      []domain.Item{{Number: 1, Title: "One", Author: domain.Actor{Login: "a"}}},
					NextCursor: "p2",
					HasNext:    true,
				},
				"p2": {
					Items: []domain.Item{{Number: 2, Title: "Two", Author: domain.Actor{Login: "b"}}},
				},
			},
		},
	}
	o := New(flavor, &fakeResolver{})

	fetch, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)

	next, err := o.Apply(fetch.Run())
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, o.IsLoading(), "loading holds until the source is exhausted")
	assert.Equal(t, 1, o.FilteredCount())

	last, err := o.Apply(next.Run())
	require.NoError(t, err)
	assert.Nil(t, last)
	assert.False(t, o.IsLoading())
	assert.Equal(t, 2, o.FilteredCount())
	assert.Equal(t, []string{"", "p2"}, flavor.sources[0].calls)
}

func TestFetchFailure_PropagatesAndResolvesLoading(t *testing.T) {
	flavor := newTestFlavor()
	flavor.errsByState = map[string]map[string]error{
		"Open": {"": errors.New("rate limited")},
	}
	o := New(flavor, &fakeResolver{})

	fetch, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)

	next, err := o.Apply(fetch.Run())
	assert.ErrorContains(t, err, "rate limited")
	assert.Nil(t, next)
	assert.False(t, o.IsLoading())
	assert.False(t, o.IsBusy())
	// An errored-empty view classifies like a genuinely empty one
	assert.Equal(t, domain.StatusNoItems, o.Message())
}

func TestStatusMessages(t *testing.T) {
	flavor := &fakeFlavor{
		states: []string{"Open", "Closed"},
		pagesByState: map[string]map[string]domain.ItemPage{
			"Open":   {"": {}},
			"Closed": {"": {}},
		},
	}
	o := New(flavor, &fakeResolver{})

	fetch, err := o.Initialize(context.Background(), localRepo())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNone, o.Message(), "no classification while loading")

	drain(t, o, fetch)
	assert.Equal(t, domain.StatusNoItems, o.Message())

	o.SetSearchQuery("#5")
	assert.Equal(t, domain.StatusNoMatches, o.Message())

	o.SetSearchQuery("")
	assert.Equal(t, domain.StatusNoItems, o.Message())

	fetch, err = o.SetSelectedState("Closed")
	require.NoError(t, err)
	drain(t, o, fetch)
	assert.Equal(t, domain.StatusNoMatches, o.Message(), "non-default state counts as a filter")
}

// TestListScenario walks the end-to-end filtering scenario: text, number,
// and author filters over a two-item repository.
func TestListScenario(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{})

	assert.Equal(t, []int{1, 2}, visibleNumbers(o))
	assert.Equal(t, domain.StatusNone, o.Message())

	o.SetSearchQuery("#2")
	assert.Equal(t, []int{2}, visibleNumbers(o))

	o.SetSearchQuery("fix")
	assert.Equal(t, []int{1}, visibleNumbers(o))

	o.SetSearchQuery("")
	o.SelectAuthor(&domain.Actor{Login: "bob"})
	assert.Equal(t, []int{2}, visibleNumbers(o))

	o.SelectAuthor(nil)
	o.SetSearchQuery("zzz")
	assert.Empty(t, visibleNumbers(o))

	fetch, err := o.SetSelectedState("Closed")
	require.NoError(t, err)
	drain(t, o, fetch)
	assert.Empty(t, visibleNumbers(o), "closed items do not contain zzz either")
	assert.Equal(t, domain.StatusNoMatches, o.Message())
}

func TestOpenItem(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{})

	// Invalid candidates are a silent no-op
	require.NoError(t, o.OpenItem(domain.Item{}))
	assert.Empty(t, flavor.opened)

	item := o.VisibleItems()[0]
	require.NoError(t, o.OpenItem(item))
	require.Len(t, flavor.opened, 1)
	assert.Equal(t, item, flavor.opened[0])

	// Open failures propagate to the caller
	flavor.openErr = errors.New("no browser")
	assert.ErrorContains(t, o.OpenItem(item), "no browser")
}

func TestAuthorFetch_ConcurrentWithRemoteSwitch(t *testing.T) {
	flavor := newTestFlavor()
	flavor.authorPages = map[string]domain.ActorPage{
		"":   {Actors: []domain.Actor{{Login: "alice"}}, NextCursor: "p2", HasNext: true},
		"p2": {Actors: []domain.Actor{{Login: "bob"}}},
	}
	o := initialized(t, flavor, &fakeResolver{parent: "upstream"})
	upstream := o.RemoteRepository()

	// The candidate fetch runs on its own goroutine while the loop switches
	// remotes; the fetch must hold its own copy of the repository
	pending := o.Authors().FetchMore(context.Background())
	require.NotNil(t, pending)
	results := make(chan AuthorsLoaded, 1)
	go func() { results <- pending.Run() }()

	refresh, err := o.SwitchRemote(o.Forks()[1])
	require.NoError(t, err)
	drain(t, o, refresh)

	require.NoError(t, o.Authors().Apply(<-results))
	assert.Equal(t, upstream, flavor.authorRepos[0], "in-flight fetch queries the remote it was created against")

	// A fetch created after the switch queries the new remote
	next := o.Authors().FetchMore(context.Background())
	require.NotNil(t, next)
	require.NoError(t, o.Authors().Apply(next.Run()))
	assert.Equal(t, localRepo(), flavor.authorRepos[1])
	assert.Len(t, o.Authors().Candidates(), 2)
}

func TestAuthorCacheSurvivesRefresh(t *testing.T) {
	flavor := newTestFlavor()
	flavor.authorPages = map[string]domain.ActorPage{
		"": {Actors: []domain.Actor{{Login: "alice"}, {Login: "bob"}}},
	}
	o := initialized(t, flavor, &fakeResolver{})

	af := o.Authors()
	require.NoError(t, af.Apply(af.FetchMore(context.Background()).Run()))
	require.Len(t, af.Candidates(), 2)

	fetch, err := o.Refresh()
	require.NoError(t, err)
	drain(t, o, fetch)

	assert.Same(t, af, o.Authors())
	assert.Len(t, o.Authors().Candidates(), 2)
}

func TestClose_ReleasesSource(t *testing.T) {
	flavor := newTestFlavor()
	o := initialized(t, flavor, &fakeResolver{})

	o.Close()
	assert.True(t, flavor.sources[0].closed)
	assert.False(t, o.IsLoading())
}
