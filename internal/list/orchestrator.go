// Package list implements the state-synchronization core behind a
// filterable, searchable, paginated view of repository items (issues or pull
// requests). It coordinates the active remote repository (including fork
// resolution), one lazily-paged item source per refresh cycle, the composed
// search/author filter, and the derived empty-view status.
//
// The orchestrator is not safe for concurrent use. All mutations must be
// serialized onto one event loop (the Bubble Tea Update loop does this);
// only Fetch.Run and AuthorFetch.Run may execute on another goroutine, and
// both operate purely on state snapshotted at creation time. Pending work
// from a superseded refresh is discarded by generation, never observed.
package list

import (
	"context"
	"errors"
	"fmt"

	"github.com/robby/ghl/internal/domain"
)

var (
	// ErrNotInitialized indicates a mutation before Initialize succeeded.
	ErrNotInitialized = errors.New("list not initialized")
	// ErrInvalidState indicates a state name outside the flavor's valid states.
	ErrInvalidState = errors.New("invalid item state")
	// ErrUnknownRemote indicates a remote switch to a repository outside the
	// fork pair.
	ErrUnknownRemote = errors.New("repository is not part of the fork pair")
)

// Orchestrator owns the list view state: the resolved remote repository, the
// current item source and its filtered projection, the search and author
// filters, and the derived status message.
type Orchestrator struct {
	flavor   Flavor
	resolver ParentResolver

	initialized bool
	base        context.Context
	local       domain.RepositoryRef
	remote      domain.RepositoryRef
	forks       []domain.RepositoryRef

	selectedState string
	search        Search
	authors       *AuthorFilter

	// One generation per refresh cycle. The previous cycle's source is
	// cancelled and closed before the next one is created, so at most one
	// source is ever live and observed.
	gen      uint64
	source   ItemSource
	proj     *Projection
	cancel   context.CancelFunc
	fetchCtx context.Context
	loading  bool

	status domain.StatusMessage
}

// New creates an orchestrator for one list flavor. Call Initialize before
// anything else.
func New(flavor Flavor, resolver ParentResolver) *Orchestrator {
	return &Orchestrator{flavor: flavor, resolver: resolver}
}

// Fetch is one pending page load. Run may execute on any goroutine; the
// resulting PageLoaded must be handed back to Apply on the loop that owns
// the orchestrator.
type Fetch struct {
	gen    uint64
	ctx    context.Context
	source ItemSource
	cursor string
}

// Run performs the fetch and packages the outcome for Apply.
func (f *Fetch) Run() PageLoaded {
	page, err := f.source.NextPage(f.ctx, f.cursor)
	return PageLoaded{gen: f.gen, page: page, err: err}
}

// PageLoaded is the outcome of one Fetch, tagged with the generation that
// requested it.
type PageLoaded struct {
	gen  uint64
	page domain.ItemPage
	err  error
}

// Initialize resolves the remote repository and starts the first refresh.
//
// The parent owner of the local repository is resolved once: if there is
// none, the local repository is listed directly and Forks is empty;
// otherwise the remote is the local ref rewritten to the parent owner and
// Forks is [remote, local]. A resolution failure propagates and leaves the
// orchestrator uninitialized — no partial state is callable.
func (o *Orchestrator) Initialize(ctx context.Context, local domain.RepositoryRef) (*Fetch, error) {
	parentOwner, err := o.resolver.ResolveParentOwnerLogin(ctx, local)
	if err != nil {
		return nil, fmt.Errorf("resolve parent owner for %s: %w", local.NameWithOwner(), err)
	}

	states := o.flavor.ValidStates()
	if len(states) == 0 {
		return nil, errors.New("flavor declares no valid states")
	}

	o.base = ctx
	o.local = local
	if parentOwner == "" {
		o.remote = local
		o.forks = nil
	} else {
		o.remote = local.WithOwner(parentOwner)
		o.forks = []domain.RepositoryRef{o.remote, local}
	}
	o.selectedState = states[0]
	o.authors = NewAuthorFilter(o.flavor.LoadAuthors, o.remote)
	o.initialized = true

	return o.refresh(), nil
}

// Refresh tears down the current item source and starts a new cycle against
// the current remote repository and selected state.
func (o *Orchestrator) Refresh() (*Fetch, error) {
	if !o.initialized {
		return nil, ErrNotInitialized
	}
	return o.refresh(), nil
}

// refresh disposes the previous generation before wiring the new one, so no
// result of the old source can be observed once the new cycle begins.
func (o *Orchestrator) refresh() *Fetch {
	o.teardown()

	o.gen++
	o.fetchCtx, o.cancel = context.WithCancel(o.base)
	o.source = o.flavor.CreateItemSource(o.remote, o.selectedState)
	o.proj = NewProjection(o.predicate())
	o.loading = true
	o.recomputeStatus()

	return &Fetch{gen: o.gen, ctx: o.fetchCtx, source: o.source}
}

// teardown cancels and closes the current generation's source.
func (o *Orchestrator) teardown() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	if o.source != nil {
		_ = o.source.Close()
		o.source = nil
	}
}

// Close releases the current item source and stops any in-flight fetch.
// The orchestrator must not be used afterwards.
func (o *Orchestrator) Close() {
	o.teardown()
	o.loading = false
}

// Apply folds a completed page load into the view. Results from a superseded
// generation are dropped. A fetch failure resolves loading and is returned
// for the caller to surface; it is never swallowed into default state. On
// success the next page's fetch is returned, or nil when the source is
// exhausted.
func (o *Orchestrator) Apply(msg PageLoaded) (*Fetch, error) {
	if msg.gen != o.gen || o.source == nil {
		return nil, nil
	}
	if msg.err != nil {
		o.loading = false
		o.recomputeStatus()
		return nil, msg.err
	}

	// Pages are filtered through the predicate current at materialization
	// time, not the one active when the fetch began.
	o.proj.Add(msg.page.Items)

	if msg.page.HasNext && msg.page.NextCursor != "" {
		o.recomputeStatus()
		return &Fetch{gen: o.gen, ctx: o.fetchCtx, source: o.source, cursor: msg.page.NextCursor}, nil
	}

	o.loading = false
	o.recomputeStatus()
	return nil, nil
}

// SetSearchQuery updates the free-text query and re-filters the current
// projection in place. It never tears down the item source.
func (o *Orchestrator) SetSearchQuery(query string) {
	o.search = ParseSearch(query)
	o.refilter()
}

// SearchQuery returns the raw query text.
func (o *Orchestrator) SearchQuery() string {
	return o.search.Query
}

// SelectAuthor sets (or, with nil, clears) the author filter and re-filters
// the current projection in place.
func (o *Orchestrator) SelectAuthor(author *domain.Actor) {
	if !o.initialized {
		return
	}
	o.authors.Select(author)
	o.refilter()
}

// refilter installs a freshly composed predicate on the live projection and
// recomputes the status from the new count.
func (o *Orchestrator) refilter() {
	if o.proj != nil {
		o.proj.SetPredicate(o.predicate())
	}
	o.recomputeStatus()
}

func (o *Orchestrator) predicate() Predicate {
	var author *domain.Actor
	if o.authors != nil {
		author = o.authors.Selected()
	}
	return BuildPredicate(o.search, author)
}

// SetSelectedState switches the item state (e.g. "Open" to "Closed") and
// starts a full refresh, since the backing source queries by state. An
// unchanged state is a no-op.
func (o *Orchestrator) SetSelectedState(state string) (*Fetch, error) {
	if !o.initialized {
		return nil, ErrNotInitialized
	}
	valid := false
	for _, s := range o.flavor.ValidStates() {
		if s == state {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}
	if state == o.selectedState {
		return nil, nil
	}
	o.selectedState = state
	return o.refresh(), nil
}

// SwitchRemote changes which side of the fork pair is listed and starts a
// full refresh. The ref must be one of Forks; switching is unavailable when
// the repository is not a fork.
func (o *Orchestrator) SwitchRemote(ref domain.RepositoryRef) (*Fetch, error) {
	if !o.initialized {
		return nil, ErrNotInitialized
	}
	known := false
	for _, f := range o.forks {
		if f == ref {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRemote, ref.NameWithOwner())
	}
	if ref == o.remote {
		return nil, nil
	}
	o.remote = ref
	o.authors.SetRepository(ref)
	return o.refresh(), nil
}

// OpenItem delegates to the flavor's open action. Invalid candidates (the
// zero Item) are a no-op.
func (o *Orchestrator) OpenItem(item domain.Item) error {
	if !item.Valid() {
		return nil
	}
	return o.flavor.OpenItem(item)
}

// recomputeStatus re-derives the empty-view message from the latest value of
// every input. Mutations are serialized on one loop, so each recomputation
// observes a consistent snapshot (combine-latest, never a stale zip).
func (o *Orchestrator) recomputeStatus() {
	count := 0
	if o.proj != nil {
		count = o.proj.FilteredCount()
	}
	var author *domain.Actor
	if o.authors != nil {
		author = o.authors.Selected()
	}
	o.status = DeriveStatus(o.loading, count, o.selectedState, o.flavor.ValidStates()[0], o.search.Query, author)
}

// RemoteRepository returns the repository whose items are listed.
func (o *Orchestrator) RemoteRepository() domain.RepositoryRef {
	return o.remote
}

// LocalRepository returns the repository the view was initialized with.
func (o *Orchestrator) LocalRepository() domain.RepositoryRef {
	return o.local
}

// Forks returns [remote, local] when a fork relationship exists, else nil.
func (o *Orchestrator) Forks() []domain.RepositoryRef {
	return o.forks
}

// SelectedState returns the active item state name.
func (o *Orchestrator) SelectedState() string {
	return o.selectedState
}

// ValidStates returns the flavor's selectable states in order.
func (o *Orchestrator) ValidStates() []string {
	return o.flavor.ValidStates()
}

// Authors returns the author filter. Nil before initialization.
func (o *Orchestrator) Authors() *AuthorFilter {
	return o.authors
}

// Items returns every item materialized in the current cycle.
func (o *Orchestrator) Items() []domain.Item {
	if o.proj == nil {
		return nil
	}
	return o.proj.All()
}

// VisibleItems returns the filtered view of the current cycle.
func (o *Orchestrator) VisibleItems() []domain.Item {
	if o.proj == nil {
		return nil
	}
	return o.proj.Visible()
}

// FilteredCount returns the number of materialized-and-matching items.
func (o *Orchestrator) FilteredCount() int {
	if o.proj == nil {
		return 0
	}
	return o.proj.FilteredCount()
}

// Message returns the derived empty-view status.
func (o *Orchestrator) Message() domain.StatusMessage {
	return o.status
}

// IsLoading reports whether the current cycle's source is still producing.
func (o *Orchestrator) IsLoading() bool {
	return o.loading
}

// IsBusy tracks IsLoading directly: set on refresh start, cleared when the
// source resolves (successfully or not).
func (o *Orchestrator) IsBusy() bool {
	return o.loading
}
