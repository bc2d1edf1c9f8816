package list

import (
	"context"

	"github.com/robby/ghl/internal/domain"
)

// AuthorLoader fetches one page of author candidates for a repository; an
// empty cursor means the first page.
type AuthorLoader func(ctx context.Context, repo domain.RepositoryRef, cursor string) (domain.ActorPage, error)

// AuthorFilter holds the optional selected author and a lazily-paged cache
// of candidates. The cache is fetched on demand and survives refresh cycles;
// the selection is cleared only by explicit action.
//
// Like the orchestrator, the filter is mutated on one event loop; only
// AuthorFetch.Run may execute elsewhere. FetchMore snapshots everything a
// running fetch needs, so Run never reads filter state.
type AuthorFilter struct {
	load AuthorLoader
	repo domain.RepositoryRef

	selected   *domain.Actor
	candidates []domain.Actor
	cursor     string
	hasMore    bool
	fetched    bool // first page requested at least once
}

// NewAuthorFilter creates a filter loading candidates for the given
// repository. No page is fetched until FetchMore is used.
func NewAuthorFilter(load AuthorLoader, repo domain.RepositoryRef) *AuthorFilter {
	return &AuthorFilter{load: load, repo: repo, hasMore: true}
}

// SetRepository redirects future candidate pages to another repository.
// Cached candidates are kept; both sides of a fork pair share most
// assignable users.
func (f *AuthorFilter) SetRepository(repo domain.RepositoryRef) {
	f.repo = repo
}

// Selected returns the selected author, or nil when the filter is inactive.
func (f *AuthorFilter) Selected() *domain.Actor {
	return f.selected
}

// Select sets the selected author. Pass nil to clear the filter.
func (f *AuthorFilter) Select(author *domain.Actor) {
	f.selected = author
}

// Candidates returns the author candidates fetched so far.
func (f *AuthorFilter) Candidates() []domain.Actor {
	return f.candidates
}

// HasMore reports whether another candidate page can be fetched.
func (f *AuthorFilter) HasMore() bool {
	return !f.fetched || f.hasMore
}

// AuthorFetch is one pending candidate-page load. Run may execute on any
// goroutine: the loader, repository, and cursor are copied out of the filter
// when the fetch is created on the owning loop.
type AuthorFetch struct {
	load   AuthorLoader
	repo   domain.RepositoryRef
	ctx    context.Context
	cursor string
}

// Run performs the fetch and packages the outcome for Apply.
func (af *AuthorFetch) Run() AuthorsLoaded {
	page, err := af.load(af.ctx, af.repo, af.cursor)
	return AuthorsLoaded{cursor: af.cursor, page: page, err: err}
}

// AuthorsLoaded is the outcome of one AuthorFetch.
type AuthorsLoaded struct {
	cursor string
	page   domain.ActorPage
	err    error
}

// FetchMore returns the next candidate-page fetch, or nil when the sequence
// is exhausted.
func (f *AuthorFilter) FetchMore(ctx context.Context) *AuthorFetch {
	if f.fetched && !f.hasMore {
		return nil
	}
	return &AuthorFetch{load: f.load, repo: f.repo, ctx: ctx, cursor: f.cursor}
}

// Apply folds a completed page into the candidate cache. A page fetched for
// a cursor that is no longer current (a duplicate request) is dropped. Fetch
// failures propagate and leave the cache and cursor unchanged, so the page
// can be retried.
func (f *AuthorFilter) Apply(msg AuthorsLoaded) error {
	if msg.err != nil {
		return msg.err
	}
	if msg.cursor != f.cursor || (f.fetched && !f.hasMore) {
		return nil
	}
	f.fetched = true
	f.candidates = append(f.candidates, msg.page.Actors...)
	f.cursor = msg.page.NextCursor
	f.hasMore = msg.page.HasNext
	return nil
}
