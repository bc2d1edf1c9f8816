package list

import (
	"context"

	"github.com/robby/ghl/internal/domain"
)

// ItemSource is a remote, pageable collection of list items, fetched
// incrementally on demand. Each refresh cycle owns exactly one instance;
// Close releases whatever the source holds (open requests, buffers) and is
// called before the next cycle's source is created.
type ItemSource interface {
	// NextPage fetches one page starting at cursor; an empty cursor means
	// the first page.
	NextPage(ctx context.Context, cursor string) (domain.ItemPage, error)
	Close() error
}

// Flavor supplies the list-kind-specific behavior (issues vs pull requests).
// The orchestrator is generic over it.
type Flavor interface {
	// CreateItemSource builds a fresh source for one refresh cycle,
	// querying items in the given state (one of ValidStates).
	CreateItemSource(repo domain.RepositoryRef, state string) ItemSource

	// LoadAuthors fetches one page of author candidates for the filter.
	LoadAuthors(ctx context.Context, repo domain.RepositoryRef, cursor string) (domain.ActorPage, error)

	// ValidStates returns the selectable item states in order. The first
	// entry is the default selection and represents the unfiltered view.
	ValidStates() []string

	// OpenItem performs the flavor's open action for one item.
	OpenItem(item domain.Item) error
}

// ParentResolver resolves the owner login of a repository's upstream
// ("parent") repository. An empty login with a nil error means the
// repository is not a fork.
type ParentResolver interface {
	ResolveParentOwnerLogin(ctx context.Context, repo domain.RepositoryRef) (string, error)
}
