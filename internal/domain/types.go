// Package domain defines the normalized domain types for repository item
// lists. These types represent the core concepts independent of the GitHub
// GraphQL API structure.
package domain

import "strings"

// RepositoryRef identifies a repository on a host. Immutable once constructed.
type RepositoryRef struct {
	Host  string // API host address (e.g. "github.com")
	Owner string // Owner login
	Name  string // Repository name
}

// CloneURL returns the HTTPS clone URL for the repository.
func (r RepositoryRef) CloneURL() string {
	return "https://" + r.Host + "/" + r.Owner + "/" + r.Name + ".git"
}

// NameWithOwner returns the "owner/name" form used throughout the UI.
func (r RepositoryRef) NameWithOwner() string {
	return r.Owner + "/" + r.Name
}

// WithOwner returns a copy of the ref pointing at a different owner, keeping
// the host and name. Used to synthesize the upstream ref when the local
// repository is a fork.
func (r RepositoryRef) WithOwner(owner string) RepositoryRef {
	return RepositoryRef{Host: r.Host, Owner: owner, Name: r.Name}
}

// Actor is a user referenced as an item author or a filter value.
type Actor struct {
	Login string
}

// SameLogin reports whether two actors share a login, compared
// case-insensitively the way GitHub treats logins.
func (a Actor) SameLogin(other Actor) bool {
	return strings.EqualFold(a.Login, other.Login)
}

// Item is one list entry (an issue or a pull request). Produced by the item
// source; treated as read-only by the list core.
type Item struct {
	Number    int    // Issue/PR number within the repository
	Title     string // Item title
	Author    Actor  // Item creator
	State     string // Item state as reported by the API (OPEN, CLOSED, MERGED)
	URL       string // Item URL for opening in a browser
	CreatedAt string // ISO8601 timestamp of creation
}

// Valid reports whether the item refers to a real list entry. Zero-valued
// candidates (e.g. an open action with nothing selected) are not valid.
func (it Item) Valid() bool {
	return it.Number > 0
}

// ItemPage is one fetched page of items with its continuation cursor.
type ItemPage struct {
	Items      []Item
	NextCursor string
	HasNext    bool
}

// ActorPage is one fetched page of author candidates.
type ActorPage struct {
	Actors     []Actor
	NextCursor string
	HasNext    bool
}

// StatusMessage classifies an empty filtered view.
type StatusMessage int

const (
	// StatusNone means items are visible, or a fetch is still in flight.
	StatusNone StatusMessage = iota
	// StatusNoItems means the collection is genuinely empty with no
	// filters applied.
	StatusNoItems
	// StatusNoMatches means active filters suppressed every item.
	StatusNoMatches
)

func (s StatusMessage) String() string {
	switch s {
	case StatusNoItems:
		return "no items"
	case StatusNoMatches:
		return "no matches"
	default:
		return "none"
	}
}
