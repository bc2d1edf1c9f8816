package list

import (
	"strings"

	"github.com/robby/ghl/internal/domain"
)

// Predicate decides membership of one item in the filtered view.
type Predicate func(domain.Item) bool

// BuildPredicate composes the text/id stage and the author stage into one
// membership test. The stages AND together: an item must survive the search
// filter and, independently, the author filter.
func BuildPredicate(search Search, author *domain.Actor) Predicate {
	return func(it domain.Item) bool {
		return matchesSearch(search, it) && matchesAuthor(author, it)
	}
}

// matchesSearch applies the text/id stage. A non-zero parsed number matches
// on the item number alone; an active text filter matches case-insensitively
// on the title; a blank query passes everything.
func matchesSearch(search Search, it domain.Item) bool {
	if search.Number != 0 {
		return it.Number == search.Number
	}
	if search.Text != "" {
		return strings.Contains(strings.ToUpper(it.Title), search.Text)
	}
	return true
}

// matchesAuthor applies the author stage. No selection passes everything.
func matchesAuthor(author *domain.Actor, it domain.Item) bool {
	if author == nil {
		return true
	}
	return it.Author.SameLogin(*author)
}
