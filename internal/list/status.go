package list

import (
	"strings"

	"github.com/robby/ghl/internal/domain"
)

// DeriveStatus classifies an empty filtered view. While a fetch is in flight
// nothing is classified. An empty view with the default state selected, a
// blank query, and no author selected means the collection itself is empty;
// any active filter means the filters suppressed everything.
//
// A fetch that fails still resolves loading to false, so an errored-empty
// view classifies the same as a genuinely empty one. The fetch error is
// surfaced separately by the caller.
func DeriveStatus(loading bool, filteredCount int, selectedState, firstState, query string, author *domain.Actor) domain.StatusMessage {
	if loading || filteredCount > 0 {
		return domain.StatusNone
	}
	unfiltered := selectedState == firstState &&
		strings.TrimSpace(query) == "" &&
		author == nil
	if unfiltered {
		return domain.StatusNoItems
	}
	return domain.StatusNoMatches
}
