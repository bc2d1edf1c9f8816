package list

import (
	"strconv"
	"strings"
)

// Search is the deterministic derivation of the free-text query. Exactly one
// of Number / Text is active at a time; both zero means the query is blank
// and the text/id stage of the filter passes everything.
type Search struct {
	Query  string // Raw query text as typed
	Number int    // Parsed item number, 0 when no numeric filter is active
	Text   string // Uppercased substring filter, empty when inactive
}

// ParseSearch derives the search state from raw query text.
//
// A query of "#" followed by an integer activates the numeric filter; a
// parsed value of zero is treated as no numeric filter at all, so "#0" (and
// "#" followed by anything unparseable, e.g. "#abc") falls through to text
// matching against the full query string including the "#".
func ParseSearch(query string) Search {
	s := Search{Query: query}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s
	}

	if rest, ok := strings.CutPrefix(trimmed, "#"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n != 0 {
			s.Number = n
			return s
		}
	}

	s.Text = strings.ToUpper(trimmed)
	return s
}

// Blank reports whether the query carries no filter at all.
func (s Search) Blank() bool {
	return s.Number == 0 && s.Text == ""
}
