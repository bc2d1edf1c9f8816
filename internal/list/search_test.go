package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSearch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantNumber int
		wantText   string
	}{
		{name: "empty", query: "", wantNumber: 0, wantText: ""},
		{name: "whitespace only", query: "   ", wantNumber: 0, wantText: ""},
		{name: "plain text", query: "fix", wantNumber: 0, wantText: "FIX"},
		{name: "mixed case text", query: "Fix Bug", wantNumber: 0, wantText: "FIX BUG"},
		{name: "number", query: "#42", wantNumber: 42, wantText: ""},
		{name: "number with surrounding space", query: "  #7  ", wantNumber: 7, wantText: ""},
		{name: "hash zero is not a numeric filter", query: "#0", wantNumber: 0, wantText: "#0"},
		{name: "bare hash", query: "#", wantNumber: 0, wantText: "#"},
		{name: "hash non-digits", query: "#abc", wantNumber: 0, wantText: "#ABC"},
		{name: "hash digits trailing letters", query: "#12x", wantNumber: 0, wantText: "#12X"},
		{name: "negative number", query: "#-3", wantNumber: -3, wantText: ""},
		{name: "hash mid-query", query: "bug #12", wantNumber: 0, wantText: "BUG #12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseSearch(tt.query)
			assert.Equal(t, tt.query, s.Query)
			assert.Equal(t, tt.wantNumber, s.Number)
			assert.Equal(t, tt.wantText, s.Text)
		})
	}
}

func TestSearch_Blank(t *testing.T) {
	assert.True(t, ParseSearch("").Blank())
	assert.True(t, ParseSearch(" \t ").Blank())
	assert.False(t, ParseSearch("x").Blank())
	assert.False(t, ParseSearch("#5").Blank())
	// "#0" falls through to a text filter, so it is not blank
	assert.False(t, ParseSearch("#0").Blank())
}
