package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjection_AddFiltersThroughCurrentPredicate(t *testing.T) {
	p := NewProjection(BuildPredicate(ParseSearch("fix"), nil))

	p.Add(testItems())

	assert.Equal(t, 2, p.FilteredCount())
	assert.Len(t, p.All(), 3)
	assert.Equal(t, "Fix bug", p.Visible()[0].Title)
}

func TestProjection_SetPredicateReevaluatesWithoutRefetch(t *testing.T) {
	p := NewProjection(BuildPredicate(ParseSearch(""), nil))
	p.Add(testItems())
	assert.Equal(t, 3, p.FilteredCount())

	p.SetPredicate(BuildPredicate(ParseSearch("#2"), nil))
	assert.Equal(t, 1, p.FilteredCount())
	assert.Equal(t, 2, p.Visible()[0].Number)

	// Widening the filter restores previously hidden items: nothing was
	// dropped, only hidden
	p.SetPredicate(BuildPredicate(ParseSearch(""), nil))
	assert.Equal(t, 3, p.FilteredCount())
	assert.Len(t, p.All(), 3)
}

func TestProjection_CountTracksMaterializedPages(t *testing.T) {
	p := NewProjection(BuildPredicate(ParseSearch("fix"), nil))

	items := testItems()
	p.Add(items[:1])
	assert.Equal(t, 1, p.FilteredCount())

	// A later page grows the count as it materializes
	p.Add(items[1:])
	assert.Equal(t, 2, p.FilteredCount())
}

func TestProjection_PreservesMaterializationOrder(t *testing.T) {
	p := NewProjection(BuildPredicate(ParseSearch(""), nil))
	p.Add(testItems())

	visible := p.Visible()
	assert.Equal(t, []int{1, 2, 3}, []int{visible[0].Number, visible[1].Number, visible[2].Number})
}
