package list

import "github.com/robby/ghl/internal/domain"

// Projection is a filterable view over the items materialized so far. It
// never re-fetches: replacing the predicate re-evaluates membership of every
// item already held, and newly fetched pages are evaluated against whatever
// predicate is current when they arrive.
type Projection struct {
	all       []domain.Item
	visible   []domain.Item
	predicate Predicate
}

// NewProjection creates an empty projection with the given predicate.
func NewProjection(pred Predicate) *Projection {
	return &Projection{predicate: pred}
}

// SetPredicate replaces the active predicate and re-evaluates membership of
// all currently materialized items.
func (p *Projection) SetPredicate(pred Predicate) {
	p.predicate = pred
	p.visible = p.visible[:0]
	for _, it := range p.all {
		if pred(it) {
			p.visible = append(p.visible, it)
		}
	}
}

// Add materializes a fetched page, filtering it through the current
// predicate.
func (p *Projection) Add(items []domain.Item) {
	for _, it := range items {
		p.all = append(p.all, it)
		if p.predicate(it) {
			p.visible = append(p.visible, it)
		}
	}
}

// Visible returns the items that pass the current predicate, in
// materialization order. The returned slice is owned by the projection and
// is invalidated by the next Add or SetPredicate.
func (p *Projection) Visible() []domain.Item {
	return p.visible
}

// All returns every materialized item regardless of the predicate.
func (p *Projection) All() []domain.Item {
	return p.all
}

// FilteredCount is the number of materialized-and-matching items. It is
// consistent with "currently fetched", not with the total remote count.
func (p *Projection) FilteredCount() int {
	return len(p.visible)
}
