package view

import (
	"github.com/confidence-supplies/storefront/internal/catalog"
)

// CategoryPreviewLimit is how many products a landing-page category section
// shows before the "view all" affordance takes over.
const CategoryPreviewLimit = 8

// Uncategorized is the bucket for products without a category.
const Uncategorized = "Uncategorized"

// CategoryGroup is one landing-page section: a category name, a preview of
// its first products in fetch order, and the total count behind it.
type CategoryGroup struct {
	Name    string
	Preview []catalog.Product
	Total   int
}

// HasMore reports whether the group holds more products than the preview
// shows, i.e. whether a "view all" affordance applies.
func (g CategoryGroup) HasMore() bool {
	return g.Total > CategoryPreviewLimit
}

// GroupByCategory stably partitions products by category. Groups appear in
// the order their category is first seen; products keep their fetch order
// within each group; nothing is re-sorted. Each group's preview is truncated
// to CategoryPreviewLimit while Total counts every product in the group.
func GroupByCategory(products []catalog.Product) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)

	for _, p := range products {
		name := p.Category
		if name == "" {
			name = Uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{Name: name})
		}
		g := &groups[i]
		g.Total++
		if len(g.Preview) < CategoryPreviewLimit {
			g.Preview = append(g.Preview, p)
		}
	}
	return groups
}
