package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confidence-supplies/storefront/internal/catalog"
)

func makeProducts(category string, n int) []catalog.Product {
	products := make([]catalog.Product, n)
	for i := range products {
		products[i] = catalog.Product{
			ID:       fmt.Sprintf("%s-%d", category, i),
			Name:     fmt.Sprintf("%s item %d", category, i),
			Category: category,
		}
	}
	return products
}

func TestGroupByCategory_StableOrder(t *testing.T) {
	products := []catalog.Product{
		{ID: "a", Category: "Pipes"},
		{ID: "b", Category: "Bearings"},
		{ID: "c", Category: "Pipes"},
		{ID: "d", Category: "Lighting"},
		{ID: "e", Category: "Bearings"},
	}

	groups := GroupByCategory(products)
	require.Len(t, groups, 3)

	assert.Equal(t, "Pipes", groups[0].Name)
	assert.Equal(t, "Bearings", groups[1].Name)
	assert.Equal(t, "Lighting", groups[2].Name)

	// Fetch order preserved within each group.
	assert.Equal(t, "a", groups[0].Preview[0].ID)
	assert.Equal(t, "c", groups[0].Preview[1].ID)
}

func TestGroupByCategory_UncategorizedBucket(t *testing.T) {
	products := []catalog.Product{
		{ID: "a", Category: "Pipes"},
		{ID: "b"},
		{ID: "c"},
	}

	groups := GroupByCategory(products)
	require.Len(t, groups, 2)
	assert.Equal(t, Uncategorized, groups[1].Name)
	assert.Equal(t, 2, groups[1].Total)
}

func TestGroupByCategory_PreviewTruncation(t *testing.T) {
	tests := []struct {
		count       int
		wantPreview int
		wantMore    bool
	}{
		{1, 1, false},
		{8, 8, false},
		{9, 8, true},
		{30, 8, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d products", tt.count), func(t *testing.T) {
			groups := GroupByCategory(makeProducts("Valves", tt.count))
			require.Len(t, groups, 1)

			g := groups[0]
			assert.Len(t, g.Preview, tt.wantPreview)
			assert.Equal(t, tt.count, g.Total)
			assert.Equal(t, tt.wantMore, g.HasMore())

			// Displayed plus hidden always equals the input count.
			hidden := g.Total - len(g.Preview)
			assert.Equal(t, tt.count, len(g.Preview)+hidden)
		})
	}
}

func TestGroupByCategory_Empty(t *testing.T) {
	assert.Empty(t, GroupByCategory(nil))
}

func TestGroupByCategory_TotalConservation(t *testing.T) {
	var products []catalog.Product
	products = append(products, makeProducts("Pipes", 12)...)
	products = append(products, makeProducts("Bearings", 3)...)
	products = append(products, makeProducts("", 5)...)

	groups := GroupByCategory(products)

	sum := 0
	for _, g := range groups {
		sum += g.Total
	}
	assert.Equal(t, len(products), sum)
}
