package view

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confidence-supplies/storefront/internal/catalog"
)

func TestListing_LoadCycle(t *testing.T) {
	l := NewListing()
	assert.Equal(t, Idle, l.Phase())

	params := catalog.ListParams{Page: 1, Limit: 20}
	l.Begin(params)
	assert.Equal(t, Loading, l.Phase())
	assert.Nil(t, l.Page())

	page := &catalog.ProductPage{Page: 1, TotalPages: 3}
	require.True(t, l.Resolve(params, page, nil))
	assert.Equal(t, Loaded, l.Phase())
	assert.Equal(t, page, l.Page())
	assert.Empty(t, l.Err())
}

func TestListing_Failure(t *testing.T) {
	l := NewListing()
	params := catalog.ListParams{Page: 1, Limit: 20}

	l.Begin(params)
	require.True(t, l.Resolve(params, nil, errors.New("backend returned status 500")))

	assert.Equal(t, Failed, l.Phase())
	assert.Equal(t, "backend returned status 500", l.Err())
	assert.Nil(t, l.Page())
}

func TestListing_RetryAfterFailure(t *testing.T) {
	l := NewListing()
	params := catalog.ListParams{Page: 1, Limit: 20}

	l.Begin(params)
	require.True(t, l.Resolve(params, nil, errors.New("boom")))

	// Re-triggering the same action is the only retry path.
	l.Begin(params)
	assert.Equal(t, Loading, l.Phase())
	assert.Empty(t, l.Err())

	require.True(t, l.Resolve(params, &catalog.ProductPage{Page: 1}, nil))
	assert.Equal(t, Loaded, l.Phase())
}

func TestListing_DiscardsStaleResponse(t *testing.T) {
	l := NewListing()

	search := catalog.ListParams{Page: 1, Limit: 20, Search: "pump"}
	category := catalog.ListParams{Page: 1, Limit: 20, Category: "Bearings"}

	// The user searches, then switches category before the search resolves.
	l.Begin(search)
	l.Begin(category)

	// The slow search response arrives late and must not overwrite the view.
	stale := &catalog.ProductPage{Page: 1, TotalPages: 9}
	assert.False(t, l.Resolve(search, stale, nil))
	assert.Equal(t, Loading, l.Phase())

	fresh := &catalog.ProductPage{Page: 1, TotalPages: 2}
	assert.True(t, l.Resolve(category, fresh, nil))
	assert.Equal(t, fresh, l.Page())
}

func TestListing_DiscardsResolveWhenIdle(t *testing.T) {
	l := NewListing()
	assert.False(t, l.Resolve(catalog.ListParams{Page: 1}, &catalog.ProductPage{}, nil))
	assert.Equal(t, Idle, l.Phase())
}
