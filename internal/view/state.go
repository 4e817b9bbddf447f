// Package view holds the UI-toolkit-independent view logic of the
// storefront: the listing view state and its reducer, the per-page fetch
// state machine, category aggregation for the landing page, and pure
// formatting helpers. Nothing in this package performs I/O.
package view

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/confidence-supplies/storefront/internal/catalog"
)

// DefaultPageSize is the fixed number of products per listing page.
const DefaultPageSize = 20

// CatalogFetchLimit is the page size used for the unfiltered landing-page
// fetch that feeds category aggregation.
const CatalogFetchLimit = 999

// AllCategories is the category filter value meaning "no filter".
const AllCategories = "All"

// State is the listing view state: it fully determines the next listing
// request. It is mutated only through Apply (or the setters it dispatches
// to) and is seeded once per page load from the URL query.
type State struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// NewState returns the initial listing state: first page, no filters.
func NewState() State {
	return State{Page: 1, PageSize: DefaultPageSize}
}

// StateFromQuery seeds a State from URL query parameters. Seeding runs the
// same reducer steps as user actions, with the category applied first so a
// URL carrying both search and category keeps both.
func StateFromQuery(q url.Values) State {
	s := NewState()
	if c := q.Get("category"); c != "" {
		s.SetCategory(c)
	}
	if search := q.Get("search"); search != "" {
		s.SetSearch(search)
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		s.SetPage(page)
	}
	return s
}

// Action is a user-initiated listing state transition.
type Action interface {
	apply(*State)
}

// SearchAction submits a free-text search.
type SearchAction struct{ Query string }

// SelectCategoryAction picks a category filter.
type SelectCategoryAction struct{ Name string }

// PaginateAction moves to another page of the current listing.
type PaginateAction struct{ Page int }

func (a SearchAction) apply(s *State)         { s.SetSearch(a.Query) }
func (a SelectCategoryAction) apply(s *State) { s.SetCategory(a.Name) }
func (a PaginateAction) apply(s *State)       { s.SetPage(a.Page) }

// Apply dispatches an action into the state.
func (s *State) Apply(a Action) {
	a.apply(s)
}

// SetSearch sets the search query and resets to the first page. The category
// filter is kept: search and category can apply simultaneously.
func (s *State) SetSearch(query string) {
	s.Search = strings.TrimSpace(query)
	s.Page = 1
}

// SetCategory sets the category filter, clears any search query, and resets
// to the first page.
func (s *State) SetCategory(name string) {
	s.Category = name
	s.Search = ""
	s.Page = 1
}

// SetPage moves to page n, flooring at 1.
func (s *State) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
}

// Params derives the listing request arguments. An empty or "All" category
// is omitted; a non-empty search is always included.
func (s State) Params() catalog.ListParams {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	p := catalog.ListParams{
		Page:  s.Page,
		Limit: size,
	}
	if s.Category != "" && s.Category != AllCategories {
		p.Category = s.Category
	}
	if s.Search != "" {
		p.Search = s.Search
	}
	return p
}

// Title returns the section heading for the current filters.
func (s State) Title() string {
	switch {
	case s.Category != "" && s.Category != AllCategories:
		return s.Category + " Products"
	case s.Search != "":
		return `Search Results for "` + s.Search + `"`
	default:
		return "All Products"
	}
}

// EmptyMessage returns the message shown when the listing has no results,
// naming the active search and category.
func (s State) EmptyMessage() string {
	var b strings.Builder
	b.WriteString("No products found")
	if s.Search != "" {
		b.WriteString(` for "` + s.Search + `"`)
	}
	if s.Category != "" && s.Category != AllCategories {
		b.WriteString(" in " + s.Category)
	}
	b.WriteString(".")
	return b.String()
}
