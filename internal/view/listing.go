package view

import (
	"github.com/confidence-supplies/storefront/internal/catalog"
)

// Phase is the lifecycle state of a listing view.
type Phase int

const (
	// Idle means no fetch has been started.
	Idle Phase = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the last fetch succeeded and Page holds its result.
	Loaded
	// Failed means the last fetch failed and Err holds the message. Retry
	// happens only by the user re-triggering the action.
	Failed
)

// Listing is the per-page fetch state machine: Idle → Loading → {Loaded,
// Failed}. Any user action (search, category, pagination, or a mutation's
// refresh) re-enters Loading via Begin. The gateway gives no cross-request
// ordering guarantee, so Resolve discards responses whose request parameters
// no longer match the in-flight ones — a slow early response never
// overwrites a fresher view.
type Listing struct {
	phase  Phase
	params catalog.ListParams
	page   *catalog.ProductPage
	errMsg string
}

// NewListing returns a listing in the Idle phase.
func NewListing() *Listing {
	return &Listing{}
}

// Begin records that a fetch with params has been issued and moves the
// listing to Loading. Any in-flight fetch with different params becomes
// stale.
func (l *Listing) Begin(params catalog.ListParams) {
	l.phase = Loading
	l.params = params
	l.errMsg = ""
}

// Resolve applies the outcome of a fetch issued with params. It reports
// whether the outcome was applied: a resolution is discarded when the
// listing is not Loading or when params differ from the in-flight request.
func (l *Listing) Resolve(params catalog.ListParams, page *catalog.ProductPage, err error) bool {
	if l.phase != Loading || params != l.params {
		return false
	}
	if err != nil {
		l.phase = Failed
		l.errMsg = err.Error()
		l.page = nil
		return true
	}
	l.phase = Loaded
	l.page = page
	return true
}

// Phase returns the current lifecycle phase.
func (l *Listing) Phase() Phase {
	return l.phase
}

// Page returns the loaded product page, or nil unless the phase is Loaded.
func (l *Listing) Page() *catalog.ProductPage {
	if l.phase != Loaded {
		return nil
	}
	return l.page
}

// Err returns the failure message, or "" unless the phase is Failed.
func (l *Listing) Err() string {
	if l.phase != Failed {
		return ""
	}
	return l.errMsg
}
