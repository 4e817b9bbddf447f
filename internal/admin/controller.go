// Package admin implements the admin console's CRUD controller. Every
// mutation requires an explicit credential, and a successful mutation
// re-fetches the current listing rather than patching it locally: a fresh
// source-of-truth read beats staleness risk.
package admin

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/confidence-supplies/storefront/internal/catalog"
	"github.com/confidence-supplies/storefront/internal/session"
	"github.com/confidence-supplies/storefront/internal/view"
)

// Controller failure modes that never reach the network.
var (
	// ErrAuthMissing is returned when a mutation is attempted without a
	// stored credential.
	ErrAuthMissing = errors.New("authentication token not found, please log in again")
	// ErrConfirmationRequired is returned when a delete is submitted without
	// explicit confirmation.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// Gateway is the slice of the catalog client the controller depends on.
type Gateway interface {
	ListProducts(ctx context.Context, params catalog.ListParams) (*catalog.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, fields catalog.Fields, image *catalog.ImageUpload, token string) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, fields catalog.Fields, image *catalog.ImageUpload, token string) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id, token string) (string, error)
}

// Controller routes admin actions to the gateway. It is stateless; each
// request carries its own view state.
type Controller struct {
	gateway Gateway
}

// NewController creates a Controller backed by gateway.
func NewController(gateway Gateway) *Controller {
	return &Controller{gateway: gateway}
}

// Listing runs one listing fetch for st through the view state machine and
// returns the resolved listing (Loaded or Failed).
func (c *Controller) Listing(ctx context.Context, st view.State) *view.Listing {
	l := view.NewListing()
	params := st.Params()
	l.Begin(params)
	page, err := c.gateway.ListProducts(ctx, params)
	l.Resolve(params, page, err)
	return l
}

// Editing fetches a single product to pre-fill the edit form.
func (c *Controller) Editing(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := c.gateway.GetProduct(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load product for edit")
	}
	return p, nil
}

// SubmitCreate creates a product. It fails with ErrAuthMissing before any
// network call when the session holds no token. On success the current
// listing is re-fetched and returned alongside the created product.
func (c *Controller) SubmitCreate(ctx context.Context, sess session.Session, fields catalog.Fields, image *catalog.ImageUpload, st view.State) (*catalog.Product, *view.Listing, error) {
	if sess.Token == "" {
		return nil, nil, ErrAuthMissing
	}
	p, err := c.gateway.CreateProduct(ctx, fields, image, sess.Token)
	if err != nil {
		return nil, nil, err
	}
	return p, c.Listing(ctx, st), nil
}

// SubmitUpdate updates a product. When image is nil the caller must have set
// fields.ImageURL to the previously known URL — the carry-forward policy
// that keeps the backend from clearing the image on edits that don't touch
// it. On success the current listing is re-fetched.
func (c *Controller) SubmitUpdate(ctx context.Context, sess session.Session, id string, fields catalog.Fields, image *catalog.ImageUpload, st view.State) (*catalog.Product, *view.Listing, error) {
	if sess.Token == "" {
		return nil, nil, ErrAuthMissing
	}
	p, err := c.gateway.UpdateProduct(ctx, id, fields, image, sess.Token)
	if err != nil {
		return nil, nil, err
	}
	return p, c.Listing(ctx, st), nil
}

// Delete removes a product. Without confirmed it returns
// ErrConfirmationRequired and issues no network call. On success the current
// listing is re-fetched and the backend acknowledgement message returned.
func (c *Controller) Delete(ctx context.Context, sess session.Session, id string, confirmed bool, st view.State) (string, *view.Listing, error) {
	if sess.Token == "" {
		return "", nil, ErrAuthMissing
	}
	if !confirmed {
		return "", nil, ErrConfirmationRequired
	}
	msg, err := c.gateway.DeleteProduct(ctx, id, sess.Token)
	if err != nil {
		return "", nil, err
	}
	if msg == "" {
		msg = "Product deleted successfully."
	}
	return msg, c.Listing(ctx, st), nil
}
