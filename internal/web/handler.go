// Package web serves the storefront and admin console as server-rendered
// HTML. Handlers translate requests into view-state reducer steps and
// gateway calls; every failure becomes a single user-visible message and
// leaves the page in a re-actionable state.
package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/confidence-supplies/storefront/internal/admin"
	"github.com/confidence-supplies/storefront/internal/catalog"
	"github.com/confidence-supplies/storefront/internal/session"
	"github.com/confidence-supplies/storefront/internal/view"
	"github.com/confidence-supplies/storefront/pkg/httpmiddleware"
)

// Handler serves every page of the storefront.
type Handler struct {
	templates *Templates
	client    *catalog.Client
	sessions  *session.Store
	admin     *admin.Controller
}

// NewHandler builds the page handler set around the catalog client.
func NewHandler(client *catalog.Client, sessions *session.Store) (*Handler, error) {
	templates, err := NewTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Handler{
		templates: templates,
		client:    client,
		sessions:  sessions,
		admin:     admin.NewController(client),
	}, nil
}

// Register mounts all routes on mux. loginLimit is applied to the login
// action only.
func (h *Handler) Register(mux *http.ServeMux, loginLimit httpmiddleware.Middleware) {
	guard := session.Guard(h.sessions, "/login")

	mux.Handle("GET /static/", StaticHandler())
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /products", h.products)
	mux.HandleFunc("GET /products/{id}", h.productDetail)
	mux.HandleFunc("GET /login", h.loginForm)
	mux.Handle("POST /login", loginLimit(http.HandlerFunc(h.login)))
	mux.HandleFunc("POST /logout", h.logout)
	mux.Handle("GET /admin", guard(http.HandlerFunc(h.adminHome)))
	mux.Handle("POST /admin/products", guard(http.HandlerFunc(h.adminCreate)))
	mux.Handle("POST /admin/products/{id}", guard(http.HandlerFunc(h.adminUpdate)))
	mux.Handle("POST /admin/products/{id}/delete", guard(http.HandlerFunc(h.adminDelete)))
}

// basePage carries the fields the layout template needs on every page.
type basePage struct {
	Title       string
	SearchQuery string
	Suggestions []string
	Year        int
}

func newBasePage(title string) basePage {
	return basePage{Title: title, Year: time.Now().Year()}
}

// home renders the landing page: the full catalog grouped by category.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	data := struct {
		basePage
		Groups []view.CategoryGroup
		Error  string
	}{basePage: newBasePage("Industrial Supplies")}

	var page *catalog.ProductPage
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		page, err = h.client.ListProducts(ctx, catalog.ListParams{
			Page:  1,
			Limit: view.CatalogFetchLimit,
		})
		return err
	})
	g.Go(func() error {
		// Suggestion list failures are cosmetic; the page renders without it.
		categories, err := h.client.ListCategories(ctx)
		if err != nil {
			zctx.From(ctx).Warn("list categories", zap.Error(err))
			return nil
		}
		data.Suggestions = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		zctx.From(r.Context()).Error("load landing catalog", zap.Error(err))
		data.Error = "Failed to load products. Please try again later."
		h.render(w, r, http.StatusOK, "home.tmpl", data)
		return
	}

	data.Groups = view.GroupByCategory(page.Items)
	h.render(w, r, http.StatusOK, "home.tmpl", data)
}

// productsPage is the render model for the listing view.
type productsPage struct {
	basePage
	State        view.State
	Categories   []string
	SectionTitle string
	EmptyMessage string
	Products     []catalog.Product
	Buttons      []view.PageButton
	Error        string
}

// PageHref builds the link for a pagination button, keeping the active
// search and category filters.
func (p productsPage) PageHref(page int) string {
	q := url.Values{}
	if p.State.Search != "" {
		q.Set("search", p.State.Search)
	}
	if p.State.Category != "" {
		q.Set("category", p.State.Category)
	}
	q.Set("page", strconv.Itoa(page))
	return "/products?" + q.Encode()
}

// products renders the paginated listing. The view state is seeded once from
// the URL query; pagination and filter links navigate back here.
func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	st := view.StateFromQuery(r.URL.Query())
	data := productsPage{
		basePage:     newBasePage(st.Title()),
		State:        st,
		SectionTitle: st.Title(),
		EmptyMessage: st.EmptyMessage(),
	}
	data.SearchQuery = st.Search

	listing := view.NewListing()
	params := st.Params()

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		listing.Begin(params)
		page, err := h.client.ListProducts(ctx, params)
		listing.Resolve(params, page, err)
		return nil
	})
	g.Go(func() error {
		categories, err := h.client.ListCategories(ctx)
		if err != nil {
			zctx.From(ctx).Warn("list categories", zap.Error(err))
			return nil
		}
		data.Categories = categories
		data.Suggestions = categories
		return nil
	})
	_ = g.Wait()

	switch listing.Phase() {
	case view.Loaded:
		page := listing.Page()
		data.Products = page.Items
		data.Buttons = view.PageButtons(page.Page, page.TotalPages)
	case view.Failed:
		data.Error = listing.Err()
	}
	h.render(w, r, http.StatusOK, "products.tmpl", data)
}

// productDetail renders a single product page.
func (h *Handler) productDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.client.GetProduct(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		message := "Error loading product details. Please try again later."
		if errors.Is(err, catalog.ErrNotFound) {
			status = http.StatusNotFound
			message = "Product not found."
		} else {
			zctx.From(r.Context()).Error("get product", zap.String("id", id), zap.Error(err))
		}
		h.render(w, r, status, "notfound.tmpl", struct {
			basePage
			Message string
		}{newBasePage("Product Not Found"), message})
		return
	}

	h.render(w, r, http.StatusOK, "product.tmpl", struct {
		basePage
		Product *catalog.Product
	}{newBasePage(p.Name), p})
}

type loginPage struct {
	basePage
	Error string
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.tmpl", loginPage{basePage: newBasePage("Admin Sign In")})
}

// login exchanges the submitted credentials with the backend and stores the
// issued token and role.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.tmpl", loginPage{
			basePage: newBasePage("Admin Sign In"),
			Error:    "Invalid form submission.",
		})
		return
	}

	creds, err := h.client.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		page := loginPage{basePage: newBasePage("Admin Sign In")}
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, catalog.ErrInvalidCredentials):
			page.Error = "Login failed. Please check your credentials."
		default:
			var httpErr *catalog.HTTPError
			if errors.As(err, &httpErr) {
				page.Error = httpErr.Message
				if page.Error == "" {
					page.Error = "Login failed. Please try again later."
				}
			} else {
				status = http.StatusBadGateway
				page.Error = "Network error. Could not connect to server."
				zctx.From(r.Context()).Error("login", zap.Error(err))
			}
		}
		h.render(w, r, status, "login.tmpl", page)
		return
	}

	h.sessions.Save(w, *creds)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// editingProduct augments a product with form-friendly accessors.
type editingProduct struct {
	catalog.Product
}

// SpecsLine renders the specs as the comma-separated line the form edits.
func (e editingProduct) SpecsLine() string {
	return strings.Join(e.Specs, ", ")
}

// adminPage is the render model for the admin console.
type adminPage struct {
	basePage
	State     view.State
	Products  []catalog.Product
	ListError string
	Editing   *editingProduct
	Message   string
	Error     string
}

// adminState derives the admin listing view state from the request.
func adminState(r *http.Request) view.State {
	st := view.NewState()
	if q := r.URL.Query().Get("search"); q != "" {
		st.Apply(view.SearchAction{Query: q})
	}
	return st
}

// buildAdminPage assembles the admin console model around an already
// resolved listing.
func (h *Handler) buildAdminPage(st view.State, listing *view.Listing) adminPage {
	data := adminPage{
		basePage: newBasePage("Admin Console"),
		State:    st,
	}
	switch listing.Phase() {
	case view.Loaded:
		data.Products = listing.Page().Items
	case view.Failed:
		data.ListError = listing.Err()
	}
	return data
}

// adminHome renders the console: listing plus either the create form or,
// with ?edit=<id>, the pre-filled edit form.
func (h *Handler) adminHome(w http.ResponseWriter, r *http.Request) {
	st := adminState(r)
	data := h.buildAdminPage(st, h.admin.Listing(r.Context(), st))
	data.SearchQuery = st.Search

	if id := r.URL.Query().Get("edit"); id != "" {
		p, err := h.admin.Editing(r.Context(), id)
		if err != nil {
			data.Error = "Failed to load product for editing."
			zctx.From(r.Context()).Error("load product for edit", zap.String("id", id), zap.Error(err))
		} else {
			data.Editing = &editingProduct{Product: *p}
		}
	}
	h.render(w, r, http.StatusOK, "admin.tmpl", data)
}

// adminCreate handles the add-product form.
func (h *Handler) adminCreate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	st := view.NewState()

	fields, image, cleanup, err := parseProductForm(r)
	if err != nil {
		h.renderAdminError(w, r, st, "Invalid form submission.")
		return
	}
	defer cleanup()

	p, listing, err := h.admin.SubmitCreate(r.Context(), sess, fields, image, st)
	if err != nil {
		zctx.From(r.Context()).Error("create product", zap.Error(err))
		h.renderAdminError(w, r, st, mutationMessage("add", err))
		return
	}

	data := h.buildAdminPage(st, listing)
	data.Message = `Product "` + p.Name + `" added successfully!`
	h.render(w, r, http.StatusOK, "admin.tmpl", data)
}

// adminUpdate handles the edit-product form. When no new image file is
// uploaded, the hidden currentImageUrl field is carried forward so the
// backend keeps the stored image.
func (h *Handler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	st := view.NewState()
	id := r.PathValue("id")

	fields, image, cleanup, err := parseProductForm(r)
	if err != nil {
		h.renderAdminError(w, r, st, "Invalid form submission.")
		return
	}
	defer cleanup()
	if image == nil {
		fields.ImageURL = r.FormValue("currentImageUrl")
	}

	p, listing, err := h.admin.SubmitUpdate(r.Context(), sess, id, fields, image, st)
	if err != nil {
		zctx.From(r.Context()).Error("update product", zap.String("id", id), zap.Error(err))
		h.renderAdminError(w, r, st, mutationMessage("update", err))
		return
	}

	data := h.buildAdminPage(st, listing)
	data.Message = `Product "` + p.Name + `" updated successfully!`
	h.render(w, r, http.StatusOK, "admin.tmpl", data)
}

// adminDelete handles the delete action. The confirm field is only set by
// the confirmation dialog; without it no backend call is made.
func (h *Handler) adminDelete(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	st := view.NewState()
	id := r.PathValue("id")
	confirmed := r.FormValue("confirm") == "1"

	msg, listing, err := h.admin.Delete(r.Context(), sess, id, confirmed, st)
	if err != nil {
		if !errors.Is(err, admin.ErrConfirmationRequired) {
			zctx.From(r.Context()).Error("delete product", zap.String("id", id), zap.Error(err))
		}
		h.renderAdminError(w, r, st, mutationMessage("delete", err))
		return
	}

	data := h.buildAdminPage(st, listing)
	data.Message = msg
	h.render(w, r, http.StatusOK, "admin.tmpl", data)
}

// renderAdminError re-renders the console with a fresh listing and the
// failure message, keeping the page re-actionable.
func (h *Handler) renderAdminError(w http.ResponseWriter, r *http.Request, st view.State, message string) {
	data := h.buildAdminPage(st, h.admin.Listing(r.Context(), st))
	data.Error = message
	h.render(w, r, http.StatusOK, "admin.tmpl", data)
}

// mutationMessage maps a controller error onto a single-line user message.
func mutationMessage(verb string, err error) string {
	switch {
	case errors.Is(err, admin.ErrAuthMissing):
		return "Authentication token not found. Please log in again."
	case errors.Is(err, admin.ErrConfirmationRequired):
		return "Deletion was not confirmed."
	}
	var httpErr *catalog.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return "Failed to " + verb + " product: " + httpErr.Message
	}
	return "Failed to " + verb + " product. Please try again later."
}

// parseProductForm extracts the product fields and optional image upload
// from a multipart form. Field validation is deferred to the backend; only
// the browser-native required checks run client-side.
func parseProductForm(r *http.Request) (catalog.Fields, *catalog.ImageUpload, func(), error) {
	cleanup := func() {}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return catalog.Fields{}, nil, cleanup, errors.Wrap(err, "parse multipart form")
	}

	price, _ := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	original, _ := decimal.NewFromString(strings.TrimSpace(r.FormValue("originalPrice")))
	quantity, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))

	fields := catalog.Fields{
		Name:          r.FormValue("name"),
		Description:   r.FormValue("description"),
		Price:         price,
		OriginalPrice: original,
		Quantity:      quantity,
		Category:      r.FormValue("category"),
		SubCategory:   r.FormValue("subCategory"),
		Specs:         splitSpecs(r.FormValue("specs")),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return fields, nil, cleanup, nil
		}
		return catalog.Fields{}, nil, cleanup, errors.Wrap(err, "image file")
	}
	cleanup = func() { _ = file.Close() }
	return fields, &catalog.ImageUpload{Filename: header.Filename, Data: file}, cleanup, nil
}

// splitSpecs turns the comma-separated specs line into the ordered spec
// list, dropping empty entries.
func splitSpecs(line string) []string {
	parts := strings.Split(line, ",")
	specs := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			specs = append(specs, s)
		}
	}
	return specs
}

// render executes a page template, logging render failures.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.templates.Render(w, status, page, data); err != nil {
		zctx.From(r.Context()).Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
