package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/confidence-supplies/storefront/internal/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages are the content templates, each rendered inside layout.tmpl.
var pages = []string{
	"home.tmpl",
	"products.tmpl",
	"product.tmpl",
	"notfound.tmpl",
	"login.tmpl",
	"admin.tmpl",
}

// templateFuncs are the helpers available to every template.
var templateFuncs = template.FuncMap{
	"formatPrice": func(d decimal.Decimal) string {
		return view.FormatPrice(d)
	},
}

// Templates holds one parsed template set per page.
type Templates struct {
	sets map[string]*template.Template
}

// NewTemplates parses the embedded templates.
func NewTemplates() (*Templates, error) {
	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.tmpl",
			"templates/card.tmpl",
			"templates/"+page,
		)
		if err != nil {
			return nil, errors.Wrap(err, page)
		}
		sets[page] = t
	}
	return &Templates{sets: sets}, nil
}

// Render writes page with data to w, buffering so a template failure never
// emits a half-written body.
func (t *Templates) Render(w http.ResponseWriter, status int, page string, data any) error {
	set, ok := t.sets[page]
	if !ok {
		return errors.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.Wrap(err, "execute "+page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded static assets under /static/.
func StaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
