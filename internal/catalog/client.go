package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ListParams are the arguments of a product listing request. The zero values
// of Search and Category omit the corresponding query parameters; the struct
// is comparable so callers can detect stale responses by equality.
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// ImageUpload is an image file accompanying a create or update call.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// Client is a typed client for the catalog API. It performs no retries:
// every failure is reported once to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the API rooted at baseURL (e.g.
// "https://backend.example.com/api"). When hc is nil a default client with a
// 30s timeout is used.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    hc,
	}
}

// listResponse mirrors the backend's paginated listing envelope.
type listResponse struct {
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalProducts int       `json:"totalProducts"`
}

// ListProducts fetches one page of products matching params.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (*ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("limit", strconv.Itoa(params.Limit))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}

	var body listResponse
	if err := c.getJSON(ctx, "/products?"+q.Encode(), &body); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if body.Products == nil {
		body.Products = []Product{}
	}
	return &ProductPage{
		Items:      body.Products,
		Page:       body.CurrentPage,
		TotalPages: body.TotalPages,
		TotalCount: body.TotalProducts,
	}, nil
}

// GetProduct fetches a single product by ID. A backend 404 is reported as
// ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &p); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	return &p, nil
}

// ListCategories fetches the category names known to the backend.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/categories", &categories); err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

// Login exchanges a username and password for a credential token and role.
// A backend 401 is reported as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(username)
	e.FieldStart("password")
	e.Str(password)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(e.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "login request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if err := checkStatus(resp); err != nil {
		return nil, errors.Wrap(err, "login")
	}

	var creds Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return nil, errors.Wrap(err, "decode login response")
	}
	return &creds, nil
}

// CreateProduct creates a product via a multipart form, optionally attaching
// an image file. The credential token is sent as a bearer token.
func (c *Client) CreateProduct(ctx context.Context, fields Fields, image *ImageUpload, token string) (*Product, error) {
	p, err := c.submitProduct(ctx, http.MethodPost, "/products", fields, image, token)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return p, nil
}

// UpdateProduct updates a product via a multipart form. When image is nil,
// fields.ImageURL is resent so the backend does not clear the stored image.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields Fields, image *ImageUpload, token string) (*Product, error) {
	p, err := c.submitProduct(ctx, http.MethodPut, "/products/"+url.PathEscape(id), fields, image, token)
	if err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return p, nil
}

// DeleteProduct deletes a product and returns the backend's acknowledgement
// message.
func (c *Client) DeleteProduct(ctx context.Context, id, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/products/"+url.PathEscape(id), nil)
	if err != nil {
		return "", errors.Wrap(err, "build delete request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "delete request")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return "", errors.Wrap(err, "delete product")
	}

	var ack struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", errors.Wrap(err, "decode delete response")
	}
	return ack.Message, nil
}

// submitProduct sends a multipart create or update request and decodes the
// returned product.
func (c *Client) submitProduct(ctx context.Context, method, path string, fields Fields, image *ImageUpload, token string) (*Product, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := writeProductForm(mw, fields, image); err != nil {
		return nil, errors.Wrap(err, "encode form")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "close form")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &p, nil
}

// writeProductForm encodes fields into the multipart shape the backend
// expects: plain form values, specs as a JSON array of strings, and either an
// image file part or an imageUrl carry-forward value.
func writeProductForm(mw *multipart.Writer, fields Fields, image *ImageUpload) error {
	values := map[string]string{
		"name":        fields.Name,
		"description": fields.Description,
		"price":       fields.Price.String(),
		"quantity":    strconv.Itoa(fields.Quantity),
		"category":    fields.Category,
		"subCategory": fields.SubCategory,
	}
	if fields.OriginalPrice.IsPositive() {
		values["originalPrice"] = fields.OriginalPrice.String()
	}
	for name, value := range values {
		if err := mw.WriteField(name, value); err != nil {
			return errors.Wrap(err, name)
		}
	}

	var e jx.Encoder
	e.ArrStart()
	for _, spec := range fields.Specs {
		e.Str(spec)
	}
	e.ArrEnd()
	if err := mw.WriteField("specs", string(e.Bytes())); err != nil {
		return errors.Wrap(err, "specs")
	}

	switch {
	case image != nil:
		part, err := mw.CreateFormFile("image", image.Filename)
		if err != nil {
			return errors.Wrap(err, "image part")
		}
		if _, err := io.Copy(part, image.Data); err != nil {
			return errors.Wrap(err, "copy image")
		}
	case fields.ImageURL != "":
		if err := mw.WriteField("imageUrl", fields.ImageURL); err != nil {
			return errors.Wrap(err, "imageUrl")
		}
	}
	return nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// checkStatus converts a non-2xx response into an *HTTPError, pulling the
// server message out of a JSON {"message": ...} body when one is present.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	httpErr := &HTTPError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
			httpErr.Message = msg.Message
		}
	}
	return httpErr
}
