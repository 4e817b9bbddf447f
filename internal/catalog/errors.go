package catalog

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors reported by the client.
var (
	// ErrNotFound is returned when the backend reports 404 for a product.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidCredentials is returned when login is rejected with 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// HTTPError is a non-2xx response from the backend. Message carries the
// server-provided message when the body contained one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}
