package httperrors

import (
	"fmt"

	"github/veilport/go-wallet/internal/types"
)

// HTTPError wraps the public error body so handlers can return it directly.
type HTTPError struct {
	types.PublicHTTPError
	// Internal carries context for logs only, never serialized.
	Internal error `json:"-"`
}

// NewHTTPError creates a public HTTP error with the given status, type and title.
func NewHTTPError(status int, errorType string, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Status: status,
			Type:   errorType,
			Title:  title,
		},
	}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", e.Status, e.Type, e.Title, e.Internal)
	}

	return fmt.Sprintf("HTTPError %d (%s): %s", e.Status, e.Type, e.Title)
}
