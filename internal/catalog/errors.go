package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"filmdesk/internal/services"
)

// APIError reports a non-2xx response from the catalog API.
type APIError struct {
	Method string
	Path   string
	Status int
	// Message is the server-provided "message" field, when the body was JSON.
	Message string
	// Body is the raw response text, truncated.
	Body string
	// JSON reports whether the body parsed as a JSON object.
	JSON bool
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if detail == "" {
		return fmt.Sprintf("catalog %s %s returned %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("catalog %s %s returned %d: %s", e.Method, e.Path, e.Status, detail)
}

// Unwrap maps the status onto a services marker.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return services.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return services.ErrAccessDenied
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return services.ErrValidation
	default:
		return services.ErrTransport
	}
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method: method,
		Path:   path,
		Status: status,
		Body:   strings.TrimSpace(string(body)),
	}
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.JSON = true
		apiErr.Message = strings.TrimSpace(parsed.Message)
	}
	return apiErr
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
