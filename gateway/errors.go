package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
)

const maxBodyInMessage = 200

var (
	// ErrUnauthorized matches any *APIError carrying HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden matches any *APIError carrying HTTP 403.
	ErrForbidden = errors.New("forbidden")
	// ErrSessionExpired is returned when a 401 could not be recovered by a
	// refresh exchange. Persisted tokens have been cleared.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte

	fields map[string]json.RawMessage
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path, Body: body}
	_ = json.Unmarshal(body, &e.fields)
	return e
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case apperrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Detail returns the server's "detail" message, if any.
func (e *APIError) Detail() string {
	return e.StringField("detail")
}

// StringField returns a top level string field of the error body.
func (e *APIError) StringField(name string) string {
	raw, ok := e.fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// FieldError returns the first validation message for a field. Validation
// bodies look like {"username": ["already exists"]}; a bare string is
// accepted too.
func (e *APIError) FieldError(name string) string {
	raw, ok := e.fields[name]
	if !ok {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0]
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// Message is a best effort human readable message.
func (e *APIError) Message() string {
	if d := e.Detail(); d != "" {
		return d
	}
	if s := e.StringField("error"); s != "" {
		return s
	}
	if s := e.FieldError("non_field_errors"); s != "" {
		return s
	}
	if len(e.fields) == 0 {
		body := strings.TrimSpace(string(e.Body))
		if len(body) > maxBodyInMessage {
			body = body[:maxBodyInMessage] + "..."
		}
		return body
	}
	return ""
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
