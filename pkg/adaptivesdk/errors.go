package adaptivesdk

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/aussiebroadwan/adaptive/pkg/httpx"
)

const (
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeSessionNotFound    = "session_not_found"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeUnavailable        = "temporarily_unavailable"
	ErrorCodeServerError        = "server_error"
)

// APIError is both the server's error response and the client's error value.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on status and code so callers can errors.Is against the
// predefined values regardless of description or details.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes e as JSON. 401 responses carry a bearer challenge.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer`)
	}
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
	}

	// ErrInvalidCredentials is the single answer to every failed login.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "insufficient role",
	}

	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request body is missing or malformed",
	}

	ErrSessionNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeSessionNotFound,
		Description: "session not found",
	}

	ErrPrincipalNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "principal not found",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "email already registered",
	}

	ErrAlreadyBootstrapped = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "already bootstrapped",
	}

	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "a backing service is unavailable, retry later",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewValidationError reports field level problems, keyed by JSON field name.
func NewValidationError(details map[string]string) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: "request validation failed",
		Details:     maps.Clone(details),
	}
}

// NewFieldError is NewValidationError for a single field.
func NewFieldError(field, problem string) *APIError {
	return NewValidationError(map[string]string{field: problem})
}

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        er.Error,
			Description: er.ErrorDescription,
			Details:     er.Details,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
