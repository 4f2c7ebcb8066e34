package simba

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrInvalidBaseURL      = errors.New("base URL must be an absolute http or https URL")
	ErrRequestRequired     = errors.New("request is required")
	ErrTokenURLRequired    = errors.New("token URL is required")
	ErrCredentialsRequired = errors.New("client id and client secret are required to authorize")
	ErrNoTokenStore        = errors.New("no token store registered to this client")
	ErrMissingRequestBody  = errors.New("post requests must include a body or a file upload")
	ErrMissingAccessToken  = errors.New("token response is missing an access token")
	ErrUnknownMiddleware   = errors.New("unknown middleware name")
	ErrClientClosed        = errors.New("client is closed")
)

// RequestError is returned by Do for any response with status >= 300. Message
// carries the server's explanation: the `detail` field of a JSON body when
// present, otherwise the raw body text.
type RequestError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request was unsuccessful: %s (status %d)", e.Message, e.StatusCode)
}

// AuthorizationError is returned by Authorize when the token endpoint answers
// with a non-200 status. Body is the raw response text.
type AuthorizationError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization failed: %s (status %d)", e.Body, e.StatusCode)
}

// newRequestError classifies a non-success response. The message extraction is
// an explicit two-step parse: try the JSON `detail` field, fall back to the
// raw body text when the body is not JSON or lacks that key.
func newRequestError(resp *Response) *RequestError {
	message := resp.Text()

	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body, &payload); err == nil {
		if detail, ok := payload["detail"]; ok {
			if text, ok := detail.(string); ok {
				message = text
			} else {
				message = fmt.Sprintf("%v", detail)
			}
		}
	}

	return &RequestError{StatusCode: resp.StatusCode, Message: message}
}

// IsNotFound checks if the error is a not found response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is an unauthorized response.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a forbidden response.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited checks if the error is a rate limited response.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == status
	}

	authErr := &AuthorizationError{}
	if errors.As(err, &authErr) {
		return authErr.StatusCode == status
	}

	return false
}
