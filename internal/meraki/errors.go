package meraki

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the dashboard API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("dashboard API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("dashboard API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404-class dashboard response.
// During search this means "absent from this network", not a fault.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsForbidden reports whether err is an authorization failure, which
// marks an entire organization as unreachable.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized)
}

// IsRateLimited reports whether err is a 429 response that survived the
// client's retries.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// IsAlreadyClaimed reports whether a claim request failed because the
// serial is already claimed. The orchestrator treats this as success
// when the device already sits in the target network.
func IsAlreadyClaimed(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		strings.Contains(strings.ToLower(apiErr.Message), "already claimed")
}

// UserMessage translates a remote-call failure into the fixed wording
// surfaced to callers. Internal details never leak past this point.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsRateLimited(err):
		return "the dashboard API rate limit was exceeded, please retry shortly"
	case IsForbidden(err):
		return "access to the dashboard API was denied, check the organization API key"
	case IsNotFound(err):
		return "the requested resource was not found on the dashboard"
	default:
		return err.Error()
	}
}
