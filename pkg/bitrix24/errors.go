package bitrix24

import (
	"errors"
	"fmt"
	"strings"
)

// RateLimitSignal is the substring Bitrix24 puts in the error field when the
// request rate limit is exceeded. Responses carrying it are retried
// internally and never surface as errors.
const RateLimitSignal = "QUERY_LIMIT_EXCEEDED"

// Static errors for err113 compliance.
var (
	ErrInvalidDomain  = errors.New("invalid webhook domain")
	ErrConfigRequired = errors.New("config is required")
	ErrMethodRequired = errors.New("method name is required")
	ErrNoMorePages    = errors.New("no more pages")
	ErrRowNotObject   = errors.New("list row is not an object")
	ErrRowMissingID   = errors.New("list row has no id field")
)

// APIError represents an error reported by the Bitrix24 REST API, or an
// unparseable response body. Raw always carries the original response so the
// caller can inspect it.
type APIError struct {
	// Code is the value of the error field, e.g. "ERROR_METHOD_NOT_FOUND".
	Code string
	// Description is the value of the error_description field.
	Description string
	// Raw is the response body as received.
	Raw []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("bitrix24: %s: %s", e.Code, e.Description)
	case e.Code != "":
		return fmt.Sprintf("bitrix24: %s", e.Code)
	default:
		return fmt.Sprintf("bitrix24: unparseable response: %s", truncate(string(e.Raw), 200))
	}
}

// IsRateLimit reports whether the error carries the throttle signal.
func (e *APIError) IsRateLimit() bool {
	return strings.Contains(e.Code, RateLimitSignal) || strings.Contains(string(e.Raw), RateLimitSignal)
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
