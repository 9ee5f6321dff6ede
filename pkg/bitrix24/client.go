package bitrix24

import (
	"context"
	"time"
)

// Client is the webhook REST client surface. A concrete implementation is
// constructed by the b24client package.
type Client interface {
	// Call issues a single REST invocation and returns the decoded envelope.
	// The QUERY_LIMIT_EXCEEDED throttle signal is absorbed by an internal
	// retry and never returned to the caller.
	Call(ctx context.Context, method string, params Params) (*Response, error)

	// CallMethod drains every offset page of the method and merges them into
	// a single Result. Object pages merge key-by-key, list pages concatenate,
	// and scalar-returning methods pass their value through unchanged.
	CallMethod(ctx context.Context, method string, params Params) (Result, error)

	// CallMethodIter returns an iterator over the method's offset pages. See
	// PageIterator for the emission-order contract.
	CallMethodIter(ctx context.Context, method string, params Params) *PageIterator

	// CallMethodList fetches every row of a list method by walking the ID
	// cursor upward from startID. When the method wraps its rows in an
	// object, key selects the row list inside it.
	CallMethodList(ctx context.Context, method string, startID int, key string, params Params) ([]map[string]interface{}, error)

	// Endpoint returns the canonical REST endpoint derived from the webhook
	// URL at construction time.
	Endpoint() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a bitrix24.Client.
//
// # Webhook URL
//
// WebhookURL is the inbound webhook address issued by Bitrix24, of the form
// "https://account.bitrix24.com/rest/<user-id>/<secret>/". b24client.New
// normalizes it to the canonical endpoint "scheme://host/rest/<uid>/<secret>"
// and keeps it immutable for the client's lifetime. The user id and secret
// are taken positionally from the path; their content is not validated, so a
// malformed webhook only fails on the first remote call.
//
// # Timeouts and retries
//
// Timeout bounds each HTTP round trip (default 60 seconds). RetryMax and the
// wait bounds control transport-level retries for network and 5xx failures;
// they default to zero so a remote error surfaces on the first attempt. The
// two-second rate-limit backoff is part of the protocol and not configurable.
type Config struct {
	// WebhookURL: inbound webhook address, required.
	WebhookURL string

	// Timeout: HTTP round-trip timeout. Defaults to 60 seconds.
	Timeout time.Duration

	// RetryMax: maximum transport-level retries for connection errors and
	// 5xx responses. Zero disables transport retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between transport retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between transport retries.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and the
	// rate-limit retry loop.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	// Metrics: optional Prometheus collector observing every invocation.
	Metrics *MetricsCollector
}
