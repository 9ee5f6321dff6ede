// Package client holds the concrete bitrix24.Client implementation.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/b24io/bitrix24-client/internal/constants"
	internalhttp "github.com/b24io/bitrix24-client/internal/http"
	"github.com/b24io/bitrix24-client/pkg/bitrix24"
)

// postVerbs are the method-name prefixes that switch the invocation to a
// form-encoded POST. The comparison is against the text before the first dot,
// matching the original client's dispatch exactly.
var postVerbs = map[string]struct{}{
	"add":    {},
	"update": {},
	"delete": {},
	"set":    {},
}

// Client implements the bitrix24.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	endpoint   string
	logger     bitrix24.Logger
	metrics    *bitrix24.MetricsCollector

	// rateLimitBackoff is fixed by the protocol; tests shorten it.
	rateLimitBackoff time.Duration
}

// New creates a client bound to an already-normalized REST endpoint.
func New(endpoint string, config *bitrix24.Config) (*Client, error) {
	if config == nil {
		return nil, bitrix24.ErrConfigRequired
	}

	httpOpts := createHTTPClientOptions(config)

	return &Client{
		httpClient:       internalhttp.NewClient(endpoint, httpOpts...),
		endpoint:         endpoint,
		logger:           config.Logger,
		metrics:          config.Metrics,
		rateLimitBackoff: constants.RateLimitBackoff,
	}, nil
}

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *bitrix24.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// Endpoint implements bitrix24.Client.Endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// methodUsesPost applies the dispatch rule: the text before the first dot
// (the whole name when there is no dot) decides the HTTP verb.
func methodUsesPost(method string) bool {
	head, _, _ := strings.Cut(method, ".")
	_, ok := postVerbs[head]

	return ok
}

// Call implements bitrix24.Client.Call. The loop reissues the identical
// request after a fixed suspension whenever the remote signals
// QUERY_LIMIT_EXCEEDED; the retry count is uncapped, matching the remote
// contract that the throttle eventually clears.
func (c *Client) Call(ctx context.Context, method string, params bitrix24.Params) (*bitrix24.Response, error) {
	if method == "" {
		return nil, bitrix24.ErrMethodRequired
	}

	path := "/" + method + ".json"
	wire := params.Encode()

	for {
		started := time.Now()

		var (
			resp *internalhttp.Response
			err  error
		)

		if methodUsesPost(method) {
			resp, err = c.httpClient.PostForm(ctx, path, wire)
		} else {
			resp, err = c.httpClient.Get(ctx, path, wire)
		}

		if err != nil {
			c.metrics.IncError(method)

			return nil, fmt.Errorf("calling %s: %w", method, err)
		}

		c.metrics.ObserveCall(method, resp.StatusCode, time.Since(started))

		envelope, rateLimited, err := classify(resp.Body)
		if err != nil {
			c.metrics.IncError(method)

			return nil, err
		}

		if !rateLimited {
			return envelope, nil
		}

		c.metrics.IncRateLimitRetry(method)

		if c.logger != nil {
			c.logger.Warn("rate limited, retrying", map[string]interface{}{
				"method":  method,
				"backoff": c.rateLimitBackoff.String(),
			})
		}

		err = sleepContext(ctx, c.rateLimitBackoff)
		if err != nil {
			return nil, err
		}
	}
}

// classify decodes one response body. It reports the throttle signal whether
// or not the body parsed as JSON; every other error shape becomes an
// *APIError carrying the body.
func classify(body []byte) (*bitrix24.Response, bool, error) {
	var envelope bitrix24.Response

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		if strings.Contains(string(body), bitrix24.RateLimitSignal) {
			return nil, true, nil
		}

		return nil, false, &bitrix24.APIError{Raw: body}
	}

	if envelope.HasError() {
		if strings.Contains(envelope.ErrorCode, bitrix24.RateLimitSignal) {
			return nil, true, nil
		}

		return nil, false, &bitrix24.APIError{
			Code:        envelope.ErrorCode,
			Description: envelope.ErrorDescription,
			Raw:         body,
		}
	}

	return &envelope, false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting out rate limit: %w", ctx.Err())
	}
}

// CallMethodIter implements bitrix24.Client.CallMethodIter.
func (c *Client) CallMethodIter(ctx context.Context, method string, params bitrix24.Params) *bitrix24.PageIterator {
	return bitrix24.NewPageIterator(ctx, c, method, params)
}

// CallMethod implements bitrix24.Client.CallMethod.
func (c *Client) CallMethod(ctx context.Context, method string, params bitrix24.Params) (bitrix24.Result, error) {
	return bitrix24.MergePages(c.CallMethodIter(ctx, method, params))
}

// CallMethodList implements bitrix24.Client.CallMethodList. Offset paging is
// disabled (start=-1) and the sort order pinned to ascending ID so the >ID
// filter clause can act as an exclusive cursor. Exhaustion is signalled only
// by an empty page, never by a short one.
func (c *Client) CallMethodList(ctx context.Context, method string, startID int, key string, params bitrix24.Params) ([]map[string]interface{}, error) {
	callParams := params.
		Set("start", -1).
		Set("order", bitrix24.Params{bitrix24.P("ID", "asc")})

	baseFilter := filterParams(callParams)

	var (
		rows   []map[string]interface{}
		cursor interface{} = startID
	)

	for {
		withCursor := callParams.Set("filter", baseFilter.Set(">ID", cursor))

		resp, err := c.Call(ctx, method, withCursor)
		if err != nil {
			return nil, err
		}

		result, err := bitrix24.DecodeResult(resp.Result)
		if err != nil {
			return nil, fmt.Errorf("decoding %s result: %w", method, err)
		}

		items := extractRows(result, key)
		if len(items) == 0 {
			return rows, nil
		}

		for i, item := range items {
			row, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s row %d", bitrix24.ErrRowNotObject, method, i)
			}

			rows = append(rows, row)
		}

		id, ok := rows[len(rows)-1]["id"]
		if !ok {
			return nil, fmt.Errorf("%w: %s", bitrix24.ErrRowMissingID, method)
		}

		cursor = normalizeID(id)
	}
}

// filterParams returns the caller-supplied filter as ordered Params, or an
// empty filter when absent or of an unsupported shape.
func filterParams(params bitrix24.Params) bitrix24.Params {
	value, ok := params.Get("filter")
	if !ok {
		return bitrix24.Params{}
	}

	switch filter := value.(type) {
	case bitrix24.Params:
		return filter
	case map[string]interface{}:
		keys := make([]string, 0, len(filter))
		for k := range filter {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		out := make(bitrix24.Params, 0, len(filter))
		for _, k := range keys {
			out = append(out, bitrix24.P(k, filter[k]))
		}

		return out
	default:
		return bitrix24.Params{}
	}
}

// extractRows pulls the row list out of a page result. Object results are
// drilled into via key; a missing or non-list entry means no rows.
func extractRows(result bitrix24.Result, key string) []interface{} {
	switch result.Kind() {
	case bitrix24.ResultList:
		return result.List()
	case bitrix24.ResultObject:
		sub, _ := result.Object()[key].([]interface{})

		return sub
	default:
		return nil
	}
}

// normalizeID keeps integral JSON numbers printable without an exponent when
// they are interpolated into the >ID filter clause.
func normalizeID(id interface{}) interface{} {
	if f, ok := id.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}

	return id
}
