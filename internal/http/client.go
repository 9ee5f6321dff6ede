// Package http provides the HTTP transport for the Bitrix24 REST client.
//
// The transport is deliberately thin: it owns the base endpoint, the timeout,
// optional transport-level retries, and debug logging. It does not interpret
// response bodies — Bitrix24 reports errors in-band with any HTTP status, so
// classification belongs to the invoker layer.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/b24io/bitrix24-client/internal/constants"
	"github.com/b24io/bitrix24-client/pkg/bitrix24"
)

// Logger interface for transport logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one transport round trip. RawQuery and FormBody carry
// pre-encoded wire parameters and are attached verbatim: the parameter
// encoder already produced the exact bytes the remote expects, so no
// re-encoding or escaping happens here.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	FormBody string
	Headers  map[string]string
}

// Response is the raw transport reply.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the HTTP transport. Each bitrix24 client owns one instance; no
// global session state is shared.
type Client struct {
	retryClient  *retryablehttp.Client
	baseURL      string
	userAgent    string
	logger       Logger
	debug        bool
	interceptors *bitrix24.InterceptorChain
}

// Option configures the transport client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds each round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables transport-level retries for connection failures and
// 5xx responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithInterceptors installs an interceptor chain around every round trip.
func WithInterceptors(chain *bitrix24.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		retryClient: retryClient,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   "bitrix24-client/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes one round trip. Non-2xx statuses are not errors at this layer.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.interceptors != nil {
		treq := &bitrix24.TransportRequest{
			Method:   req.Method,
			Path:     req.Path,
			RawQuery: req.RawQuery,
			FormBody: req.FormBody,
			Headers:  req.Headers,
		}

		err := c.interceptors.ExecuteRequestInterceptors(ctx, treq)
		if err != nil {
			return nil, err
		}

		req.Headers = treq.Headers
	}

	fullURL := c.baseURL + req.Path
	if req.RawQuery != "" {
		fullURL += "?" + req.RawQuery
	}

	var body interface{}
	if req.FormBody != "" {
		body = []byte(req.FormBody)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.FormBody != "" {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		c.runResponseInterceptors(ctx, req, &bitrix24.TransportResponse{Err: err})

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	c.runResponseInterceptors(ctx, req, &bitrix24.TransportResponse{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	})

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) runResponseInterceptors(ctx context.Context, req *Request, resp *bitrix24.TransportResponse) {
	if c.interceptors == nil {
		return
	}

	treq := &bitrix24.TransportRequest{
		Method:   req.Method,
		Path:     req.Path,
		RawQuery: req.RawQuery,
		FormBody: req.FormBody,
		Headers:  req.Headers,
	}

	err := c.interceptors.ExecuteResponseInterceptors(ctx, treq, resp)
	if err != nil && c.logger != nil {
		c.logger.Warn("response interceptor failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Get issues a GET with the pre-encoded query string.
func (c *Client) Get(ctx context.Context, path, rawQuery string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:   http.MethodGet,
		Path:     path,
		RawQuery: rawQuery,
	})
}

// PostForm issues a POST with the pre-encoded form body.
func (c *Client) PostForm(ctx context.Context, path, formBody string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:   http.MethodPost,
		Path:     path,
		FormBody: formBody,
	})
}
