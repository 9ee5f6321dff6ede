package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	internalhttp "github.com/b24io/bitrix24-client/internal/http"
	"github.com/b24io/bitrix24-client/pkg/bitrix24"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/profile.json", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "bitrix24-client/1.0", request.Header.Get("User-Agent"))

			_, _ = writer.Write([]byte(`{"result":{"ID":"1"}}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &internalhttp.Request{
			Method: "GET",
			Path:   "/profile.json",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"result":{"ID":"1"}}`, string(resp.Body))
	})

	t.Run("raw query passes through verbatim", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "filter[>ID]=1&start=0&", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/crm.contact.list.json", "filter[>ID]=1&start=0&")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("form post carries the body verbatim", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))

			body, _ := io.ReadAll(request.Body)
			assert.Equal(t, "fields[NAME]=Jane&", string(body))

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.PostForm(context.Background(), "/add.item.json", "fields[NAME]=Jane&")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("non-2xx status is not an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"error":"INVALID_REQUEST"}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "INVALID_REQUEST")
	})

	t.Run("custom user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "my-integration/2.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, internalhttp.WithUserAgent("my-integration/2.0"))

		_, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
	})

	t.Run("trailing base slash is trimmed", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/profile.json", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL + "/")

		_, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
	})
}

func TestClient_Retries(t *testing.T) {
	t.Parallel()

	t.Run("5xx is retried when configured", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			requests++
			if requests == 1 {
				writer.WriteHeader(http.StatusBadGateway)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL,
			internalhttp.WithRetryConfig(2, time.Millisecond, 5*time.Millisecond))

		resp, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, requests)
	})

	t.Run("5xx is returned as-is without retries", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			requests++
			writer.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
		assert.Equal(t, 502, resp.StatusCode)
		assert.Equal(t, 1, requests)
	})
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := internalhttp.NewClient(server.URL,
		internalhttp.WithLogger(logger),
		internalhttp.WithDebug(true))

	_, err := client.Get(context.Background(), "/profile.json", "")
	require.NoError(t, err)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
	assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("request interceptor injects headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "trace-123", request.Header.Get("X-Trace-Id"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		chain := bitrix24.NewInterceptorChain()
		chain.AddRequestInterceptor(bitrix24.HeaderInterceptor(map[string]string{
			"X-Trace-Id": "trace-123",
		}))

		client := internalhttp.NewClient(server.URL, internalhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
	})

	t.Run("response interceptor observes the reply", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusTeapot)
		}))
		defer server.Close()

		var observed int

		chain := bitrix24.NewInterceptorChain()
		chain.AddResponseInterceptor(func(_ context.Context, _ *bitrix24.TransportRequest, resp *bitrix24.TransportResponse) error {
			observed = resp.StatusCode

			return nil
		})

		client := internalhttp.NewClient(server.URL, internalhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/profile.json", "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusTeapot, observed)
	})
}
