package b24client_test

import (
	"testing"

	"github.com/b24io/bitrix24-client/pkg/b24client"
	"github.com/b24io/bitrix24-client/pkg/bitrix24"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWebhookURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "standard webhook with trailing slash",
			raw:      "https://acc.bitrix24.com/rest/1/abc123xyz/",
			expected: "https://acc.bitrix24.com/rest/1/abc123xyz",
		},
		{
			name:     "without trailing slash",
			raw:      "https://acc.bitrix24.com/rest/1/abc123xyz",
			expected: "https://acc.bitrix24.com/rest/1/abc123xyz",
		},
		{
			name:     "trailing method segments are dropped",
			raw:      "https://acc.bitrix24.com/rest/1/abc123xyz/crm.contact.list.json",
			expected: "https://acc.bitrix24.com/rest/1/abc123xyz",
		},
		{
			name:     "path prefix is replaced with rest",
			raw:      "https://example.com/hooks/9/secret/",
			expected: "https://example.com/rest/9/secret",
		},
		{
			name:     "http scheme is preserved",
			raw:      "http://intranet.local/rest/42/deadbeef",
			expected: "http://intranet.local/rest/42/deadbeef",
		},
		{
			name:     "host port is preserved",
			raw:      "https://portal.example.com:8443/rest/1/abc/",
			expected: "https://portal.example.com:8443/rest/1/abc",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			endpoint, err := b24client.NormalizeWebhookURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, endpoint)
		})
	}
}

func TestNormalizeWebhookURL_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty input", raw: ""},
		{name: "no path", raw: "https://acc.bitrix24.com"},
		{name: "path too short", raw: "https://acc.bitrix24.com/rest/"},
		{name: "unparseable URL", raw: "https://acc.bitrix24.com/rest/1/abc\x00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := b24client.NormalizeWebhookURL(tt.raw)
			require.ErrorIs(t, err, bitrix24.ErrInvalidDomain)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config fails", func(t *testing.T) {
		t.Parallel()

		_, err := b24client.New(nil)
		require.ErrorIs(t, err, bitrix24.ErrConfigRequired)
	})

	t.Run("invalid webhook fails", func(t *testing.T) {
		t.Parallel()

		_, err := b24client.New(&bitrix24.Config{WebhookURL: ""})
		require.ErrorIs(t, err, bitrix24.ErrInvalidDomain)
	})

	t.Run("valid webhook yields a client bound to the canonical endpoint", func(t *testing.T) {
		t.Parallel()

		client, err := b24client.New(&bitrix24.Config{
			WebhookURL: "https://acc.bitrix24.com/rest/1/abc123xyz/",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://acc.bitrix24.com/rest/1/abc123xyz", client.Endpoint())
	})
}

func TestNewFromWebhook(t *testing.T) {
	t.Parallel()

	client, err := b24client.NewFromWebhook("https://acc.bitrix24.com/rest/1/abc123xyz/")
	require.NoError(t, err)
	assert.Equal(t, "https://acc.bitrix24.com/rest/1/abc123xyz", client.Endpoint())
}
