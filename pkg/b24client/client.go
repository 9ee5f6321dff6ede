// Package b24client provides the main entry point for creating Bitrix24 REST clients
package b24client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/b24io/bitrix24-client/internal/client"
	"github.com/b24io/bitrix24-client/pkg/bitrix24"
)

// pathSegmentsMin is the minimum number of "/"-split path elements a webhook
// URL must have so the user id and secret code can be taken positionally.
const pathSegmentsMin = 4

// New creates a new Bitrix24 REST client from a webhook configuration.
func New(config *bitrix24.Config) (bitrix24.Client, error) {
	if config == nil {
		return nil, bitrix24.ErrConfigRequired
	}

	endpoint, err := NormalizeWebhookURL(config.WebhookURL)
	if err != nil {
		return nil, err
	}

	cli, err := client.New(endpoint, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewFromWebhook creates a new client with default configuration from just
// the webhook URL.
func NewFromWebhook(webhookURL string) (bitrix24.Client, error) {
	return New(&bitrix24.Config{
		WebhookURL: webhookURL,
	})
}

// NormalizeWebhookURL derives the canonical REST endpoint from a
// user-supplied webhook URL. The 2nd and 3rd "/"-split elements of the path
// are taken positionally as user id and secret code regardless of what
// precedes them, so "https://acc.bitrix24.com/rest/1/secret/extra" becomes
// "https://acc.bitrix24.com/rest/1/secret". Neither value is validated: a
// malformed webhook yields a malformed endpoint that fails on the first
// remote call.
func NormalizeWebhookURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty URL", bitrix24.ErrInvalidDomain)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %q: %s", bitrix24.ErrInvalidDomain, raw, err)
	}

	segments := strings.Split(parsed.Path, "/")
	if len(segments) < pathSegmentsMin {
		return "", fmt.Errorf("%w: path %q carries no user id and secret code", bitrix24.ErrInvalidDomain, parsed.Path)
	}

	return fmt.Sprintf("%s://%s/rest/%s/%s", parsed.Scheme, parsed.Host, segments[2], segments[3]), nil
}
