// Package b24client provides the primary entry point for constructing a
// Bitrix24 REST client that implements the bitrix24.Client interface.
//
// It layers configuration, HTTP transport, and webhook URL normalization on
// top of the types defined in the bitrix24 package. Most applications should
// import b24client to build a client, then use the returned bitrix24.Client
// to invoke REST methods.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/b24io/bitrix24-client/pkg/b24client"
//	  "github.com/b24io/bitrix24-client/pkg/bitrix24"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just the inbound webhook URL.
//	  cli, err := b24client.NewFromWebhook("https://example.bitrix24.com/rest/1/33olqeits4avuyqu")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with explicit configuration:
//	  cli, err = b24client.New(&bitrix24.Config{
//	    WebhookURL: "https://example.bitrix24.com/rest/1/33olqeits4avuyqu",
//	    Timeout:    30 * time.Second,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  deals, err := cli.CallMethod(ctx, "crm.deal.list", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = deals
//	}
//
// The webhook URL embeds the pre-issued user id and secret code, so no other
// authentication is configured or performed.
package b24client
