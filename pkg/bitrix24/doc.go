// Package bitrix24 provides types, interfaces, and helpers for working with
// the Bitrix24 REST API over inbound webhooks.
//
// # Overview
//
// The bitrix24 package defines the client interface, the ordered Params
// structure and its wire encoding, the Response envelope, the tagged Result
// union, and the pagination helpers. A concrete implementation of the client
// is provided by the b24client package, which wires configuration, transport,
// and webhook URL normalization. Most consumers should import b24client to
// construct a client and then call REST methods through the interface exposed
// here.
//
// Getting a client
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
//	  cli, err := b24client.NewFromWebhook("https://example.bitrix24.com/rest/1/33olqeits4avuyqu")
//	  if err != nil { log.Fatal(err) }
//
//	  res, err := cli.CallMethod(ctx, "crm.product.list", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = res
//	}
//
// # Parameters
//
// Call parameters are an ordered list of key/value fields. Nested Params,
// maps, and slices are flattened into the bracketed key encoding the API
// expects (for example FILTER[>ID]=42). Values are interpolated verbatim, so
// callers must pre-escape anything containing reserved URL characters.
//
// # Retrieval idioms
//
// Three idioms are available. Call issues a single invocation and returns the
// raw Response envelope. CallMethod drains all offset pages and merges them
// into one Result. CallMethodIter exposes the page stream as an explicit
// iterator:
//
//	it := cli.CallMethodIter(ctx, "crm.deal.list", nil)
//	for it.HasNext() {
//	  page, err := it.Next()
//	  if err != nil { break }
//	  _ = page
//	}
//
// CallMethodList walks a method by ascending row ID instead of offsets, which
// is considerably faster for large tables.
//
// # Errors
//
// Remote errors are surfaced as *APIError. The QUERY_LIMIT_EXCEEDED throttle
// signal is never surfaced: the client sleeps two seconds and reissues the
// call. Construction with a bad webhook URL fails with ErrInvalidDomain.
package bitrix24
