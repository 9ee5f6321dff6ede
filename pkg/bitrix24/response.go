package bitrix24

import (
	"encoding/json"
)

// Response is the decoded reply envelope of a single REST invocation. A reply
// carries either a result payload or an error, never both; that contract is
// enforced by the remote service, not validated here.
type Response struct {
	// Result is the method payload, left raw so the caller (or DecodeResult)
	// chooses how to interpret its shape.
	Result json.RawMessage `json:"result,omitempty"`

	// Next is the offset of the next page when more rows are available.
	Next *int `json:"next,omitempty"`

	// Total is the full row count across all pages.
	Total int `json:"total,omitempty"`

	// Time is the server-side timing block Bitrix24 attaches to every reply.
	Time *CallTime `json:"time,omitempty"`

	// ErrorCode and ErrorDescription are set on error replies.
	ErrorCode        string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HasNext reports whether the envelope points at a further page.
func (r *Response) HasNext() bool {
	return r.Next != nil
}

// HasError reports whether the envelope carries a remote error.
func (r *Response) HasError() bool {
	return r.ErrorCode != "" || r.ErrorDescription != ""
}

// CallTime is the timing block of a reply.
type CallTime struct {
	Start            float64 `json:"start"`
	Finish           float64 `json:"finish"`
	Duration         float64 `json:"duration"`
	Processing       float64 `json:"processing"`
	DateStart        string  `json:"date_start"`
	DateFinish       string  `json:"date_finish"`
	OperatingResetAt int64   `json:"operating_reset_at,omitempty"`
	Operating        float64 `json:"operating,omitempty"`
}
