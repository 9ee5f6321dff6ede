package bitrix24

import (
	"encoding/json"
	"fmt"
)

// ResultKind discriminates the three payload shapes a REST method can return.
type ResultKind int

const (
	// ResultNone means the payload was absent or JSON null.
	ResultNone ResultKind = iota

	// ResultObject is a JSON object payload.
	ResultObject

	// ResultList is a JSON array payload.
	ResultList

	// ResultScalar is any other JSON value (string, number, bool).
	ResultScalar
)

// String implements fmt.Stringer.
func (k ResultKind) String() string {
	switch k {
	case ResultObject:
		return "object"
	case ResultList:
		return "list"
	case ResultScalar:
		return "scalar"
	default:
		return "none"
	}
}

// Result is a tagged union over the payload shapes. Callers switch on Kind
// instead of type-asserting an interface{} payload.
type Result struct {
	kind   ResultKind
	object map[string]interface{}
	list   []interface{}
	scalar interface{}
}

// DecodeResult interprets a raw result payload.
func DecodeResult(raw json.RawMessage) (Result, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Result{}, nil
	}

	var value interface{}

	err := json.Unmarshal(raw, &value)
	if err != nil {
		return Result{}, fmt.Errorf("decoding result payload: %w", err)
	}

	switch v := value.(type) {
	case map[string]interface{}:
		return ObjectResult(v), nil
	case []interface{}:
		return ListResult(v), nil
	default:
		return ScalarResult(v), nil
	}
}

// ObjectResult wraps an object payload.
func ObjectResult(m map[string]interface{}) Result {
	return Result{kind: ResultObject, object: m}
}

// ListResult wraps a list payload.
func ListResult(l []interface{}) Result {
	return Result{kind: ResultList, list: l}
}

// ScalarResult wraps a scalar payload.
func ScalarResult(v interface{}) Result {
	return Result{kind: ResultScalar, scalar: v}
}

// Kind returns the payload shape.
func (r Result) Kind() ResultKind {
	return r.kind
}

// Object returns the object payload; nil unless Kind is ResultObject.
func (r Result) Object() map[string]interface{} {
	return r.object
}

// List returns the list payload; nil unless Kind is ResultList.
func (r Result) List() []interface{} {
	return r.list
}

// Scalar returns the scalar payload; nil unless Kind is ResultScalar.
func (r Result) Scalar() interface{} {
	return r.scalar
}

// Value returns the payload as a plain interface{} regardless of kind.
func (r Result) Value() interface{} {
	switch r.kind {
	case ResultObject:
		return r.object
	case ResultList:
		return r.list
	case ResultScalar:
		return r.scalar
	default:
		return nil
	}
}

// MarshalJSON encodes the underlying payload.
func (r Result) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(r.Value())
	if err != nil {
		return nil, fmt.Errorf("encoding result payload: %w", err)
	}

	return data, nil
}
