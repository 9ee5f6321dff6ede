package bitrix24

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Param is a single named call parameter.
type Param struct {
	Key   string
	Value interface{}
}

// Params is an ordered list of call parameters. Order is insertion order and
// is preserved by Encode, so the same structure always produces the same wire
// string. Values may be scalars, nested Params, maps (keys are sorted to keep
// the encoding deterministic), or slices of any of those.
type Params []Param

// P builds a single parameter, for literal Params construction:
//
//	bitrix24.Params{bitrix24.P("filter", bitrix24.Params{bitrix24.P(">ID", 42)})}
func P(key string, value interface{}) Param {
	return Param{Key: key, Value: value}
}

// Set replaces the value of key if present, otherwise appends it. The
// receiver is not modified; the updated Params is returned.
func (p Params) Set(key string, value interface{}) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)

	for i := range out {
		if out[i].Key == key {
			out[i].Value = value

			return out
		}
	}

	return append(out, Param{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Params) Get(key string) (interface{}, bool) {
	for i := range p {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}

	return nil, false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)

	return ok
}

// Encode flattens the parameters into the bracketed key=value wire format the
// Bitrix24 API expects, e.g. {filter: {>ID: 1}} -> "filter[>ID]=1&". The
// string keeps its trailing ampersand; the transport tolerates it. Empty
// slices are dropped silently. No URL-escaping is performed: scalar values
// are interpolated verbatim, so callers must pre-escape values containing
// reserved characters.
func (p Params) Encode() string {
	var b strings.Builder

	encodeParams(&b, p, "")

	return b.String()
}

func encodeParams(b *strings.Builder, params Params, prev string) {
	for _, field := range params {
		key := field.Key

		if nested, ok := asParams(field.Value); ok {
			if prev != "" {
				key = fmt.Sprintf("%s[%s]", prev, key)
			}

			encodeParams(b, nested, key)

			continue
		}

		if elems, ok := asSlice(field.Value); ok {
			for offset, val := range elems {
				if nested, ok := asParams(val); ok {
					encodeParams(b, nested, fmt.Sprintf("%s[%s][%d]", prev, key, offset))
				} else if prev != "" {
					fmt.Fprintf(b, "%s[%s][%d]=%v&", prev, key, offset, val)
				} else {
					fmt.Fprintf(b, "%s[%d]=%v&", key, offset, val)
				}
			}

			continue
		}

		if prev != "" {
			fmt.Fprintf(b, "%s[%s]=%v&", prev, key, field.Value)
		} else {
			fmt.Fprintf(b, "%s=%v&", key, field.Value)
		}
	}
}

// asParams normalizes every mapping shape to ordered Params. Plain maps have
// no insertion order, so their keys are sorted.
func asParams(v interface{}) (Params, bool) {
	switch m := v.(type) {
	case Params:
		return m, true
	case []Param:
		return Params(m), true
	case map[string]interface{}:
		return sortedParams(m), true
	case map[string]string:
		generic := make(map[string]interface{}, len(m))
		for k, val := range m {
			generic[k] = val
		}

		return sortedParams(generic), true
	default:
		return nil, false
	}
}

func sortedParams(m map[string]interface{}) Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := make(Params, 0, len(m))
	for _, k := range keys {
		out = append(out, Param{Key: k, Value: m[k]})
	}

	return out
}

// asSlice reports slice and array values of any element type. Byte slices and
// strings stay scalars.
func asSlice(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, false
	}

	if _, isBytes := v.([]byte); isBytes {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	if rv.Len() == 0 {
		// Empty sequences encode to nothing, but the caller still needs to
		// know this was a sequence so it is not emitted as a scalar.
		return nil, true
	}

	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}
