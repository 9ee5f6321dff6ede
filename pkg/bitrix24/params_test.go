package bitrix24_test

import (
	"testing"

	"github.com/b24io/bitrix24-client/pkg/bitrix24"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestParams_Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   bitrix24.Params
		expected string
	}{
		{
			name:     "empty params",
			params:   bitrix24.Params{},
			expected: "",
		},
		{
			name: "scalars keep insertion order",
			params: bitrix24.Params{
				bitrix24.P("ID", 42),
				bitrix24.P("NAME", "Jane"),
			},
			expected: "ID=42&NAME=Jane&",
		},
		{
			name: "nested params bracket the key",
			params: bitrix24.Params{
				bitrix24.P("filter", bitrix24.Params{bitrix24.P(">ID", 1)}),
			},
			expected: "filter[>ID]=1&",
		},
		{
			name: "deep nesting accumulates the prefix",
			params: bitrix24.Params{
				bitrix24.P("filter", bitrix24.Params{
					bitrix24.P("LOGIC", "OR"),
					bitrix24.P("sub", bitrix24.Params{bitrix24.P("A", "b")}),
				}),
			},
			expected: "filter[LOGIC]=OR&filter[sub][A]=b&",
		},
		{
			name: "plain maps are sorted by key",
			params: bitrix24.Params{
				bitrix24.P("order", map[string]interface{}{"ID": "asc", "DATE": "desc"}),
			},
			expected: "order[DATE]=desc&order[ID]=asc&",
		},
		{
			name: "string maps are sorted by key",
			params: bitrix24.Params{
				bitrix24.P("order", map[string]string{"ID": "asc", "DATE": "desc"}),
			},
			expected: "order[DATE]=desc&order[ID]=asc&",
		},
		{
			name: "top-level scalar list is indexed",
			params: bitrix24.Params{
				bitrix24.P("select", []string{"ID", "TITLE"}),
			},
			expected: "select[0]=ID&select[1]=TITLE&",
		},
		{
			name: "nested scalar list keeps the parent prefix",
			params: bitrix24.Params{
				bitrix24.P("fields", bitrix24.Params{bitrix24.P("TAGS", []int{1, 2})}),
			},
			expected: "fields[TAGS][0]=1&fields[TAGS][1]=2&",
		},
		{
			name: "nested list of maps",
			params: bitrix24.Params{
				bitrix24.P("fields", bitrix24.Params{
					bitrix24.P("PHONE", []map[string]interface{}{
						{"VALUE": "+15550100", "VALUE_TYPE": "WORK"},
					}),
				}),
			},
			expected: "fields[PHONE][0][VALUE]=+15550100&fields[PHONE][0][VALUE_TYPE]=WORK&",
		},
		{
			// At the top level the list-of-maps prefix starts with an empty
			// parent, producing a leading bracket. Preserved verbatim.
			name: "top-level list of maps keeps the empty-parent prefix",
			params: bitrix24.Params{
				bitrix24.P("contacts", []map[string]interface{}{{"VALUE": "x"}}),
			},
			expected: "[contacts][0][VALUE]=x&",
		},
		{
			name: "empty list is dropped silently",
			params: bitrix24.Params{
				bitrix24.P("select", []string{}),
				bitrix24.P("start", 0),
			},
			expected: "start=0&",
		},
		{
			name: "values are not URL-escaped",
			params: bitrix24.Params{
				bitrix24.P("q", "a b&c=d"),
			},
			expected: "q=a b&c=d&",
		},
		{
			name: "mixed shapes interleave in order",
			params: bitrix24.Params{
				bitrix24.P("order", bitrix24.Params{bitrix24.P("ID", "asc")}),
				bitrix24.P("filter", bitrix24.Params{bitrix24.P(">ID", 0)}),
				bitrix24.P("select", []string{"ID"}),
				bitrix24.P("start", -1),
			},
			expected: "order[ID]=asc&filter[>ID]=0&select[0]=ID&start=-1&",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.params.Encode())
		})
	}
}

func TestParams_Set(t *testing.T) {
	t.Parallel()

	t.Run("appends a new key", func(t *testing.T) {
		t.Parallel()

		params := bitrix24.Params{bitrix24.P("a", 1)}
		updated := params.Set("b", 2)

		assert.Len(t, updated, 2)

		value, ok := updated.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, value)
	})

	t.Run("replaces an existing key in place", func(t *testing.T) {
		t.Parallel()

		params := bitrix24.Params{bitrix24.P("a", 1), bitrix24.P("b", 2)}
		updated := params.Set("a", 10)

		assert.Equal(t, "a=10&b=2&", updated.Encode())
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		t.Parallel()

		params := bitrix24.Params{bitrix24.P("start", 0)}
		_ = params.Set("start", 50)
		_ = params.Set("order", "asc")

		assert.Equal(t, "start=0&", params.Encode())
	})
}

func TestParams_Get(t *testing.T) {
	t.Parallel()

	params := bitrix24.Params{bitrix24.P("filter", bitrix24.Params{bitrix24.P(">ID", 5)})}

	value, ok := params.Get("filter")
	assert.True(t, ok)
	assert.Equal(t, bitrix24.Params{bitrix24.P(">ID", 5)}, value)

	_, ok = params.Get("missing")
	assert.False(t, ok)

	assert.True(t, params.Has("filter"))
	assert.False(t, params.Has("missing"))
}
