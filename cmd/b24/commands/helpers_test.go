package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	t.Parallel()

	t.Run("flat pairs", func(t *testing.T) {
		t.Parallel()

		params, err := parseParams([]string{"ID=42", "NAME=Jane"})
		require.NoError(t, err)
		assert.Equal(t, "ID=42&NAME=Jane&", params.Encode())
	})

	t.Run("dots nest", func(t *testing.T) {
		t.Parallel()

		params, err := parseParams([]string{"filter.>ID=100", "order.ID=asc"})
		require.NoError(t, err)
		assert.Equal(t, "filter[>ID]=100&order[ID]=asc&", params.Encode())
	})

	t.Run("same parent merges", func(t *testing.T) {
		t.Parallel()

		params, err := parseParams([]string{"filter.>ID=100", "filter.ACTIVE=Y"})
		require.NoError(t, err)
		assert.Equal(t, "filter[>ID]=100&filter[ACTIVE]=Y&", params.Encode())
	})

	t.Run("commas split into lists", func(t *testing.T) {
		t.Parallel()

		params, err := parseParams([]string{"select=ID,NAME"})
		require.NoError(t, err)
		assert.Equal(t, "select[0]=ID&select[1]=NAME&", params.Encode())
	})

	t.Run("missing equals fails", func(t *testing.T) {
		t.Parallel()

		_, err := parseParams([]string{"just-a-word"})
		require.ErrorIs(t, err, ErrInvalidParamFormat)
	})

	t.Run("empty key fails", func(t *testing.T) {
		t.Parallel()

		_, err := parseParams([]string{"=value"})
		require.ErrorIs(t, err, ErrInvalidParamFormat)
	})

	t.Run("no arguments yields empty params", func(t *testing.T) {
		t.Parallel()

		params, err := parseParams(nil)
		require.NoError(t, err)
		assert.Empty(t, params.Encode())
	})
}

func TestMaskEndpoint(t *testing.T) {
	t.Parallel()

	masked := maskEndpoint("https://acc.bitrix24.com/rest/1/abc123xyz")
	assert.Equal(t, "https://acc.bitrix24.com/rest/1/***", masked)
}

func TestRowsOf(t *testing.T) {
	t.Parallel()

	rows := rowsOf([]interface{}{
		map[string]interface{}{"ID": "1"},
		"stray scalar",
		map[string]interface{}{"ID": "2"},
	})
	assert.Len(t, rows, 2)
}

func TestFormatCell(t *testing.T) {
	t.Parallel()

	assert.Empty(t, formatCell(nil))
	assert.Equal(t, "plain", formatCell("plain"))
	assert.Equal(t, "42", formatCell(42))
	assert.JSONEq(t, `{"a":1}`, formatCell(map[string]interface{}{"a": 1}))
	assert.JSONEq(t, `["a","b"]`, formatCell([]interface{}{"a", "b"}))
}
