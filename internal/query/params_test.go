package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := ParseParams(`{"id": 12345678901234567890, "name": "x", "flag": false, "missing": null}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":      json.Number("12345678901234567890"),
		"name":    "x",
		"flag":    false,
		"missing": nil,
	}, params)
}

func TestParseParamsEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "null", "{}"} {
		params, err := ParseParams(text)
		require.NoError(t, err, text)
		assert.NotNil(t, params)
		assert.Empty(t, params)
	}
}

func TestParseParamsErrors(t *testing.T) {
	for _, text := range []string{
		`{"id": }`,
		`[1, 2]`,
		`"text"`,
		`{"a": 1} {"b": 2}`,
		`{"a": [1]}`,
		`{"a": {"b": 1}}`,
	} {
		_, err := ParseParams(text)
		assert.ErrorIs(t, err, ErrParameterParse, text)
	}
}

func TestParseRawParams(t *testing.T) {
	params, err := ParseRawParams(json.RawMessage(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, params)

	params, err = ParseRawParams(json.RawMessage(`"{\"a\": \"b\"}"`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "b"}, params)

	params, err = ParseRawParams(nil)
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = ParseRawParams(json.RawMessage(`"not json"`))
	assert.ErrorIs(t, err, ErrParameterParse)

	_, err = ParseRawParams(json.RawMessage(`42`))
	assert.ErrorIs(t, err, ErrParameterParse)
}
