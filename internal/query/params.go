package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseParams decodes parameter text into a name → scalar mapping. Blank
// text and "null" yield an empty map. Numbers are kept as json.Number so
// large integers survive.
func ParseParams(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var params map[string]any
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParameterParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after parameter object", ErrParameterParse)
	}
	if params == nil {
		return map[string]any{}, nil
	}

	for name, v := range params {
		switch v.(type) {
		case nil, string, bool, json.Number:
		default:
			return nil, fmt.Errorf("%w: parameter %q must be a string, number, boolean or null", ErrParameterParse, name)
		}
	}
	return params, nil
}

// ParseRawParams accepts params as a JSON object or as a JSON string
// holding one.
func ParseRawParams(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParameterParse, err)
		}
		return ParseParams(text)
	}
	return ParseParams(string(trimmed))
}
