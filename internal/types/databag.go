package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DataBag is a free-form mapping of field name to value.
// Values are always strings at the engine boundary; JSON scalars are coerced
// on decode and null becomes the empty string.
type DataBag map[string]string

// Get looks a key up case-insensitively. When several keys match, the one
// chosen by PreferKey wins.
func (b DataBag) Get(key string) (string, bool) {
	key = strings.TrimSpace(key)
	found, ok := "", false
	for k := range b {
		if strings.EqualFold(strings.TrimSpace(k), key) && (!ok || PreferKey(k, found)) {
			found, ok = k, true
		}
	}
	if !ok {
		return "", false
	}
	return b[found], true
}

// PreferKey reports whether key a wins over key b when both name the same
// field in different case. The upper-case spelling wins, then the
// lexicographically smaller key.
func PreferKey(a, b string) bool {
	aUpper, bUpper := a == strings.ToUpper(a), b == strings.ToUpper(b)
	if aUpper != bUpper {
		return aUpper
	}
	return a < b
}

// UnmarshalJSON decodes an object whose values may be any JSON type.
func (b *DataBag) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("data bag must be a JSON object: %w", err)
	}

	out := make(DataBag, len(raw))
	for k, v := range raw {
		out[k] = coerceJSON(v)
	}
	*b = out
	return nil
}

// UnmarshalYAML decodes a mapping whose values may be any YAML scalar.
func (b *DataBag) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	out := make(DataBag, len(raw))
	for k, v := range raw {
		out[k] = CoerceString(v)
	}
	*b = out
	return nil
}

// coerceJSON converts a raw JSON value to its string form.
func coerceJSON(v json.RawMessage) string {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	// numbers, booleans and nested values keep their literal JSON text
	return string(trimmed)
}

// CoerceString converts an arbitrary value to a string; nil becomes "".
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		if data, err := json.Marshal(val); err == nil {
			return string(data)
		}
		return fmt.Sprint(val)
	}
}
