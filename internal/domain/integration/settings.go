package integration

import (
	"fmt"
	"strconv"
)

// Settings is a JSON object of provider or integration settings. Its wire shape
// is a plain object; required keys are checked against the provider schema.
type Settings map[string]any

// Clone returns a deep copy of s. Nested objects are copied, other values are shared.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Settings(t).Clone())
	case Settings:
		return t.Clone()
	case []any:
		cp := make([]any, len(t))
		for i := range t {
			cp[i] = cloneValue(t[i])
		}
		return cp
	default:
		return v
	}
}

// Merge deep-merges patch into a copy of s and returns it. Nested objects are
// merged key by key; any other value in patch replaces the stored one. Keys of s
// absent from patch are preserved.
func (s Settings) Merge(patch Settings) Settings {
	out := s.Clone()
	if out == nil {
		out = Settings{}
	}
	for k, pv := range patch {
		pm, pIsMap := asMap(pv)
		em, eIsMap := asMap(out[k])
		if pIsMap && eIsMap {
			out[k] = map[string]any(Settings(em).Merge(pm))
			continue
		}
		out[k] = cloneValue(pv)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Settings:
		return map[string]any(t), true
	default:
		return nil, false
	}
}

// Has reports whether key holds a usable value: present, not null, and not an empty string.
func (s Settings) Has(key string) bool {
	v, ok := s[key]
	if !ok || v == nil {
		return false
	}
	if str, ok := v.(string); ok {
		return str != ""
	}
	return true
}

// String returns the value at key rendered as a string, or "" when absent.
func (s Settings) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Bool returns the boolean at key, accepting "true"/"false" strings.
func (s Settings) Bool(key string) bool {
	switch t := s[key].(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}
