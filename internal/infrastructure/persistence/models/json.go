package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores a JSON object column
type JSONMap map[string]any

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	out := JSONMap{}
	if err := scanJSON(value, &out); err != nil {
		return fmt.Errorf("scan JSONMap: %w", err)
	}
	*m = out
	return nil
}

// JSONFlags stores a JSON object of booleans
type JSONFlags map[string]bool

// Value implements driver.Valuer
func (f JSONFlags) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (f *JSONFlags) Scan(value any) error {
	out := JSONFlags{}
	if err := scanJSON(value, &out); err != nil {
		return fmt.Errorf("scan JSONFlags: %w", err)
	}
	*f = out
	return nil
}

// JSONStrings stores a JSON array of strings
type JSONStrings []string

// Value implements driver.Valuer
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *JSONStrings) Scan(value any) error {
	out := JSONStrings{}
	if err := scanJSON(value, &out); err != nil {
		return fmt.Errorf("scan JSONStrings: %w", err)
	}
	*s = out
	return nil
}

func scanJSON(value any, dst any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
