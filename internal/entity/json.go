package entity

import (
	"database/sql/driver"
	"fmt"
)

// RawJSON is a custom GORM type for pre-serialized JSON stored as text.
type RawJSON []byte

// Scan implements the sql.Scanner interface for RawJSON.
func (j *RawJSON) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		*j = RawJSON(v)
	case []byte:
		*j = append((*j)[:0], v...)
	default:
		return fmt.Errorf("unsupported type for RawJSON: %T", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for RawJSON.
func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// MarshalJSON returns j as the JSON encoding of itself.
func (j RawJSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores data unchanged.
func (j *RawJSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}
