package models

import (
	"database/sql/driver"
)

// Flag is a boolean column stored as INTEGER 0/1. Legacy rows written by
// older builds hold the flag as a bare integer or as the strings "0"/"1",
// so reads coerce every representation through one rule: boolean true, the
// number 1 and the string "1" are true, anything else is false.
type Flag bool

// CoerceBool applies the flag coercion rule to an arbitrary stored value.
func CoerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x == 1
	case int32:
		return x == 1
	case int64:
		return x == 1
	case float64:
		return x == 1
	case string:
		return x == "1"
	case []byte:
		return string(x) == "1"
	default:
		return false
	}
}

// Scan implements sql.Scanner.
func (f *Flag) Scan(v any) error {
	*f = Flag(CoerceBool(v))
	return nil
}

// Value implements driver.Valuer, writing 0 or 1.
func (f Flag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

// Bool unwraps the flag.
func (f Flag) Bool() bool {
	return bool(f)
}
