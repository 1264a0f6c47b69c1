package models

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is an ordered list of strings stored as jsonb.
// Used for meal menu items, where order matters.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}
