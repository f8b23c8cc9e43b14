package models

import (
	"database/sql/driver"
	"encoding/json"
)

// Options is a custom type for PostgreSQL JSONB columns holding the
// free-form generation options attached to a session
type Options map[string]interface{}

// Value implements driver.Valuer interface
func (o Options) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner interface
func (o *Options) Scan(value interface{}) error {
	if value == nil {
		*o = make(Options)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*o = make(Options)
		return nil
	}

	if len(bytes) == 0 {
		*o = make(Options)
		return nil
	}

	result := make(Options)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*o = result
	return nil
}
