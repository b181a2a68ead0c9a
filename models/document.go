package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document is an untyped JSON object stored in a JSONB column.
type Document map[string]interface{}

// Value implements the driver.Valuer interface
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = Document{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Document: unsupported type %T", value)
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*d = doc
	return nil
}

// GormDataType tells gorm to create the column as jsonb.
func (Document) GormDataType() string {
	return "jsonb"
}

// Merge copies every key of patch into d.
func (d Document) Merge(patch map[string]interface{}) Document {
	out := make(Document, len(d)+len(patch))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
