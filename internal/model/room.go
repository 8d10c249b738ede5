package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RoomRecord is a single room of the campus dataset. Records are loaded once and never
// mutated afterwards.
type RoomRecord struct {
	Building string    `json:"building" db:"building"`
	Number   string    `json:"number" db:"number"`
	Names    JSONArray `json:"names_en" db:"names_en"` // first entry is the canonical name
	Floor    string    `json:"floor" db:"floor"`
	Wing     string    `json:"wing_en" db:"wing_en"`
	Street   string    `json:"street_en" db:"street_en"`
	Code     int       `json:"code" db:"code"`
}

// RoomKey builds the directory key for a building/number pair.
func RoomKey(building, number string) string {
	return fmt.Sprintf("%s_%s", building, number)
}

// Key returns the unique directory key of the record.
func (r RoomRecord) Key() string {
	return RoomKey(r.Building, r.Number)
}

// DisplayName returns the canonical name, or "Room <number>" when the record has none.
func (r RoomRecord) DisplayName() string {
	if len(r.Names) > 0 && r.Names[0] != "" {
		return r.Names[0]
	}
	return "Room " + r.Number
}

// JSONArray represents a JSON array column (names_en is stored as jsonb)
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	// lib/pq sends []byte as bytea, which a jsonb column rejects
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported type for JSONArray: %T", value)
	}
}
