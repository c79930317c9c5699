package models

import (
	"encoding/json"
	"slices"
)

// Schema is the ordered column list shared by every row of a ResultSet.
type Schema []string

// SchemaOf derives the schema from the key order of the first record.
func SchemaOf(records []Record) Schema {
	if len(records) == 0 {
		return nil
	}
	return Schema(records[0].Keys())
}

// ResultSet is the extraction output: records sorted by company name plus
// the column schema used when serializing them.
type ResultSet struct {
	Schema  Schema
	Records []Record
}

// NewResultSet wraps records and derives their schema.
func NewResultSet(records []Record) *ResultSet {
	return &ResultSet{
		Schema:  SchemaOf(records),
		Records: records,
	}
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Columns returns the schema, deriving it from the records if unset.
func (rs *ResultSet) Columns() Schema {
	if rs == nil {
		return nil
	}
	if len(rs.Schema) > 0 {
		return slices.Clone(rs.Schema)
	}
	return SchemaOf(rs.Records)
}

// MarshalJSON encodes the records as a JSON array.
func (rs ResultSet) MarshalJSON() ([]byte, error) {
	if rs.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(rs.Records)
}

// UnmarshalJSON decodes a JSON array of records and rebuilds the schema.
func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	*rs = *NewResultSet(records)
	return nil
}
