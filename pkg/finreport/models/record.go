package models

import (
	"fmt"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CompanyNameKey is the reserved key holding the entity column's header text.
const CompanyNameKey = "companyName"

// Record is one entity column flattened into ordered key/value pairs.
// CompanyNameKey is always the first key.
type Record struct {
	fields *orderedmap.OrderedMap[string, string]
}

// NewRecord starts a record for the named company.
func NewRecord(companyName string) Record {
	r := Record{fields: orderedmap.New[string, string]()}
	r.Set(CompanyNameKey, companyName)
	return r
}

// Set stores value under key. Setting an existing key replaces the value
// but keeps the key's original position.
func (r *Record) Set(key, value string) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, string]()
	}
	r.fields.Set(key, value)
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	if r.fields == nil {
		return "", false
	}
	return r.fields.Get(key)
}

// CompanyName returns the record's entity name.
func (r Record) CompanyName() string {
	v, _ := r.Get(CompanyNameKey)
	return v
}

// Keys returns the record keys in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r.fields == nil {
		return keys
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// MarshalJSON encodes the record as an object, keeping key order.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// UnmarshalJSON decodes a flat string object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, string]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	r.fields = fields
	return nil
}

// SortByCompany orders records ascending by company name using ordinal
// string comparison.
func SortByCompany(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return strings.Compare(a.CompanyName(), b.CompanyName())
	})
}
