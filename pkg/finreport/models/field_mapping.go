// Package models defines data structures for worksheet extraction.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// FieldMapping pairs an output attribute with the worksheet row holding its values.
type FieldMapping struct {
	// FieldName is the attribute name. It is matched case-insensitively and
	// stored lower-cased in records.
	FieldName string `json:"fieldName"`
	// RowNumber is the 1-based worksheet row.
	RowNumber int `json:"rowNumber"`
}

// Key returns the record key the mapping writes to.
func (m FieldMapping) Key() string {
	return strings.ToLower(m.FieldName)
}

// Request is the body accepted by the extraction and download endpoints.
type Request struct {
	WorksheetName string         `json:"worksheetName"`
	FieldMappings []FieldMapping `json:"fieldMappings"`
}

// Validate reports the first problem that makes the request unusable.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New("request body is required")
	}
	if strings.TrimSpace(r.WorksheetName) == "" {
		return errors.New("worksheetName is required")
	}
	if r.FieldMappings == nil {
		return errors.New("fieldMappings is required")
	}
	for i, m := range r.FieldMappings {
		if strings.TrimSpace(m.FieldName) == "" {
			return fmt.Errorf("fieldMappings[%d]: fieldName is required", i)
		}
		if m.RowNumber <= 0 {
			return fmt.Errorf("fieldMappings[%d]: rowNumber must be positive, got %d", i, m.RowNumber)
		}
	}
	return nil
}
