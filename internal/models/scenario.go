package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WhatIfEditType enumerates the hypothetical-grade edit operations.
type WhatIfEditType string

const (
	// EditUpdatePoints changes one side of an assignment score.
	EditUpdatePoints WhatIfEditType = "UPDATE_POINTS"
	// EditAddAssignment inserts a hypothetical assignment.
	EditAddAssignment WhatIfEditType = "ADD_ASSIGNMENT"
	// EditDeleteAssignment removes an assignment by name.
	EditDeleteAssignment WhatIfEditType = "DELETE_ASSIGNMENT"
	// EditToggleCategory flips a category's visibility.
	EditToggleCategory WhatIfEditType = "TOGGLE_CATEGORY"
)

// WhatIfEdit is one recorded hypothetical edit. Numeric fields are
// pointers; nil means the user left the field blank (engine NaN).
type WhatIfEdit struct {
	Type       WhatIfEditType `json:"type" validate:"required,oneof=UPDATE_POINTS ADD_ASSIGNMENT DELETE_ASSIGNMENT TOGGLE_CATEGORY"`
	Course     string         `json:"course" validate:"required"`
	Assignment string         `json:"assignment,omitempty"`
	Category   string         `json:"category,omitempty"`
	Field      string         `json:"field,omitempty" validate:"omitempty,oneof=earned total"`
	Value      *float64       `json:"value,omitempty"`
	Points     *float64       `json:"points,omitempty"`
	Total      *float64       `json:"total,omitempty"`
}

// WhatIfEdits stores an ordered edit list as a JSONB column.
type WhatIfEdits []WhatIfEdit

// Value implements driver.Valuer for JSONB persistence.
func (e WhatIfEdits) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal edits: %w", err)
	}
	return string(payload), nil
}

// Scan implements sql.Scanner for JSONB persistence.
func (e *WhatIfEdits) Scan(src interface{}) error {
	if src == nil {
		*e = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported edits column type %T", src)
	}
	return json.Unmarshal(raw, e)
}

// Scenario is a named, persisted what-if edit list for one student and
// reporting period. Edits replay over freshly fetched gradebook data.
type Scenario struct {
	ID              string      `db:"id" json:"id"`
	StudentID       string      `db:"student_id" json:"student_id"`
	Name            string      `db:"name" json:"name"`
	ReportingPeriod int         `db:"reporting_period" json:"reporting_period"`
	Edits           WhatIfEdits `db:"edits" json:"edits"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}
