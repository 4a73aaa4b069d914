package columns

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/models"
)

// Operator is a filter comparison operator.
type Operator string

const (
	// OpContains matches a case-insensitive substring.
	OpContains Operator = "contains"
	// OpEquals matches exactly, case-insensitive for strings.
	OpEquals Operator = "equals"
	// OpIs is an alias of OpEquals.
	OpIs Operator = "is"
)

// ValidOperator reports whether s names a known operator.
func ValidOperator(s string) bool {
	switch Operator(s) {
	case OpContains, OpEquals, OpIs:
		return true
	}
	return false
}

// Filter is one active filter over a row set. ColumnID names either a
// built-in field or, when IsCustom is set, a custom column definition.
type Filter struct {
	ColumnID string   `json:"column_id" binding:"required"`
	Operator Operator `json:"operator" binding:"required"`
	Value    string   `json:"value"`
	IsCustom bool     `json:"is_custom"`
}

// Row is the filterable view of a record: its built-in fields flattened to
// strings plus the raw customData map.
type Row struct {
	Fields     map[string]string
	CustomData map[string]any
}

// cellString renders the cell a filter compares against.
func cellString(f Filter, row Row, defs map[string]*models.CustomColumn) string {
	if f.IsCustom {
		col, ok := defs[f.ColumnID]
		if !ok {
			return ""
		}
		return Resolve(col, row.CustomData).String()
	}
	return row.Fields[f.ColumnID]
}

// Matches reports whether row passes a single filter.
func Matches(f Filter, row Row, defs map[string]*models.CustomColumn) bool {
	cell := cellString(f, row, defs)
	switch f.Operator {
	case OpContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(f.Value))
	case OpEquals, OpIs:
		return strings.EqualFold(cell, f.Value)
	}
	return false
}

// Apply evaluates the conjunction of filters over rows. With no active
// filters every row passes. The caller keeps the original slice for the
// "N of M showing" counts.
func Apply[T any](items []T, rows []Row, filters []Filter, defs []models.CustomColumn) []T {
	if len(filters) == 0 {
		return items
	}
	byID := make(map[string]*models.CustomColumn, len(defs))
	for i := range defs {
		byID[defs[i].ID.String()] = &defs[i]
	}
	out := make([]T, 0, len(items))
	for i := range items {
		pass := true
		for _, f := range filters {
			if !Matches(f, rows[i], byID) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, items[i])
		}
	}
	return out
}

// ValidateDefinition checks a new column definition before it is written.
// Dropdown columns without options are rejected.
func ValidateDefinition(name, dataType, target string, options []string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("column name is required")
	}
	if !models.ValidColumnType(dataType) {
		return fmt.Errorf("unknown data type %q", dataType)
	}
	if !models.ValidColumnTarget(target) {
		return fmt.Errorf("unknown target %q", target)
	}
	if models.ColumnType(dataType) == models.ColumnDropdown && len(options) == 0 {
		return fmt.Errorf("dropdown column requires at least one option")
	}
	return nil
}

// VisibleTo reports whether a column definition is visible to a user:
// its creator always, everyone with a staff role when shared allAdmins.
func VisibleTo(col *models.CustomColumn, userID uuid.UUID, role string) bool {
	if col.OwnerID == userID {
		return true
	}
	return col.Scope == models.ScopeAllAdmins && models.ValidRole(role) && models.Role(role) != models.RoleStudent
}
