package models

import (
	"time"

	"github.com/google/uuid"
)

// ColumnType is the data type of a custom column.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnCheckbox ColumnType = "checkbox"
	ColumnDropdown ColumnType = "dropdown"
	ColumnFile     ColumnType = "file"
)

// ValidColumnType reports whether s names a known column data type.
func ValidColumnType(s string) bool {
	switch ColumnType(s) {
	case ColumnText, ColumnNumber, ColumnCheckbox, ColumnDropdown, ColumnFile:
		return true
	}
	return false
}

// ColumnScope controls visibility of a custom column definition.
type ColumnScope string

const (
	// ScopeMeOnly makes the column visible only to its creator.
	ScopeMeOnly ColumnScope = "meOnly"
	// ScopeAllAdmins shares the column with all admins and overall heads.
	ScopeAllAdmins ColumnScope = "allAdmins"
)

// ColumnTarget is the table a custom column attaches to.
type ColumnTarget string

const (
	TargetParticipants ColumnTarget = "participants"
	TargetStudents     ColumnTarget = "students"
	TargetTasks        ColumnTarget = "tasks"
)

// ValidColumnTarget reports whether s names a known column target.
func ValidColumnTarget(s string) bool {
	switch ColumnTarget(s) {
	case TargetParticipants, TargetStudents, TargetTasks:
		return true
	}
	return false
}

// CustomColumn is a staff-defined typed column attachable to participant,
// student or task rows. Definitions are append-only: there is no update or
// delete path once created.
type CustomColumn struct {
	ID               uuid.UUID    `json:"id"`
	OwnerID          uuid.UUID    `json:"owner_id"`
	Target           ColumnTarget `json:"target"`
	Name             string       `json:"name"`
	DataType         ColumnType   `json:"data_type"`
	Options          []string     `json:"options,omitempty"`
	DefaultValue     string       `json:"default_value"`
	Scope            ColumnScope  `json:"scope"`
	EditableByOthers bool         `json:"editable_by_others"`
	CreatedAt        time.Time    `json:"created_at"`
}
