package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BoardType distinguishes general-purpose boards from event-linked ones.
type BoardType string

const (
	BoardGeneral BoardType = "general"
	BoardEvent   BoardType = "event"
)

// Board is a named collection of tasks with an explicit member list.
type Board struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Type       BoardType   `json:"board_type"`
	EventID    *uuid.UUID  `json:"event_id,omitempty"`
	MemberUIDs []uuid.UUID `json:"member_uids"`
	CreatedBy  uuid.UUID   `json:"created_by"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// HasMember reports whether the user is a member of the board.
func (b *Board) HasMember(userID uuid.UUID) bool {
	for _, id := range b.MemberUIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskStatus is one of the four fixed kanban columns.
type TaskStatus string

const (
	TaskNotStarted    TaskStatus = "Not Started"
	TaskInProgress    TaskStatus = "In Progress"
	TaskPendingReview TaskStatus = "Pending Review"
	TaskCompleted     TaskStatus = "Completed"
)

// ValidTaskStatus reports whether s names a known task status.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskNotStarted, TaskInProgress, TaskPendingReview, TaskCompleted:
		return true
	}
	return false
}

// TaskPriority is the priority of a task.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// ValidTaskPriority reports whether s names a known priority.
func ValidTaskPriority(s string) bool {
	switch TaskPriority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Subtask is one entry in a task's ordered subtask list. Completion is toggled
// per subtask and does not roll up into the parent task's status.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task belongs to exactly one board. AssignedTo is a list: multiple assignees
// are structurally possible even where clients expose a single slot.
type Task struct {
	ID          uuid.UUID       `json:"id"`
	BoardID     uuid.UUID       `json:"board_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      TaskStatus      `json:"status"`
	Priority    TaskPriority    `json:"priority"`
	AssignedTo  []uuid.UUID     `json:"assigned_to"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Subtasks    []Subtask       `json:"subtasks"`
	CustomData  json.RawMessage `json:"custom_data,omitempty"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
