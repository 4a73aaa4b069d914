package boards

import (
	"errors"

	"github.com/campus-events/backend/internal/models"
)

var (
	ErrNotBoardMember = errors.New("not a member of this board")
	ErrUnknownStatus  = errors.New("unknown task status")
)

// GroupByStatus buckets tasks into the four kanban columns, preserving the
// input order within each column.
func GroupByStatus(tasks []models.Task) map[models.TaskStatus][]models.Task {
	grouped := map[models.TaskStatus][]models.Task{
		models.TaskNotStarted:    {},
		models.TaskInProgress:    {},
		models.TaskPendingReview: {},
		models.TaskCompleted:     {},
	}
	for _, t := range tasks {
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	return grouped
}

// ValidateMove checks a drag-and-drop move. Moving a card to the column it is
// already in is a no-op, reported with false.
func ValidateMove(task *models.Task, to string) (changed bool, err error) {
	if !models.ValidTaskStatus(to) {
		return false, ErrUnknownStatus
	}
	if task.Status == models.TaskStatus(to) {
		return false, nil
	}
	return true, nil
}

// ToggleSubtask flips the completion flag of the subtask with the given id.
// Returns false when no subtask matches. Parent task status is untouched.
func ToggleSubtask(task *models.Task, subtaskID string) bool {
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			return true
		}
	}
	return false
}
