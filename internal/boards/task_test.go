package boards

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/campus-events/backend/internal/models"
)

func TestValidateMove(t *testing.T) {
	task := &models.Task{ID: uuid.New(), Status: models.TaskNotStarted}

	tests := []struct {
		name        string
		to          string
		wantChanged bool
		wantErr     error
	}{
		{"move to next column", "In Progress", true, nil},
		{"move to same column is a no-op", "Not Started", false, nil},
		{"unknown column rejected", "Done", false, ErrUnknownStatus},
		{"empty status rejected", "", false, ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := ValidateMove(task, tt.to)
			assert.Equal(t, tt.wantChanged, changed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGroupByStatus(t *testing.T) {
	tasks := []models.Task{
		{Title: "a", Status: models.TaskNotStarted},
		{Title: "b", Status: models.TaskInProgress},
		{Title: "c", Status: models.TaskNotStarted},
		{Title: "d", Status: models.TaskCompleted},
	}
	grouped := GroupByStatus(tasks)

	assert.Len(t, grouped[models.TaskNotStarted], 2)
	assert.Len(t, grouped[models.TaskInProgress], 1)
	assert.Len(t, grouped[models.TaskPendingReview], 0)
	assert.Len(t, grouped[models.TaskCompleted], 1)
	// order within a column follows input order
	assert.Equal(t, "a", grouped[models.TaskNotStarted][0].Title)
	assert.Equal(t, "c", grouped[models.TaskNotStarted][1].Title)
}

func TestToggleSubtask(t *testing.T) {
	task := &models.Task{
		Subtasks: []models.Subtask{
			{ID: "s1", Text: "book venue", Completed: false},
			{ID: "s2", Text: "print badges", Completed: true},
		},
		Status: models.TaskInProgress,
	}

	assert.True(t, ToggleSubtask(task, "s1"))
	assert.True(t, task.Subtasks[0].Completed)

	assert.True(t, ToggleSubtask(task, "s2"))
	assert.False(t, task.Subtasks[1].Completed)

	assert.False(t, ToggleSubtask(task, "missing"))

	// parent status never rolls up from subtask completion
	assert.Equal(t, models.TaskInProgress, task.Status)
}
