package board

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

func TestProject_FixedColumnOrderIncludingEmpty(t *testing.T) {
	columns := Project(nil, nil)

	require.Len(t, columns, 3)
	require.Equal(t, domain.TaskStatusTodo, columns[0].Status)
	require.Equal(t, domain.TaskStatusInProgress, columns[1].Status)
	require.Equal(t, domain.TaskStatusCompleted, columns[2].Status)
	for _, column := range columns {
		require.Empty(t, column.Tasks)
	}
}

func TestProject_BucketsByStatusPreservingOrder(t *testing.T) {
	first := boardTask("first", domain.TaskStatusTodo)
	second := boardTask("second", domain.TaskStatusCompleted)
	third := boardTask("third", domain.TaskStatusTodo)

	columns := Project([]domain.Task{first, second, third}, nil)

	require.Len(t, columns[0].Tasks, 2)
	require.Equal(t, "first", columns[0].Tasks[0].Title)
	require.Equal(t, "third", columns[0].Tasks[1].Title)
	require.Empty(t, columns[1].Tasks)
	require.Len(t, columns[2].Tasks, 1)
	require.Equal(t, "second", columns[2].Tasks[0].Title)
}

func TestProject_PriorityFilterNarrowsEveryColumn(t *testing.T) {
	urgent := boardTask("urgent", domain.TaskStatusTodo)
	urgent.Priority = domain.TaskPriorityUrgent
	medium := boardTask("medium", domain.TaskStatusTodo)

	filter := domain.TaskPriorityUrgent
	columns := Project([]domain.Task{urgent, medium}, &filter)

	require.Len(t, columns[0].Tasks, 1)
	require.Equal(t, "urgent", columns[0].Tasks[0].Title)
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	tasks := []domain.Task{
		boardTask("a", domain.TaskStatusTodo),
		boardTask("b", domain.TaskStatusInProgress),
	}

	before := make([]domain.Task, len(tasks))
	copy(before, tasks)

	Project(tasks, nil)

	require.Equal(t, before, tasks)
}
