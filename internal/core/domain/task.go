package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every valid status in board column order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted}

func ParseTaskStatus(value string) (TaskStatus, error) {
	switch TaskStatus(value) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(value), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTaskInput, value)
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityUrgent TaskPriority = "Urgent"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}

func ParseTaskPriority(value string) (TaskPriority, error) {
	switch TaskPriority(value) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return TaskPriority(value), nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidTaskInput, value)
}

type Task struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial update. Nil pointer fields are left
// untouched; DescriptionSet/DueDateSet distinguish "clear the field" from
// "field absent".
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *TaskStatus
	Priority       *TaskPriority
	DueDate        *time.Time
	DueDateSet     bool
}

// IsZero reports whether the update carries no field at all.
func (in UpdateTaskInput) IsZero() bool {
	return in.Title == nil && !in.DescriptionSet && in.Status == nil &&
		in.Priority == nil && !in.DueDateSet
}

// TaskFilter narrows a task listing. Absent fields constrain nothing;
// present fields combine with AND. Due bounds are strict and only match
// tasks that actually carry a due date.
type TaskFilter struct {
	Status    *TaskStatus
	Priority  *TaskPriority
	DueBefore *time.Time
	DueAfter  *time.Time
}

// IsEmpty reports whether the filter selects every task.
func (f TaskFilter) IsEmpty() bool {
	return f.Status == nil && f.Priority == nil && f.DueBefore == nil && f.DueAfter == nil
}
