package mapper

import (
	"time"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/dto"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID.String(),
		Title:     task.Title,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		CreatedAt: task.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339Nano),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(time.RFC3339Nano)
		item.DueDate = &value
	}

	return item
}
