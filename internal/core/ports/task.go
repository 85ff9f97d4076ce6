package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	GetAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskService interface {
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (domain.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}
