package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/ports"
)

const maxTitleLength = 255

type TaskService struct {
	taskRepository ports.TaskRepository
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(taskRepository ports.TaskRepository) *TaskService {
	return &TaskService{taskRepository: taskRepository}
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return domain.Task{}, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidTaskInput)
	}
	if len(input.Title) > maxTitleLength {
		return domain.Task{}, fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidTaskInput, maxTitleLength)
	}

	if input.Status == "" {
		input.Status = domain.TaskStatusTodo
	} else if _, err := domain.ParseTaskStatus(string(input.Status)); err != nil {
		return domain.Task{}, err
	}

	if input.Priority == "" {
		input.Priority = domain.TaskPriorityMedium
	} else if _, err := domain.ParseTaskPriority(string(input.Priority)); err != nil {
		return domain.Task{}, err
	}

	return s.taskRepository.Create(ctx, input)
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.taskRepository.GetAll(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	return s.taskRepository.GetByID(ctx, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (domain.Task, error) {
	if input.IsZero() {
		return domain.Task{}, fmt.Errorf("%w: update carries no fields", domain.ErrInvalidTaskInput)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return domain.Task{}, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidTaskInput)
		}
		if len(title) > maxTitleLength {
			return domain.Task{}, fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidTaskInput, maxTitleLength)
		}
		input.Title = &title
	}

	if input.Status != nil {
		if _, err := domain.ParseTaskStatus(string(*input.Status)); err != nil {
			return domain.Task{}, err
		}
	}

	if input.Priority != nil {
		if _, err := domain.ParseTaskPriority(string(*input.Priority)); err != nil {
			return domain.Task{}, err
		}
	}

	return s.taskRepository.Update(ctx, id, input)
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.taskRepository.Delete(ctx, id)
}
