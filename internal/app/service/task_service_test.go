package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

type taskRepositoryMock struct {
	mock.Mock
}

func (m *taskRepositoryMock) Create(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) GetAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) Update(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTaskService_CreateTask_DefaultsStatusAndPriority(t *testing.T) {
	repoMock := new(taskRepositoryMock)
	repoMock.On("Create", mock.Anything, mock.MatchedBy(func(input domain.CreateTaskInput) bool {
		return input.Title == "Write spec" &&
			input.Status == domain.TaskStatusTodo &&
			input.Priority == domain.TaskPriorityMedium
	})).Return(domain.Task{Title: "Write spec"}, nil).Once()

	service := NewTaskService(repoMock)
	_, err := service.CreateTask(context.Background(), domain.CreateTaskInput{Title: "  Write spec  "})

	require.NoError(t, err)
	repoMock.AssertExpectations(t)
}

func TestTaskService_CreateTask_RejectsEmptyTitle(t *testing.T) {
	repoMock := new(taskRepositoryMock)
	service := NewTaskService(repoMock)

	_, err := service.CreateTask(context.Background(), domain.CreateTaskInput{Title: "   "})

	require.ErrorIs(t, err, domain.ErrInvalidTaskInput)
	repoMock.AssertNotCalled(t, "Create")
}

func TestTaskService_CreateTask_RejectsUnknownStatus(t *testing.T) {
	repoMock := new(taskRepositoryMock)
	service := NewTaskService(repoMock)

	_, err := service.CreateTask(context.Background(), domain.CreateTaskInput{
		Title:  "Valid",
		Status: domain.TaskStatus("Backlog"),
	})

	require.ErrorIs(t, err, domain.ErrInvalidTaskInput)
	repoMock.AssertNotCalled(t, "Create")
}

func TestTaskService_UpdateTask_RejectsEmptyUpdate(t *testing.T) {
	repoMock := new(taskRepositoryMock)
	service := NewTaskService(repoMock)

	_, err := service.UpdateTask(context.Background(), uuid.New(), domain.UpdateTaskInput{})

	require.ErrorIs(t, err, domain.ErrInvalidTaskInput)
	repoMock.AssertNotCalled(t, "Update")
}

func TestTaskService_UpdateTask_TrimsTitle(t *testing.T) {
	taskID := uuid.New()

	repoMock := new(taskRepositoryMock)
	repoMock.On("Update", mock.Anything, taskID, mock.MatchedBy(func(input domain.UpdateTaskInput) bool {
		return input.Title != nil && *input.Title == "Tidy"
	})).Return(domain.Task{ID: taskID, Title: "Tidy"}, nil).Once()

	service := NewTaskService(repoMock)
	title := "  Tidy  "
	_, err := service.UpdateTask(context.Background(), taskID, domain.UpdateTaskInput{Title: &title})

	require.NoError(t, err)
	repoMock.AssertExpectations(t)
}

func TestTaskService_UpdateTask_PassesThroughNotFound(t *testing.T) {
	taskID := uuid.New()
	status := domain.TaskStatusCompleted

	repoMock := new(taskRepositoryMock)
	repoMock.On("Update", mock.Anything, taskID, mock.Anything).
		Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	service := NewTaskService(repoMock)
	_, err := service.UpdateTask(context.Background(), taskID, domain.UpdateTaskInput{Status: &status})

	require.ErrorIs(t, err, domain.ErrTaskNotFound)
	repoMock.AssertExpectations(t)
}

func TestTaskService_ListTasks_Delegates(t *testing.T) {
	status := domain.TaskStatusTodo
	filter := domain.TaskFilter{Status: &status}

	repoMock := new(taskRepositoryMock)
	repoMock.On("GetAll", mock.Anything, filter).Return([]domain.Task{}, nil).Once()

	service := NewTaskService(repoMock)
	tasks, err := service.ListTasks(context.Background(), filter)

	require.NoError(t, err)
	require.Empty(t, tasks)
	repoMock.AssertExpectations(t)
}

func TestTaskService_DeleteTask_PassesThroughStorageErrors(t *testing.T) {
	taskID := uuid.New()

	repoMock := new(taskRepositoryMock)
	repoMock.On("Delete", mock.Anything, taskID).Return(domain.ErrStorageUnavailable).Once()

	service := NewTaskService(repoMock)
	err := service.DeleteTask(context.Background(), taskID)

	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	repoMock.AssertExpectations(t)
}
