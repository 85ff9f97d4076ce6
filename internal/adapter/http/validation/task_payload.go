package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/dto"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	status := domain.TaskStatusTodo
	if req.Status != nil {
		parsed, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		status = parsed
	}

	priority := domain.TaskPriorityMedium
	if req.Priority != nil {
		parsed, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		priority = parsed
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}

	return domain.CreateTaskInput{
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var title *string
	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		title = &value
	}

	var status *domain.TaskStatus
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Status != nil {
		parsed, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		status = &parsed
	}

	var priority *domain.TaskPriority
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Priority != nil {
		parsed, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		priority = &parsed
	}

	descriptionSet := hasJSONField(raw, "description")
	if descriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var dueDate *time.Time
	dueDateSet := hasJSONField(raw, "due_date")
	if dueDateSet && !isJSONNull(raw["due_date"]) {
		if req.DueDate == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		dueDate = parsed
	}

	return domain.UpdateTaskInput{
		Title:          title,
		Description:    req.Description,
		DescriptionSet: descriptionSet,
		Status:         status,
		Priority:       priority,
		DueDate:        dueDate,
		DueDateSet:     dueDateSet,
	}, nil
}

// parseDueDate accepts RFC3339 timestamps and, for convenience, bare dates
// (interpreted as midnight UTC).
func parseDueDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	if parsed, err := time.Parse(time.RFC3339, *value); err == nil {
		utc := parsed.UTC()
		return &utc, nil
	}

	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, ErrInvalidTaskPayload
	}
	utc := parsed.UTC()
	return &utc, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "status") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "due_date")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
