package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

// APIClient talks to the task REST API. It maps HTTP status codes onto the
// client error taxonomy so the controller can tell a validation rejection
// from an outage.
type APIClient struct {
	baseURL string
	http    *http.Client
}

var _ Requester = (*APIClient)(nil)

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// taskPayload mirrors the wire shape of a task.
type taskPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type createTaskPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

type updateStatusPayload struct {
	Status string `json:"status"`
}

func (c *APIClient) FetchTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	u, err := url.Parse(c.baseURL + "/api/tasks")
	if err != nil {
		return nil, err
	}

	q := u.Query()
	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}
	if filter.Priority != nil {
		q.Set("priority", string(*filter.Priority))
	}
	if filter.DueBefore != nil {
		q.Set("due_before", filter.DueBefore.Format(time.RFC3339))
	}
	if filter.DueAfter != nil {
		q.Set("due_after", filter.DueAfter.Format(time.RFC3339))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	var payloads []taskPayload
	if err := c.do(req, http.StatusOK, &payloads); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(payloads))
	for _, payload := range payloads {
		task, err := payloadToTask(payload)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (c *APIClient) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	payload := createTaskPayload{
		Title:       input.Title,
		Description: input.Description,
	}
	if input.Status != "" {
		status := string(input.Status)
		payload.Status = &status
	}
	if input.Priority != "" {
		priority := string(input.Priority)
		payload.Priority = &priority
	}
	if input.DueDate != nil {
		due := input.DueDate.Format(time.RFC3339)
		payload.DueDate = &due
	}

	req, err := c.jsonRequest(ctx, http.MethodPost, c.baseURL+"/api/tasks", payload)
	if err != nil {
		return domain.Task{}, err
	}

	var created taskPayload
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return domain.Task{}, err
	}
	return payloadToTask(created)
}

func (c *APIClient) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (domain.Task, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, c.baseURL+"/api/tasks/"+id.String(), updateStatusPayload{Status: string(status)})
	if err != nil {
		return domain.Task{}, err
	}

	var updated taskPayload
	if err := c.do(req, http.StatusOK, &updated); err != nil {
		return domain.Task{}, err
	}
	return payloadToTask(updated)
}

func (c *APIClient) DeleteTask(ctx context.Context, id uuid.UUID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/tasks/"+id.String(), nil)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusNoContent, nil)
}

func (c *APIClient) jsonRequest(ctx context.Context, method, rawURL string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *APIClient) do(req *http.Request, wantStatus int, dest any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode != wantStatus {
		return statusToErr(res.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

func statusToErr(status int) error {
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: http %d", ErrNotFound, status)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: http %d", ErrValidation, status)
	default:
		return fmt.Errorf("%w: http %d", ErrServerUnavailable, status)
	}
}

func payloadToTask(payload taskPayload) (domain.Task, error) {
	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse task id %q: %w", payload.ID, err)
	}

	status, err := domain.ParseTaskStatus(payload.Status)
	if err != nil {
		return domain.Task{}, err
	}
	priority, err := domain.ParseTaskPriority(payload.Priority)
	if err != nil {
		return domain.Task{}, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, payload.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, payload.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse updated_at: %w", err)
	}

	task := domain.Task{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}

	if payload.DueDate != nil {
		due, err := time.Parse(time.RFC3339Nano, *payload.DueDate)
		if err != nil {
			return domain.Task{}, fmt.Errorf("parse due_date: %w", err)
		}
		utc := due.UTC()
		task.DueDate = &utc
	}

	return task, nil
}
