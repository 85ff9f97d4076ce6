package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/ports"
)

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	DueDate     sql.NullTime   `db:"due_date"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	const insertTaskQuery = `
INSERT INTO tasks (id, title, description, status, priority, due_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	task := domain.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, insertTaskQuery,
		task.ID.String(),
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, wrapStorageErr("insert task", err)
	}

	return task, nil
}

func (r *TaskRepository) GetAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	query, args := buildListTasksQuery(filter, orderCreatedAsc)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapStorageErr("list tasks", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	const getTaskQuery = selectTaskColumns + ` WHERE id = ?`

	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, wrapStorageErr("get task", err)
	}

	return mapTaskRowToDomainTask(row)
}

// Update applies only the supplied fields inside a transaction. The row is
// locked with SELECT ... FOR UPDATE so concurrent updates of the same task
// serialize instead of interleaving; updates of different ids do not block
// each other.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (domain.Task, error) {
	const lockTaskQuery = selectTaskColumns + ` WHERE id = ? FOR UPDATE`
	const updateTaskQuery = `
UPDATE tasks
SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
WHERE id = ?`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, wrapStorageErr("begin update", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var row taskRow
	if err := tx.GetContext(ctx, &row, lockTaskQuery, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, wrapStorageErr("lock task", err)
	}

	task, err := mapTaskRowToDomainTask(row)
	if err != nil {
		return domain.Task{}, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.DescriptionSet {
		task.Description = input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}
	task.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if task.UpdatedAt.Before(task.CreatedAt) {
		task.UpdatedAt = task.CreatedAt
	}

	_, err = tx.ExecContext(ctx, updateTaskQuery,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.UpdatedAt,
		task.ID.String(),
	)
	if err != nil {
		return domain.Task{}, wrapStorageErr("update task", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, wrapStorageErr("commit update", err)
	}

	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const deleteTaskQuery = `DELETE FROM tasks WHERE id = ?`

	res, err := r.db.ExecContext(ctx, deleteTaskQuery, id.String())
	if err != nil {
		return wrapStorageErr("delete task", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapStorageErr("delete task", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func mapTaskRowToDomainTask(row taskRow) (domain.Task, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse task id %q: %w", row.ID, err)
	}

	task := domain.Task{
		ID:        id,
		Title:     row.Title,
		Status:    domain.TaskStatus(row.Status),
		Priority:  domain.TaskPriority(row.Priority),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueDate.Valid {
		value := row.DueDate.Time.UTC()
		task.DueDate = &value
	}

	return task, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

// wrapStorageErr tags driver and connectivity failures as storage
// unavailability so callers never mistake them for missing rows or bad
// input.
func wrapStorageErr(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// A well-formed server response: the store is reachable, the
		// statement itself failed.
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}
