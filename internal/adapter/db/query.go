package db

import (
	"fmt"
	"strings"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

// orderBy is the closed set of orderings the list query may use. Keeping it
// closed means ORDER BY is never built from caller-supplied text.
type orderBy int

const (
	orderCreatedAsc orderBy = iota
	orderCreatedDesc
	orderDueAsc
)

const selectTaskColumns = `SELECT id, title, description, status, priority, due_date, created_at, updated_at FROM tasks`

// buildListTasksQuery turns a filter into a parameterized SELECT. Every
// present filter field becomes an AND clause with a bound argument; an empty
// filter selects all tasks. The builder assumes well-typed enum values and
// panics on an unknown tag.
func buildListTasksQuery(filter domain.TaskFilter, order orderBy) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(selectTaskColumns)
	sb.WriteString(" WHERE 1=1")

	if filter.Status != nil {
		mustValidStatus(*filter.Status)
		sb.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	if filter.Priority != nil {
		mustValidPriority(*filter.Priority)
		sb.WriteString(" AND priority = ?")
		args = append(args, string(*filter.Priority))
	}

	if filter.DueBefore != nil {
		sb.WriteString(" AND due_date IS NOT NULL AND due_date < ?")
		args = append(args, *filter.DueBefore)
	}

	if filter.DueAfter != nil {
		sb.WriteString(" AND due_date IS NOT NULL AND due_date > ?")
		args = append(args, *filter.DueAfter)
	}

	switch order {
	case orderCreatedAsc:
		sb.WriteString(" ORDER BY created_at ASC, id ASC")
	case orderCreatedDesc:
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
	case orderDueAsc:
		sb.WriteString(" ORDER BY due_date IS NULL, due_date ASC, id ASC")
	default:
		panic(fmt.Sprintf("db: unknown order tag %d", order))
	}

	return sb.String(), args
}

func mustValidStatus(status domain.TaskStatus) {
	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		panic(fmt.Sprintf("db: filter carries invalid status %q", status))
	}
}

func mustValidPriority(priority domain.TaskPriority) {
	if _, err := domain.ParseTaskPriority(string(priority)); err != nil {
		panic(fmt.Sprintf("db: filter carries invalid priority %q", priority))
	}
}
