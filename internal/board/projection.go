package board

import "github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"

// Column is one rendered status bucket.
type Column struct {
	Status domain.TaskStatus
	Tasks  []domain.Task
}

// Project derives the board columns from the current collection snapshot:
// one bucket per status in fixed order, keeping each task's position from
// the underlying collection. An optional priority filter narrows the board
// without touching the collection. Pure function: no owned state, no I/O.
func Project(tasks []domain.Task, priority *domain.TaskPriority) []Column {
	columns := make([]Column, len(domain.TaskStatuses))
	position := make(map[domain.TaskStatus]int, len(domain.TaskStatuses))
	for i, status := range domain.TaskStatuses {
		columns[i] = Column{Status: status}
		position[status] = i
	}

	for _, task := range tasks {
		if priority != nil && task.Priority != *priority {
			continue
		}
		i, ok := position[task.Status]
		if !ok {
			continue
		}
		columns[i].Tasks = append(columns[i].Tasks, task)
	}

	return columns
}
