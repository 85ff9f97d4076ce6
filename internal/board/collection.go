package board

import (
	"github.com/google/uuid"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

// Collection is the client-side cache of task snapshots. The server is the
// source of truth; the collection may transiently diverge from it while an
// optimistic mutation is in flight. Only the Controller and full-refresh
// results write to it.
//
// Collection is not safe for concurrent use on its own; the Controller
// owns the locking.
type Collection struct {
	tasks []domain.Task
	index map[uuid.UUID]int
}

func NewCollection() *Collection {
	return &Collection{index: make(map[uuid.UUID]int)}
}

// Replace swaps the whole collection for a fresh server snapshot,
// preserving the order the server returned.
func (c *Collection) Replace(tasks []domain.Task) {
	c.tasks = make([]domain.Task, len(tasks))
	copy(c.tasks, tasks)
	c.index = make(map[uuid.UUID]int, len(tasks))
	for i, task := range tasks {
		c.index[task.ID] = i
	}
}

func (c *Collection) Get(id uuid.UUID) (domain.Task, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Task{}, false
	}
	return c.tasks[i], true
}

// Tasks returns a copy of the current snapshots in collection order.
func (c *Collection) Tasks() []domain.Task {
	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Collection) Len() int {
	return len(c.tasks)
}

// SetStatus mutates a single task's status in place. This is the only
// field an optimistic mutation is allowed to touch.
func (c *Collection) SetStatus(id uuid.UUID, status domain.TaskStatus) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.tasks[i].Status = status
	return true
}

// Put overwrites one task with server truth, keeping its position. Tasks
// the collection has never seen are appended.
func (c *Collection) Put(task domain.Task) {
	if i, ok := c.index[task.ID]; ok {
		c.tasks[i] = task
		return
	}
	c.index[task.ID] = len(c.tasks)
	c.tasks = append(c.tasks, task)
}

func (c *Collection) Remove(id uuid.UUID) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.tasks); j++ {
		c.index[c.tasks[j].ID] = j
	}
	return true
}
