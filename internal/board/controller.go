package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

// MutationState tracks one pending status mutation through its lifecycle.
type MutationState int

const (
	StateIdle MutationState = iota
	StateAppliedLocally
	StateConfirmed
	StateReverted
)

func (s MutationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAppliedLocally:
		return "applied-locally"
	case StateConfirmed:
		return "confirmed"
	case StateReverted:
		return "reverted"
	}
	return "unknown"
}

// Requester is the slice of the REST API the controller needs. *APIClient
// satisfies it; tests substitute a fake.
type Requester interface {
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (domain.Task, error)
	FetchTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
}

// MutationFailure is surfaced to the UI whenever a mutation ends up
// reverted. Err carries the kind (network, validation, not-found, server).
type MutationFailure struct {
	TaskID uuid.UUID
	Target domain.TaskStatus
	Err    error
}

const defaultMutationTimeout = 10 * time.Second

// pendingMutation is the per-task in-flight bookkeeping. generation grows
// with every user action on the task; a response tagged with an older
// generation is stale and its outcome is discarded.
type pendingMutation struct {
	generation uint64
	snapshot   domain.Task
	target     domain.TaskStatus
	queued     *domain.TaskStatus
	inFlight   bool
}

// Controller applies status changes to the local collection immediately,
// confirms or reverts them against the server response, and keeps at most
// one request in flight per task. A newer action on a busy task coalesces
// into a queued intent (latest intent wins) instead of racing a second
// request.
type Controller struct {
	mu         sync.Mutex
	collection *Collection
	requester  Requester
	timeout    time.Duration
	pending    map[uuid.UUID]*pendingMutation
	onFailure  func(MutationFailure)
	onRefresh  func([]domain.Task)
	closed     bool
	wg         sync.WaitGroup
}

type ControllerOption func(*Controller)

// WithMutationTimeout bounds how long a mutation may stay pending before it
// is treated as failed.
func WithMutationTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.timeout = d }
}

// WithFailureListener registers the user-visible failure surface.
func WithFailureListener(fn func(MutationFailure)) ControllerOption {
	return func(c *Controller) { c.onFailure = fn }
}

// WithRefreshListener is notified after every full refresh with the fresh
// snapshot, so the rendering layer can re-project.
func WithRefreshListener(fn func([]domain.Task)) ControllerOption {
	return func(c *Controller) { c.onRefresh = fn }
}

func NewController(collection *Collection, requester Requester, opts ...ControllerOption) *Controller {
	c := &Controller{
		collection: collection,
		requester:  requester,
		timeout:    defaultMutationTimeout,
		pending:    make(map[uuid.UUID]*pendingMutation),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tasks returns the current local snapshots.
func (c *Controller) Tasks() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection.Tasks()
}

// MutationState reports where the given task stands. Terminal outcomes
// collapse straight back to idle, so callers only ever observe idle or
// applied-locally between calls.
func (c *Controller) MutationState(id uuid.UUID) MutationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[id]; ok {
		return StateAppliedLocally
	}
	return StateIdle
}

// MoveTask is the optimistic entry point: the collection reflects the new
// status before this returns, and the matching PUT is issued in the
// background. Calling it again for a task that is still pending replaces
// the queued intent rather than racing a second request.
func (c *Controller) MoveTask(id uuid.UUID, status domain.TaskStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	snapshot, ok := c.collection.Get(id)
	if !ok {
		return ErrUnknownTask
	}

	p := c.pending[id]
	if p == nil {
		p = &pendingMutation{snapshot: snapshot}
		c.pending[id] = p
	}

	p.generation++
	p.target = status
	c.collection.SetStatus(id, status)

	if p.inFlight {
		// Latest intent wins; the previous queued intent (if any) was
		// never sent and is superseded.
		queued := status
		p.queued = &queued
		return nil
	}

	p.inFlight = true
	c.dispatch(id, status, p.generation)
	return nil
}

// dispatch launches the background request. Callers hold c.mu.
func (c *Controller) dispatch(id uuid.UUID, status domain.TaskStatus, generation uint64) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		task, err := c.requester.UpdateTaskStatus(ctx, id, status)
		c.resolve(id, generation, task, err)
	}()
}

// resolve handles exactly one terminal outcome per request. A response
// whose generation no longer matches the task's latest intent is stale:
// its outcome is discarded either way, and the queued intent (which caused
// the staleness) is dispatched next.
func (c *Controller) resolve(id uuid.UUID, generation uint64, task domain.Task, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	p := c.pending[id]
	if p == nil {
		// Torn down while in flight; nothing left to reconcile.
		return
	}

	if generation != p.generation {
		zap.L().Debug("discarding stale mutation outcome",
			zap.String("task_id", id.String()),
			zap.Uint64("response_generation", generation),
			zap.Uint64("current_generation", p.generation),
		)
		c.dispatchQueued(id, p)
		return
	}

	if err == nil {
		// Confirmed: local state already matches the intent; fold in the
		// server-owned fields (updated_at) without touching the status the
		// user chose.
		task.Status = p.target
		c.collection.Put(task)
		delete(c.pending, id)
		return
	}

	// Reverted: restore the pre-mutation snapshot, tell the user, and
	// refresh the canonical list to resolve any wider drift.
	c.collection.Put(p.snapshot)
	delete(c.pending, id)

	failure := MutationFailure{TaskID: id, Target: p.target, Err: err}
	zap.L().Warn("mutation reverted",
		zap.String("task_id", id.String()),
		zap.String("target_status", string(failure.Target)),
		zap.Error(err),
	)
	if c.onFailure != nil {
		c.onFailure(failure)
	}
	c.startRefresh()
}

// dispatchQueued sends the coalesced intent, if any. Callers hold c.mu.
func (c *Controller) dispatchQueued(id uuid.UUID, p *pendingMutation) {
	if p.queued == nil {
		p.inFlight = false
		return
	}
	status := *p.queued
	p.queued = nil
	c.dispatch(id, status, p.generation)
}

// startRefresh fetches the canonical task list in the background. Locally
// applied states of mutations still pending on other tasks are re-applied
// on top of the fresh snapshot so the refresh cannot clobber them. Callers
// hold c.mu.
func (c *Controller) startRefresh() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		tasks, err := c.requester.FetchTasks(ctx, domain.TaskFilter{})
		if err != nil {
			zap.L().Warn("task list refresh failed", zap.Error(err))
			return
		}
		c.applyRefresh(tasks)
	}()
}

func (c *Controller) applyRefresh(tasks []domain.Task) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	c.collection.Replace(tasks)
	for id, p := range c.pending {
		if !c.collection.SetStatus(id, p.target) {
			// The task vanished server-side; its eventual response will be
			// dropped by the nil-pending check.
			delete(c.pending, id)
		}
	}
	snapshot := c.collection.Tasks()
	onRefresh := c.onRefresh
	c.mu.Unlock()

	if onRefresh != nil {
		onRefresh(snapshot)
	}
}

// Refresh synchronously reloads the collection from the server.
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.requester.FetchTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return err
	}
	c.applyRefresh(tasks)
	return nil
}

// Close tears the controller down. In-flight responses arriving afterwards
// are ignored; Close waits for their goroutines to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
}
