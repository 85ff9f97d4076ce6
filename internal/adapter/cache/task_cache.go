// Package cache decorates the task repository with a Redis cache-aside
// layer. Reads are served from Redis when possible; every mutation bumps a
// generation counter so stale list entries fall out of scope without a
// prefix scan. Cache failures degrade to the wrapped repository and are
// only logged.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/ports"
)

const (
	defaultTTL    = 30 * time.Second
	generationKey = "tasks:gen"
)

type TaskCache struct {
	next   ports.TaskRepository
	client *redis.Client
	ttl    time.Duration
}

var _ ports.TaskRepository = (*TaskCache)(nil)

func NewTaskCache(next ports.TaskRepository, client *redis.Client) *TaskCache {
	return &TaskCache{next: next, client: client, ttl: defaultTTL}
}

func (c *TaskCache) Create(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	task, err := c.next.Create(ctx, input)
	if err != nil {
		return domain.Task{}, err
	}
	c.bumpGeneration(ctx)
	return task, nil
}

func (c *TaskCache) GetAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	key := c.listKey(ctx, filter)

	if key != "" {
		var cached []domain.Task
		if hit := c.get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	tasks, err := c.next.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if key != "" {
		c.set(ctx, key, tasks)
	}
	return tasks, nil
}

func (c *TaskCache) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	key := taskKey(id)

	var cached domain.Task
	if hit := c.get(ctx, key, &cached); hit {
		return cached, nil
	}

	task, err := c.next.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	c.set(ctx, key, task)
	return task, nil
}

func (c *TaskCache) Update(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (domain.Task, error) {
	task, err := c.next.Update(ctx, id, input)
	if err != nil {
		return domain.Task{}, err
	}
	c.invalidate(ctx, id)
	return task, nil
}

func (c *TaskCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// listKey embeds the current generation so mutations implicitly expire
// every list entry written under an older generation. Returns "" when the
// generation cannot be read; the caller then skips the cache.
func (c *TaskCache) listKey(ctx context.Context, filter domain.TaskFilter) string {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		zap.L().Debug("task cache generation read failed", zap.Error(err))
		return ""
	}

	payload, err := json.Marshal(filter)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("tasks:list:%d:%s", gen, payload)
}

func taskKey(id uuid.UUID) string {
	return "tasks:id:" + id.String()
}

func (c *TaskCache) get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Debug("task cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		zap.L().Warn("task cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *TaskCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zap.L().Debug("task cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *TaskCache) invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, taskKey(id)).Err(); err != nil {
		zap.L().Debug("task cache del failed", zap.Error(err))
	}
	c.bumpGeneration(ctx)
}

func (c *TaskCache) bumpGeneration(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		zap.L().Debug("task cache generation bump failed", zap.Error(err))
	}
}
