package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueEmpty is returned by Pop when no job arrived before the timeout.
var ErrQueueEmpty = errors.New("queue empty")

// Queue is a FIFO of invitation jobs.
type Queue interface {
	Push(ctx context.Context, inv Invitation) error
	Pop(ctx context.Context, timeout time.Duration) (*Invitation, error)
}

// RedisQueue keeps jobs in a Redis list: LPUSH on enqueue, BRPOP on dequeue.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Push(ctx context.Context, inv Invitation) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode invitation: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue invitation: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*Invitation, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue invitation: %w", err)
	}
	// BRPOP replies with [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}

	var inv Invitation
	if err := json.Unmarshal([]byte(res[1]), &inv); err != nil {
		return nil, fmt.Errorf("failed to decode invitation: %w", err)
	}
	return &inv, nil
}

// MemoryQueue is a buffered channel queue for single-process setups and tests.
type MemoryQueue struct {
	jobs chan Invitation
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan Invitation, size)}
}

func (q *MemoryQueue) Push(ctx context.Context, inv Invitation) error {
	select {
	case q.jobs <- inv:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("invitation queue is full")
	}
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) (*Invitation, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case inv := <-q.jobs:
		return &inv, nil
	case <-timer.C:
		return nil, ErrQueueEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
