package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Queue names used by the application.
const (
	// OrderQueue carries order fan-out jobs.
	OrderQueue = "queue:orders"
	// SyncQueue carries catalog sync jobs.
	SyncQueue = "queue:sync"
)

// dequeueTimeout bounds a single blocking pop so worker loops can observe
// context cancellation.
const dequeueTimeout = 5 * time.Second

// RedisQueue implements Queue on Redis lists (LPUSH/BRPOP).
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a Redis-backed queue from a redis:// URL.
func NewRedisQueue(redisURL string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisQueue{client: redis.NewClient(opts)}, nil
}

// Enqueue pushes the job onto the named queue. A missing job ID is filled in.
func (q *RedisQueue) Enqueue(ctx context.Context, queue string, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job on %s: %w", queue, err)
	}
	return nil
}

// Dequeue blocks on the named queue until a job arrives or ctx is cancelled.
func (q *RedisQueue) Dequeue(ctx context.Context, queue string) (Job, error) {
	for {
		res, err := q.client.BRPop(ctx, dequeueTimeout, queue).Result()
		if err == redis.Nil {
			// Timed out with no job; re-check cancellation and block again.
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			continue
		}
		if err != nil {
			return Job{}, fmt.Errorf("failed to dequeue from %s: %w", queue, err)
		}

		// BRPop returns [key, value].
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("failed to unmarshal job: %w", err)
		}
		return job, nil
	}
}

// Close closes the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
