package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *RedisQueue {
	mr := miniredis.RunT(t)
	q, err := NewRedisQueue("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func TestRedisQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("EnqueueDequeueRoundtrip", func(t *testing.T) {
		q := newTestQueue(t)

		err := q.Enqueue(ctx, OrderQueue, Job{
			ID:      "job-1",
			Type:    "order.fanout",
			Payload: []byte(`{"orderId":"ord-1"}`),
		})
		require.NoError(t, err)

		job, err := q.Dequeue(ctx, OrderQueue)
		assert.NoError(t, err)
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, "order.fanout", job.Type)
		assert.JSONEq(t, `{"orderId":"ord-1"}`, string(job.Payload))
	})

	t.Run("FillsMissingJobID", func(t *testing.T) {
		q := newTestQueue(t)

		require.NoError(t, q.Enqueue(ctx, SyncQueue, Job{Type: "catalog.sync"}))

		job, err := q.Dequeue(ctx, SyncQueue)
		assert.NoError(t, err)
		assert.NotEmpty(t, job.ID)
	})

	t.Run("FIFOAcrossJobs", func(t *testing.T) {
		q := newTestQueue(t)

		require.NoError(t, q.Enqueue(ctx, OrderQueue, Job{ID: "first", Type: "order.fanout"}))
		require.NoError(t, q.Enqueue(ctx, OrderQueue, Job{ID: "second", Type: "order.fanout"}))

		job, err := q.Dequeue(ctx, OrderQueue)
		require.NoError(t, err)
		assert.Equal(t, "first", job.ID)

		job, err = q.Dequeue(ctx, OrderQueue)
		require.NoError(t, err)
		assert.Equal(t, "second", job.ID)
	})

	t.Run("QueuesAreIndependent", func(t *testing.T) {
		q := newTestQueue(t)

		require.NoError(t, q.Enqueue(ctx, OrderQueue, Job{ID: "order-job", Type: "order.fanout"}))
		require.NoError(t, q.Enqueue(ctx, SyncQueue, Job{ID: "sync-job", Type: "catalog.sync"}))

		job, err := q.Dequeue(ctx, SyncQueue)
		require.NoError(t, err)
		assert.Equal(t, "sync-job", job.ID)
	})
}
