package queue

import "context"

// Job is a unit of asynchronous work pulled from a queue.
type Job struct {
	// ID uniquely identifies the job instance.
	ID string `json:"id"`
	// Type selects the handler (e.g., order_fanout, catalog_sync).
	Type string `json:"type"`
	// Payload carries the handler-specific JSON body.
	Payload []byte `json:"payload"`
}

// Queue is the durable work queue port. Producers enqueue jobs from request
// handlers; worker processes dequeue and execute them to completion.
type Queue interface {
	// Enqueue pushes a job onto the named queue.
	Enqueue(ctx context.Context, queue string, job Job) error

	// Dequeue blocks until a job is available on the named queue or the
	// context is cancelled.
	Dequeue(ctx context.Context, queue string) (Job, error)

	// Close releases the underlying connection.
	Close() error
}
