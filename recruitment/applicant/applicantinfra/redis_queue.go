package applicantinfra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements DecompressQueue using a Redis list
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

// NewRedisQueue creates a new Redis-based queue
func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

// Enqueue adds a request to the queue
func (q *RedisQueue) Enqueue(ctx context.Context, req applicant.DecompressRequest) error {
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return applicant.ErrRegistry.NewWithCause(applicant.CodeQueueEnqueueFailed, err).
			WithDetail("applicant_id", req.ApplicantID.String())
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return applicant.ErrRegistry.NewWithCause(applicant.CodeQueueEnqueueFailed, err).
			WithDetail("applicant_id", req.ApplicantID.String())
	}

	return nil
}

// Dequeue gets a request from the queue (blocking with timeout)
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*applicant.DecompressRequest, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil is returned when timeout occurs
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, applicant.ErrRegistry.NewWithCause(applicant.CodeQueueDequeueFailed, err)
	}

	if len(result) < 2 {
		return nil, applicant.ErrQueueDequeueFailed().WithDetail("elements", len(result))
	}

	var req applicant.DecompressRequest
	if err := json.Unmarshal([]byte(result[1]), &req); err != nil {
		return nil, applicant.ErrRegistry.NewWithCause(applicant.CodeQueueDequeueFailed, err).
			WithDetail("payload", result[1])
	}

	return &req, nil
}

// Size returns the number of requests waiting
func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return 0, applicant.ErrRegistry.NewWithCause(applicant.CodeQueueDequeueFailed, err)
	}
	return size, nil
}

// Clear removes every waiting request
func (q *RedisQueue) Clear(ctx context.Context) error {
	return q.client.Del(ctx, q.queueName).Err()
}

// Ping checks if Redis connection is alive
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
