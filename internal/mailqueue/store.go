package mailqueue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store is the FIFO queue primitive. Both operations must be atomic
// across process boundaries; the consumer never does read-then-write
// against the queue itself.
type Store interface {
	PushTail(ctx context.Context, queue string, payload string) error
	PopHead(ctx context.Context, queue string) (payload string, ok bool, err error)
}

// RedisStore implements Store on a Redis list via RPUSH/LPOP
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) PushTail(ctx context.Context, queue string, payload string) error {
	if err := s.client.RPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", queue, err)
	}
	return nil
}

// PopHead removes and returns the head of the queue. ok is false when
// the queue is empty. LPOP is atomic, so at most one consumer ever
// receives a given payload.
func (s *RedisStore) PopHead(ctx context.Context, queue string) (string, bool, error) {
	payload, err := s.client.LPop(ctx, queue).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to pop from queue %s: %w", queue, err)
	}
	return payload, true, nil
}
