package mailqueue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingscode/ecommerce-api/internal/logging"
)

// fakeStore is an in-memory FIFO standing in for the Redis list
type fakeStore struct {
	items   []string
	pushErr error
}

func (s *fakeStore) PushTail(_ context.Context, _ string, payload string) error {
	if s.pushErr != nil {
		return s.pushErr
	}
	s.items = append(s.items, payload)
	return nil
}

func (s *fakeStore) PopHead(_ context.Context, _ string) (string, bool, error) {
	if len(s.items) == 0 {
		return "", false, nil
	}
	head := s.items[0]
	s.items = s.items[1:]
	return head, true, nil
}

// fakeSender fails the first failUntil delivery attempts
type fakeSender struct {
	mu        sync.Mutex
	attempts  int
	failUntil int
}

func (s *fakeSender) SendTemplated(_ context.Context, _, _, _ string, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failUntil {
		return errors.New("smtp connection refused")
	}
	return nil
}

func (s *fakeSender) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func testLogger() *logging.Logger {
	return logging.NewLogger(true)
}

func testMessage() Message {
	return Message{
		To:           "alice@example.com",
		Subject:      "Verify Your Account",
		TemplateName: "user-verification",
		Variables:    map[string]any{"recipientName": "Alice"},
		CreatedAt:    time.Now(),
	}
}

func TestProducerEnqueue(t *testing.T) {
	store := &fakeStore{}
	producer := NewProducer(store, "email-queue", testLogger())

	err := producer.Enqueue(context.Background(), testMessage())
	require.NoError(t, err)
	require.Len(t, store.items, 1)

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(store.items[0]), &msg))
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, 0, msg.RetryCount)
}

func TestProducerEnqueueStoreFailure(t *testing.T) {
	store := &fakeStore{pushErr: errors.New("connection refused")}
	producer := NewProducer(store, "email-queue", testLogger())

	err := producer.Enqueue(context.Background(), testMessage())
	assert.Error(t, err)
}

func TestConsumerDeliversAndDiscards(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	producer := NewProducer(store, "email-queue", testLogger())
	consumer := NewConsumer(store, sender, "email-queue", 3, time.Second, testLogger())

	require.NoError(t, producer.Enqueue(context.Background(), testMessage()))

	consumer.processOne(context.Background())

	assert.Equal(t, 1, sender.attemptCount())
	assert.Empty(t, store.items, "delivered message must be discarded")
}

func TestConsumerRetriesWithIncrementedCount(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{failUntil: 2}
	producer := NewProducer(store, "email-queue", testLogger())
	consumer := NewConsumer(store, sender, "email-queue", 3, time.Second, testLogger())

	require.NoError(t, producer.Enqueue(context.Background(), testMessage()))

	// first failure: re-enqueued with retry_count=1
	consumer.processOne(context.Background())
	require.Len(t, store.items, 1)
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(store.items[0]), &msg))
	assert.Equal(t, 1, msg.RetryCount)

	// second failure: retry_count=2
	consumer.processOne(context.Background())
	require.Len(t, store.items, 1)
	require.NoError(t, json.Unmarshal([]byte(store.items[0]), &msg))
	assert.Equal(t, 2, msg.RetryCount)

	// third attempt succeeds and the queue drains
	consumer.processOne(context.Background())
	assert.Empty(t, store.items)
	assert.Equal(t, 3, sender.attemptCount())
}

func TestConsumerDropsAfterMaxRetries(t *testing.T) {
	const maxRetries = 3

	store := &fakeStore{}
	sender := &fakeSender{failUntil: 100} // never succeeds
	producer := NewProducer(store, "email-queue", testLogger())
	consumer := NewConsumer(store, sender, "email-queue", maxRetries, time.Second, testLogger())

	require.NoError(t, producer.Enqueue(context.Background(), testMessage()))

	// maxRetries re-enqueues plus the final dropping attempt
	for i := 0; i < maxRetries+1; i++ {
		consumer.processOne(context.Background())
	}

	assert.Empty(t, store.items, "message must be dropped, not re-pushed")
	assert.Equal(t, maxRetries+1, sender.attemptCount())

	// a further tick is a no-op on the empty queue
	consumer.processOne(context.Background())
	assert.Equal(t, maxRetries+1, sender.attemptCount())
}

func TestConsumerDropsMalformedPayload(t *testing.T) {
	store := &fakeStore{items: []string{"{not json"}}
	sender := &fakeSender{}
	consumer := NewConsumer(store, sender, "email-queue", 3, time.Second, testLogger())

	consumer.processOne(context.Background())

	assert.Empty(t, store.items)
	assert.Equal(t, 0, sender.attemptCount())
}

func TestConsumerStartStop(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	producer := NewProducer(store, "email-queue", testLogger())
	consumer := NewConsumer(store, sender, "email-queue", 3, 5*time.Millisecond, testLogger())

	require.NoError(t, producer.Enqueue(context.Background(), testMessage()))

	consumer.Start(context.Background())

	require.Eventually(t, func() bool {
		return sender.attemptCount() >= 1
	}, time.Second, 5*time.Millisecond)

	consumer.Stop()
	assert.Empty(t, store.items)
}
