package mailqueue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kingscode/ecommerce-api/internal/logging"
)

// Sender delivers one templated email. Template rendering failures are
// treated identically to transport failures: both trigger retry-or-drop.
type Sender interface {
	SendTemplated(ctx context.Context, to, subject, templateName string, variables map[string]any) error
}

// Consumer drains the email queue on a fixed-interval poll. It runs as
// a single goroutine, so ticks never overlap; one delivery attempt per
// tick, blocking on the mail backend for its duration. Delivery is
// at-least-once with eventual drop: a message that keeps failing past
// maxRetries is logged and discarded, with no dead-letter store.
type Consumer struct {
	store        Store
	sender       Sender
	queueName    string
	maxRetries   int
	pollInterval time.Duration
	logger       *logging.Logger

	stop chan struct{}
	done sync.WaitGroup
}

func NewConsumer(store Store, sender Sender, queueName string, maxRetries int, pollInterval time.Duration, logger *logging.Logger) *Consumer {
	return &Consumer{
		store:        store,
		sender:       sender,
		queueName:    queueName,
		maxRetries:   maxRetries,
		pollInterval: pollInterval,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

// Start launches the poll loop. It returns immediately; the loop runs
// until Stop is called or ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.done.Add(1)

	go func() {
		defer c.done.Done()

		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		c.logger.Info("email queue consumer started",
			"queue", c.queueName,
			"poll_interval", c.pollInterval.String(),
			"max_retries", c.maxRetries,
		)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-ticker.C:
				c.processOne(ctx)
			}
		}
	}()
}

// Stop terminates the poll loop and waits for an in-flight tick to finish
func (c *Consumer) Stop() {
	close(c.stop)
	c.done.Wait()
}

// processOne pops at most one message and attempts delivery
func (c *Consumer) processOne(ctx context.Context) {
	payload, ok, err := c.store.PopHead(ctx, c.queueName)
	if err != nil {
		c.logger.Error("failed to pop from email queue", "error", err)
		return
	}
	if !ok {
		return // queue empty, idle until next tick
	}

	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		// Unparseable payloads can never succeed; drop immediately.
		c.logger.Error("dropping malformed email message", "error", err)
		return
	}

	if err := c.sender.SendTemplated(ctx, msg.To, msg.Subject, msg.TemplateName, msg.Variables); err != nil {
		c.handleFailure(ctx, msg, err)
		return
	}

	c.logger.Info("email sent", "to", msg.To, "template", msg.TemplateName)
}

// handleFailure re-enqueues the message with an incremented retry count,
// or drops it permanently once the retry budget is spent.
func (c *Consumer) handleFailure(ctx context.Context, msg Message, cause error) {
	if msg.RetryCount >= c.maxRetries {
		c.logger.Error("email permanently failed",
			"to", msg.To,
			"template", msg.TemplateName,
			"retries", msg.RetryCount,
			"error", cause,
		)
		return
	}

	msg.RetryCount++

	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to re-serialize email message", "error", err)
		return
	}

	if err := c.store.PushTail(ctx, c.queueName, string(payload)); err != nil {
		c.logger.Error("failed to re-enqueue email", "to", msg.To, "error", err)
		return
	}

	c.logger.Warn("retrying email",
		"to", msg.To,
		"attempt", msg.RetryCount,
		"error", cause,
	)
}
