package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kingscode/ecommerce-api/internal/logging"
)

// Producer enqueues email messages onto the tail of the queue.
// Serialization or push failures surface to the caller: the flows that
// enqueue mail treat a dead queue as fatal to the request rather than
// silently losing the message.
type Producer struct {
	store     Store
	queueName string
	logger    *logging.Logger
}

func NewProducer(store Store, queueName string, logger *logging.Logger) *Producer {
	return &Producer{
		store:     store,
		queueName: queueName,
		logger:    logger,
	}
}

func (p *Producer) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize email message: %w", err)
	}

	if err := p.store.PushTail(ctx, p.queueName, string(payload)); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	p.logger.Info("email queued", "to", msg.To, "template", msg.TemplateName)
	return nil
}
