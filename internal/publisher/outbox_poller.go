package publisher

import (
	"context"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/journal"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultTopic = "storefront-orders"

	eventTypeOrderPlaced = "OrderPlaced"
	batchSize            = 100
)

// Outbox is the journal side of the poller.
type Outbox interface {
	Unpublished(ctx context.Context, limit int) ([]journal.Event, error)
	MarkPublished(ctx context.Context, id string) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPoller forwards journaled orders to Kafka for downstream analytics.
// Delivery is at least once: an order is marked published only after the
// write succeeds.
type OutboxPoller struct {
	tick    time.Duration
	timeout time.Duration
	outbox  Outbox
	writer  MessageWriter
	logger  *zap.Logger
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
}

func NewOutboxPoller(outbox Outbox, writer MessageWriter, tick time.Duration, logger *zap.Logger) *OutboxPoller {
	if tick <= 0 {
		tick = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxPoller{
		tick:    tick,
		timeout: 5 * time.Second,
		outbox:  outbox,
		writer:  writer,
		logger:  logger,
	}
}

// Run polls until ctx is cancelled, then closes the writer.
func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Warn("failed to close kafka writer", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ticker.C:
			p.processUnpublished(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublished(ctx context.Context) {
	events, err := p.outbox.Unpublished(ctx, batchSize)
	if err != nil {
		p.logger.Warn("failed to fetch unpublished orders", zap.Error(err))
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.logger.Warn("failed to publish order", zap.String("order_id", event.OrderID), zap.Error(err))
			continue
		}
		if err := p.outbox.MarkPublished(ctx, event.OrderID); err != nil {
			p.logger.Warn("failed to mark order published", zap.String("order_id", event.OrderID), zap.Error(err))
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event journal.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: event.Payload,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeOrderPlaced)},
		},
	})
}
