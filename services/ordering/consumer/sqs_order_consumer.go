package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	"github.com/ovaldezb/aws-microservices/pkg/errs"
	"github.com/ovaldezb/aws-microservices/services/ordering/models"
	"github.com/ovaldezb/aws-microservices/services/ordering/repository"
)

// outcome is the terminal (or non-terminal) state of one processed message.
type outcome int

const (
	// acked: order persisted, message deleted from the main queue.
	acked outcome = iota
	// requeued: transient failure, message left for the visibility timeout
	// to expire and redeliver.
	requeued
	// deadLettered: malformed payload or retry bound exhausted; message
	// moved to the dead-letter queue and removed from the main queue.
	deadLettered
)

// receiveQueue is the slice of the queue contract the consumer pulls from.
type receiveQueue interface {
	Receive(ctx context.Context, maxMessages int32, wait, visibility time.Duration) ([]awspkg.Message, error)
	Delete(ctx context.Context, receiptHandle string) error
	ChangeVisibility(ctx context.Context, receiptHandle string, d time.Duration) error
}

// sendQueue is the dead-letter destination.
type sendQueue interface {
	Send(ctx context.Context, body string) (string, error)
}

// Options bound the consumer's polling and retry behavior. All durations
// and counts come from configuration; none are hardcoded policy.
type Options struct {
	MaxMessages     int32
	WaitTime        time.Duration
	Visibility      time.Duration
	MaxReceiveCount int
}

func (o *Options) applyDefaults() {
	if o.MaxMessages <= 0 {
		o.MaxMessages = 10
	}
	if o.WaitTime <= 0 {
		o.WaitTime = 20 * time.Second
	}
	if o.Visibility <= 0 {
		o.Visibility = 30 * time.Second
	}
	if o.MaxReceiveCount <= 0 {
		o.MaxReceiveCount = 5
	}
}

// SQSOrderConsumer pulls checkout payloads from the order queue and persists
// them idempotently. Several consumers may run against the same queue with
// no coordination beyond the queue's own visibility leases; the
// content-derived order key makes any interleaving safe.
type SQSOrderConsumer struct {
	queue      receiveQueue
	deadLetter sendQueue
	repo       repository.OrderRepo
	alerts     awspkg.SNSPublisher
	alertTopic string
	metrics    *awspkg.MetricsClient
	log        *zap.Logger
	opts       Options
}

func NewSQSOrderConsumer(queue receiveQueue, deadLetter sendQueue, repo repository.OrderRepo, alerts awspkg.SNSPublisher, alertTopic string, metrics *awspkg.MetricsClient, log *zap.Logger, opts Options) *SQSOrderConsumer {
	opts.applyDefaults()
	return &SQSOrderConsumer{
		queue:      queue,
		deadLetter: deadLetter,
		repo:       repo,
		alerts:     alerts,
		alertTopic: alertTopic,
		metrics:    metrics,
		log:        log,
		opts:       opts,
	}
}

// Start polls the queue until ctx is cancelled.
func (c *SQSOrderConsumer) Start(ctx context.Context) {
	c.log.Info("order consumer started",
		zap.Duration("wait_time", c.opts.WaitTime),
		zap.Duration("visibility", c.opts.Visibility),
		zap.Int("max_receive_count", c.opts.MaxReceiveCount),
	)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("order consumer shutting down")
			return
		default:
			c.pollOnce(ctx)
		}
	}
}

func (c *SQSOrderConsumer) pollOnce(ctx context.Context) {
	msgs, err := c.queue.Receive(ctx, c.opts.MaxMessages, c.opts.WaitTime, c.opts.Visibility)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.log.Error("receive failed", zap.Error(err))
		time.Sleep(5 * time.Second)
		return
	}

	// Each message's outcome is independent; a failing message never blocks
	// the rest of the batch.
	for _, msg := range msgs {
		c.processMessage(ctx, msg)
	}
}

func (c *SQSOrderConsumer) processMessage(ctx context.Context, msg awspkg.Message) outcome {
	payload, err := decodePayload(msg.Body)
	if err != nil {
		// A payload that cannot be decoded will never succeed, so it goes
		// straight to the dead-letter queue instead of burning retries.
		c.log.Error("malformed payload, dead-lettering",
			zap.String("message_id", msg.ID),
			zap.Error(errs.Wrap(errs.ErrMalformedPayload, err)),
		)
		return c.moveToDeadLetter(ctx, msg, "malformed payload")
	}

	order := payload.ToOrder()

	stop := c.keepVisible(ctx, msg.ReceiptHandle)
	err = c.repo.Put(ctx, order)
	stop()

	if err != nil {
		if msg.ReceiveCount > c.opts.MaxReceiveCount {
			c.log.Error("retry bound exhausted, dead-lettering",
				zap.String("message_id", msg.ID),
				zap.String("user_name", order.UserName),
				zap.Int("receive_count", msg.ReceiveCount),
				zap.Error(err),
			)
			return c.moveToDeadLetter(ctx, msg, "retry bound exhausted")
		}

		// Transient store failure: leave the message alone and let the
		// visibility lease expire so the queue redelivers it.
		c.log.Warn("order persistence failed, message will be redelivered",
			zap.String("message_id", msg.ID),
			zap.String("user_name", order.UserName),
			zap.Int("receive_count", msg.ReceiveCount),
			zap.Error(errs.Wrap(errs.ErrTransientStore, err)),
		)
		return requeued
	}

	if err := c.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		// The order is persisted; if the ack fails the message comes back
		// and the idempotent key turns the redelivery into a no-op.
		c.log.Warn("failed to delete acked message", zap.String("message_id", msg.ID), zap.Error(err))
	}

	c.log.Info("order persisted",
		zap.String("user_name", order.UserName),
		zap.String("order_date", order.OrderDate),
		zap.Float64("total_price", order.TotalPrice),
	)
	if c.metrics.IsEnabled() {
		dims := map[string]string{"Service": "ordering-service"}
		_ = c.metrics.RecordCount(ctx, awspkg.MetricOrdersCreated, dims)
		_ = c.metrics.RecordValue(ctx, awspkg.MetricOrderAmount, order.TotalPrice, dims)
	}
	return acked
}

// moveToDeadLetter diverts the raw message body to the dead-letter queue and
// then removes it from the main queue. If the divert fails the message is
// left in place so the queue can redeliver it; it is never deleted without
// having landed somewhere durable first.
func (c *SQSOrderConsumer) moveToDeadLetter(ctx context.Context, msg awspkg.Message, reason string) outcome {
	if _, err := c.deadLetter.Send(ctx, msg.Body); err != nil {
		c.log.Error("failed to move message to dead-letter queue",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return requeued
	}
	if err := c.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		c.log.Warn("failed to delete dead-lettered message", zap.String("message_id", msg.ID), zap.Error(err))
	}

	if c.metrics.IsEnabled() {
		_ = c.metrics.RecordCount(ctx, awspkg.MetricDeadLettered, map[string]string{"Service": "ordering-service"})
	}
	c.alertOperator(ctx, msg, reason)
	return deadLettered
}

func (c *SQSOrderConsumer) alertOperator(ctx context.Context, msg awspkg.Message, reason string) {
	if c.alerts == nil || c.alertTopic == "" {
		return
	}
	alert, _ := json.Marshal(map[string]string{
		"messageId": msg.ID,
		"reason":    reason,
	})
	if err := c.alerts.Publish(ctx, c.alertTopic, alert); err != nil {
		c.log.Warn("failed to publish dead-letter alert", zap.Error(err))
	}
}

// keepVisible extends the message's visibility lease at half-window
// intervals while persistence runs, so a slow store write cannot outlive the
// lease and trigger a concurrent redelivery. The returned func stops the
// heartbeat.
func (c *SQSOrderConsumer) keepVisible(ctx context.Context, receiptHandle string) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(c.opts.Visibility / 2)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.queue.ChangeVisibility(ctx, receiptHandle, c.opts.Visibility); err != nil {
					c.log.Warn("failed to extend visibility lease", zap.Error(err))
				}
			}
		}
	}()
	return func() { close(done) }
}

// decodePayload parses a queue message body into a checkout payload. Bodies
// arriving through EventBridge are wrapped in the bus event shape with the
// payload under "detail"; locally-routed bodies are the bare payload.
func decodePayload(body string) (*models.CheckoutPayload, error) {
	raw := []byte(body)

	var busEvent struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &busEvent); err == nil && len(busEvent.Detail) > 0 {
		raw = busEvent.Detail
	}

	var payload models.CheckoutPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal checkout payload: %w", err)
	}
	if payload.UserName == "" || payload.OrderDate == "" {
		return nil, fmt.Errorf("payload missing order key fields (userName=%q, orderDate=%q)", payload.UserName, payload.OrderDate)
	}
	return &payload, nil
}
