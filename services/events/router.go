package events

import (
	"context"
	"fmt"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	"go.uber.org/zap"
)

// Destination is one delivery target for a matched envelope.
type Destination interface {
	Name() string
	Deliver(ctx context.Context, detail []byte) error
}

// QueueDestination forwards envelope details into an SQS queue.
type QueueDestination struct {
	queue *awspkg.Queue
	name  string
}

func NewQueueDestination(name string, queue *awspkg.Queue) *QueueDestination {
	return &QueueDestination{queue: queue, name: name}
}

func (d *QueueDestination) Name() string { return d.name }

func (d *QueueDestination) Deliver(ctx context.Context, detail []byte) error {
	if _, err := d.queue.Send(ctx, string(detail)); err != nil {
		return fmt.Errorf("deliver to queue %s: %w", d.name, err)
	}
	return nil
}

// Rule forwards envelopes whose source AND detail-type both match, with
// case-sensitive exact string comparison on each field.
type Rule struct {
	Source       string
	DetailType   string
	Destinations []Destination
}

func (r Rule) matches(env Envelope) bool {
	return r.Source == env.Source && r.DetailType == env.DetailType
}

// Router is the in-process rendition of the event bus rule table, used in
// local mode and tests. It holds no state beyond its rules and performs no
// transformation: a matched envelope's detail is forwarded verbatim to every
// destination of the matching rule; an unmatched envelope is dropped.
//
// A drop is invisible to the publisher (Publish still returns nil), so the
// router logs it and bumps the UnmatchedEvents metric: an unmatched
// envelope is a provisioning defect, and silent loss would be undebuggable.
type Router struct {
	rules   []Rule
	log     *zap.Logger
	metrics *awspkg.MetricsClient
}

func NewRouter(log *zap.Logger, metrics *awspkg.MetricsClient, rules ...Rule) *Router {
	return &Router{rules: rules, log: log, metrics: metrics}
}

// Publish implements Publisher. A destination failure is reported back so a
// checkout never believes an order is in flight when the queue refused it.
func (r *Router) Publish(ctx context.Context, env Envelope) error {
	matched := false
	for _, rule := range r.rules {
		if !rule.matches(env) {
			continue
		}
		matched = true
		for _, dest := range rule.Destinations {
			if err := dest.Deliver(ctx, env.Detail); err != nil {
				return err
			}
		}
	}

	if !matched {
		r.log.Warn("envelope matched no routing rule, dropping",
			zap.String("source", env.Source),
			zap.String("detail_type", env.DetailType),
		)
		if r.metrics.IsEnabled() {
			_ = r.metrics.RecordCount(ctx, awspkg.MetricUnmatchedEvents, map[string]string{
				"Source":     env.Source,
				"DetailType": env.DetailType,
			})
		}
	}
	return nil
}
