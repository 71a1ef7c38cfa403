package events

import (
	"context"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
)

// Publisher hands an envelope to the event channel. A nil error means
// "accepted by the channel", never "delivered to a consumer": delivery
// past the router is fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// EventBridgePublisher publishes envelopes to a real EventBridge bus. The
// rule table lives in AWS, so matching and fan-out happen outside the
// process.
type EventBridgePublisher struct {
	client *awspkg.EventBusClient
}

func NewEventBridgePublisher(client *awspkg.EventBusClient) *EventBridgePublisher {
	return &EventBridgePublisher{client: client}
}

func (p *EventBridgePublisher) Publish(ctx context.Context, env Envelope) error {
	return p.client.PutEvent(ctx, env.Source, env.DetailType, env.Detail)
}
