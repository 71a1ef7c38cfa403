package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

// EventBusClient publishes envelopes to an EventBridge event bus. Publish is
// accepted-not-delivered: a nil error means the bus took the entry, not that
// any rule matched it or that a target saw it.
type EventBusClient struct {
	client *eventbridge.Client
	bus    string
}

func NewEventBusClient(cfg sdkaws.Config, busName string) *EventBusClient {
	return &EventBusClient{
		client: eventbridge.NewFromConfig(cfg),
		bus:    busName,
	}
}

// PutEvent sends one entry with the given source/detail-type envelope.
func (c *EventBusClient) PutEvent(ctx context.Context, source, detailType string, detail []byte) error {
	out, err := c.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: &c.bus,
				Source:       &source,
				DetailType:   &detailType,
				Detail:       sdkaws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("eventbridge put-events failed: %w", err)
	}
	if out.FailedEntryCount > 0 {
		entry := out.Entries[0]
		return fmt.Errorf("eventbridge rejected entry: %s (%s)",
			sdkaws.ToString(entry.ErrorMessage), sdkaws.ToString(entry.ErrorCode))
	}
	return nil
}
