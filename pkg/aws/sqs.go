package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Queue wraps a single SQS queue with the at-least-once contract the order
// pipeline relies on: Send, Receive with a visibility lease, Delete to ack,
// ChangeVisibility to extend the lease mid-flight.
type Queue struct {
	client *sqs.Client
	url    string
}

// Message is one received queue message. ReceiveCount is the approximate
// number of times SQS has delivered it, used for poison-message containment.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
	ReceiveCount  int
}

func NewQueue(cfg aws.Config, queueURL string) *Queue {
	return &Queue{
		client: sqs.NewFromConfig(cfg),
		url:    queueURL,
	}
}

// NewQueueWithClient injects an existing SQS client; used when several
// queues (main + dead-letter) share one client.
func NewQueueWithClient(client *sqs.Client, queueURL string) *Queue {
	return &Queue{client: client, url: queueURL}
}

func (q *Queue) URL() string { return q.url }

// Send enqueues a single message body and returns the SQS message id.
func (q *Queue) Send(ctx context.Context, body string) (string, error) {
	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &q.url,
		MessageBody: &body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// Receive long-polls for up to maxMessages, waiting at most wait. Each
// returned message is invisible to other receivers for visibility; an
// unacked message reappears after that window.
func (q *Queue) Receive(ctx context.Context, maxMessages int32, wait, visibility time.Duration) ([]Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &q.url,
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     int32(wait / time.Second),
		VisibilityTimeout:   int32(visibility / time.Second),
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		count := 1
		if raw, ok := m.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				count = n
			}
		}
		msgs = append(msgs, Message{
			ID:            aws.ToString(m.MessageId),
			Body:          aws.ToString(m.Body),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			ReceiveCount:  count,
		})
	}
	return msgs, nil
}

// Delete acknowledges a message so it is never redelivered.
func (q *Queue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &q.url,
		ReceiptHandle: &receiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// ChangeVisibility extends (or shortens) the visibility lease of an
// in-flight message.
func (q *Queue) ChangeVisibility(ctx context.Context, receiptHandle string, d time.Duration) error {
	_, err := q.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          &q.url,
		ReceiptHandle:     &receiptHandle,
		VisibilityTimeout: int32(d / time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to change message visibility: %w", err)
	}
	return nil
}
