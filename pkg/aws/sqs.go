package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

const (
	receiveBatch      = 10
	receiveWait       = 20
	visibilityTimeout = 30
	maxReceiveBackoff = 30 * time.Second
)

// MessageHandler processes one message body. A nil return acknowledges it.
type MessageHandler func(ctx context.Context, body string) error

// SQSConsumer sends to and long-polls a single queue.
type SQSConsumer struct {
	client   *sqs.Client
	queueURL string
	logger   *zap.Logger
}

func NewSQSConsumer(cfg sdkaws.Config, queueURL string, logger *zap.Logger) *SQSConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSConsumer{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
		logger:   logger.With(zap.String("queue_url", queueURL)),
	}
}

// StartPolling receives messages until ctx is cancelled. Failed handlers leave
// the message on the queue so it is redelivered after the visibility timeout.
// Receive errors back off exponentially up to maxReceiveBackoff.
func (c *SQSConsumer) StartPolling(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("sqs consumer started")
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			c.logger.Info("sqs consumer stopped")
			return ctx.Err()
		}

		n, err := c.receive(ctx, handler)
		if err == nil {
			backoff = time.Second
			continue
		}
		if ctx.Err() != nil {
			continue
		}
		c.logger.Warn("sqs receive failed", zap.Error(err), zap.Duration("retry_in", backoff), zap.Int("handled", n))
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxReceiveBackoff)
	}
}

func (c *SQSConsumer) receive(ctx context.Context, handler MessageHandler) (int, error) {
	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            sdkaws.String(c.queueURL),
		MaxNumberOfMessages: receiveBatch,
		WaitTimeSeconds:     receiveWait,
		VisibilityTimeout:   visibilityTimeout,
	})
	if err != nil {
		return 0, fmt.Errorf("receive: %w", err)
	}

	handled := 0
	for _, msg := range out.Messages {
		id := sdkaws.ToString(msg.MessageId)
		if msg.Body == nil {
			c.logger.Warn("skipping message without body", zap.String("message_id", id))
			continue
		}
		if err := handler(ctx, *msg.Body); err != nil {
			c.logger.Warn("message handler failed", zap.String("message_id", id), zap.Error(err))
			continue
		}
		if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      sdkaws.String(c.queueURL),
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			c.logger.Warn("ack failed", zap.String("message_id", id), zap.Error(err))
			continue
		}
		handled++
	}
	return handled, nil
}

// SendMessage enqueues body.
func (c *SQSConsumer) SendMessage(ctx context.Context, body string) error {
	if _, err := c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(c.queueURL),
		MessageBody: sdkaws.String(body),
	}); err != nil {
		return fmt.Errorf("send to %s: %w", c.queueURL, err)
	}
	return nil
}
