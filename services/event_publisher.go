package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khushipatel79/e-commerce-BE/models"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
)

// EventPublisher emits domain events. Publishing is best effort and never fails the
// operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event)
}

// QueueSender is the send half of an SQS queue.
type QueueSender interface {
	SendMessage(ctx context.Context, body string) error
}

type snsEventPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

func NewSNSEventPublisher(client aws_pkg.SNSPublisher, topicArn string, logger *zap.Logger) EventPublisher {
	return &snsEventPublisher{client: client, topicArn: topicArn, logger: logger}
}

func (p *snsEventPublisher) Publish(ctx context.Context, event models.Event) {
	body, ok := marshalEvent(event, p.logger)
	if !ok {
		return
	}
	if err := p.client.Publish(ctx, p.topicArn, body); err != nil {
		p.logger.Warn("failed to publish event", zap.String("event", event.EventType), zap.Error(err))
	}
}

type sqsEventPublisher struct {
	queue  QueueSender
	logger *zap.Logger
}

func NewSQSEventPublisher(queue QueueSender, logger *zap.Logger) EventPublisher {
	return &sqsEventPublisher{queue: queue, logger: logger}
}

func (p *sqsEventPublisher) Publish(ctx context.Context, event models.Event) {
	body, ok := marshalEvent(event, p.logger)
	if !ok {
		return
	}
	if err := p.queue.SendMessage(ctx, string(body)); err != nil {
		p.logger.Warn("failed to enqueue event", zap.String("event", event.EventType), zap.Error(err))
	}
}

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher { return noopEventPublisher{} }

func (noopEventPublisher) Publish(context.Context, models.Event) {}

func marshalEvent(event models.Event, logger *zap.Logger) ([]byte, bool) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", zap.String("event", event.EventType), zap.Error(err))
		return nil, false
	}
	return body, true
}

// eventPublishTimeout bounds a single background publish.
const eventPublishTimeout = 5 * time.Second

var eventsInFlight sync.WaitGroup

// publishDetached hands the event to a background goroutine. The publish gets its
// own deadline so a stalled broker never holds up the caller's response.
func publishDetached(ctx context.Context, p EventPublisher, event models.Event) {
	if p == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	eventsInFlight.Add(1)
	go func() {
		defer eventsInFlight.Done()
		defer cancel()
		p.Publish(pubCtx, event)
	}()
}

// WaitForEvents blocks until background publishes finish or ctx is done.
func WaitForEvents(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		eventsInFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
