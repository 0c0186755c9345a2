package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type fakeTopic struct {
	arn  string
	body []byte
	err  error
}

func (f *fakeTopic) Publish(_ context.Context, topicArn string, message []byte) error {
	f.arn, f.body = topicArn, message
	return f.err
}

type fakeQueue struct {
	body string
	err  error
}

func (f *fakeQueue) SendMessage(_ context.Context, body string) error {
	f.body = body
	return f.err
}

func TestSNSEventPublisher(t *testing.T) {
	topic := &fakeTopic{}
	p := services.NewSNSEventPublisher(topic, "arn:aws:sns:us-east-1:000000000000:storefront-events", zap.NewNop())

	p.Publish(context.Background(), models.Event{EventType: models.EventOrderCreated, OrderNumber: "ORD-2026-1001", UserID: "u1"})

	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:storefront-events", topic.arn)
	var got models.Event
	require.NoError(t, json.Unmarshal(topic.body, &got))
	assert.Equal(t, models.EventOrderCreated, got.EventType)
	assert.Equal(t, "ORD-2026-1001", got.OrderNumber)
	assert.False(t, got.OccurredAt.IsZero(), "timestamp is filled in")
}

func TestEventPublishFailuresAreLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	queue := &fakeQueue{err: errors.New("queue unavailable")}
	p := services.NewSQSEventPublisher(queue, zap.New(core))

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), models.Event{EventType: models.EventOrderCancelled, UserID: "u1"})
	})
	assert.Contains(t, queue.body, `"eventType":"order_cancelled"`)
	assert.Equal(t, 1, logs.FilterMessage("failed to enqueue event").Len())
}
