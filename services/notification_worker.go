package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/khushipatel79/e-commerce-BE/models"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
	"github.com/khushipatel79/e-commerce-BE/sender"
)

const sendAttempts = 3

type notificationConfig struct {
	template string
	subject  string
}

var notificationConfigs = map[string]notificationConfig{
	models.EventOrderCreated:       {template: sender.TemplateOrderCreated, subject: "Order Confirmed!"},
	models.EventOrderStatusUpdated: {template: sender.TemplateOrderStatusUpdated, subject: "Your order status has changed"},
	models.EventOrderCancelled:     {template: sender.TemplateOrderCancelled, subject: "Your order was cancelled"},
	models.EventUserRegistered:     {template: sender.TemplateWelcome, subject: "Welcome!"},
}

// NotificationWorker turns domain events read from the notifications queue into emails.
type NotificationWorker struct {
	users   repository.UserRepository
	mailer  sender.EmailSender
	metrics aws_pkg.MetricsRecorder
	logger  *zap.Logger
	backoff time.Duration
}

func NewNotificationWorker(users repository.UserRepository, mailer sender.EmailSender, metrics aws_pkg.MetricsRecorder, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{
		users:   users,
		mailer:  mailer,
		metrics: metrics,
		logger:  logger,
		backoff: time.Second,
	}
}

// snsEnvelope unwraps the SNS to SQS message wrapper.
type snsEnvelope struct {
	Message string `json:"Message"`
}

func decodeEvent(body string) (*models.Event, error) {
	payload := body
	var envelope snsEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		payload = envelope.Message
	}
	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	if event.EventType == "" {
		return nil, fmt.Errorf("event type missing")
	}
	return &event, nil
}

// Handle processes one queue message. Returning nil deletes the message, so malformed or
// irrelevant messages are acknowledged and only delivery failures are retried.
func (w *NotificationWorker) Handle(ctx context.Context, body string) error {
	event, err := decodeEvent(body)
	if err != nil {
		w.logger.Error("failed to decode event", zap.Error(err))
		return nil
	}
	cfg, ok := notificationConfigs[event.EventType]
	if !ok {
		w.logger.Debug("ignoring event", zap.String("event_type", event.EventType))
		return nil
	}

	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		w.logger.Error("event has invalid user id", zap.String("user_id", event.UserID))
		return nil
	}
	user, err := w.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			w.logger.Warn("event recipient no longer exists", zap.String("user_id", event.UserID))
			return nil
		}
		return err
	}

	body, err = sender.Render(cfg.template, map[string]any{
		"Name":        user.Name,
		"OrderNumber": event.OrderNumber,
		"Status":      event.Status,
		"TotalPrice":  event.TotalPrice,
	})
	if err != nil {
		w.logger.Error("failed to render notification", zap.String("template", cfg.template), zap.Error(err))
		return nil
	}

	if err := w.sendWithRetry(ctx, user.Email, cfg.subject, body); err != nil {
		w.logger.Error("failed to deliver notification",
			zap.String("event_type", event.EventType),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		return err
	}

	if w.metrics != nil {
		_ = w.metrics.RecordCount(ctx, aws_pkg.MetricSQSMessages, map[string]string{"EventType": event.EventType})
	}
	w.logger.Info("notification sent",
		zap.String("event_type", event.EventType),
		zap.String("order_number", event.OrderNumber),
	)
	return nil
}

func (w *NotificationWorker) sendWithRetry(ctx context.Context, to, subject, body string) error {
	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if _, err := w.mailer.SendEmail(ctx, to, subject, body); err != nil {
			lastErr = err
			w.logger.Warn("send attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			if attempt < sendAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(w.backoff * time.Duration(attempt)):
				}
			}
			continue
		}
		return nil
	}
	return lastErr
}
