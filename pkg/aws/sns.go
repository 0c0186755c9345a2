package aws

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublisher fans a domain event out to a topic.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// eventMessageGroup keeps order events in a single FIFO group.
const eventMessageGroup = "storefront-events"

type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

// Publish sends message to topicArn. FIFO topics get a group id and a
// content based deduplication id so retried publishes are collapsed.
func (s *SNSClient) Publish(ctx context.Context, topicArn string, message []byte) error {
	if topicArn == "" {
		return errors.New("sns: topic arn not configured")
	}
	in := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if strings.HasSuffix(topicArn, ".fifo") {
		sum := sha256.Sum256(message)
		in.MessageGroupId = sdkaws.String(eventMessageGroup)
		in.MessageDeduplicationId = sdkaws.String(hex.EncodeToString(sum[:]))
	}
	if _, err := s.client.Publish(ctx, in); err != nil {
		return fmt.Errorf("publish to %s: %w", topicArn, err)
	}
	return nil
}
