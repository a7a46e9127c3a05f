// Package events publishes order lifecycle events to SNS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

const (
	OrderPlaced    = "order.placed"
	OrderPaid      = "order.paid"
	publishTimeout = 5 * time.Second
)

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewSNSPublisher(awsCfg aws.Config, topicARN string) (*SNSPublisher, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("ORDER_EVENTS_TOPIC_ARN not set")
	}
	return &SNSPublisher{client: sns.NewFromConfig(awsCfg), topicARN: topicARN}, nil
}

func (p *SNSPublisher) Publish(ctx context.Context, eventType string, payload map[string]any) error {
	payload["event_type"] = eventType

	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(msgBytes)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventType),
			},
		},
	})
	return err
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]any) error
}

// Bus publishes best-effort on a detached goroutine. A nil publisher disables it.
type Bus struct {
	pub Publisher
	log *zap.Logger
}

func NewBus(pub Publisher, log *zap.Logger) *Bus { return &Bus{pub: pub, log: log} }

func (b *Bus) Emit(eventType string, payload map[string]any) {
	if b.pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := b.pub.Publish(ctx, eventType, payload); err != nil {
			b.log.Warn("event publish failed", zap.String("event", eventType), zap.Error(err))
			return
		}
		b.log.Debug("event published", zap.String("event", eventType))
	}()
}
