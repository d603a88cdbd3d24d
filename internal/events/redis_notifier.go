package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

// RedisNotifier fans events out to every instance through Redis pub/sub.
type RedisNotifier struct {
	publisher Publisher
	resolver  TopicResolver
	logger    *logger.Logger
}

func NewRedisNotifier(publisher Publisher, resolver TopicResolver, l *logger.Logger) *RedisNotifier {
	if resolver == nil {
		resolver = NewConversationTopicResolver()
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &RedisNotifier{publisher: publisher, resolver: resolver, logger: l.Named("notifier")}
}

func (n *RedisNotifier) Publish(ctx context.Context, event Event) error {
	topics := n.resolver.ResolveTopics(event)
	if len(topics) == 0 {
		return nil
	}

	envelope, err := NewEnvelope(event)
	if err != nil {
		return fmt.Errorf("failed to build envelope: %w", err)
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	var errs []error
	for _, topic := range topics {
		channel := ChannelForTopic(topic)
		if err := n.publisher.Publish(ctx, channel, data); err != nil {
			n.logger.WithContext(ctx).Warn("publish failed",
				zap.String("channel", channel),
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
