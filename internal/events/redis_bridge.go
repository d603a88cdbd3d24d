package events

import (
	"context"
	"encoding/json"
	"time"

	"spark-chat/internal/realtime"
	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

// RedisBridge turns messages on the Redis bus into hub notifications.
// Every instance runs one.
type RedisBridge struct {
	subscriber Subscriber
	hub        *realtime.Hub
	logger     *logger.Logger
	retryDelay time.Duration
}

func NewRedisBridge(subscriber Subscriber, hub *realtime.Hub, l *logger.Logger) *RedisBridge {
	if l == nil {
		l = logger.NewNop()
	}
	return &RedisBridge{
		subscriber: subscriber,
		hub:        hub,
		logger:     l.Named("redis_bridge"),
		retryDelay: time.Second,
	}
}

// Run blocks until ctx is cancelled. When the subscription drops it
// resubscribes and refreshes every local subscription, since notifications
// may have been missed in between.
func (b *RedisBridge) Run(ctx context.Context) error {
	for {
		err := b.subscriber.Subscribe(ctx, []string{ChannelPattern}, b.handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.logger.Logger.Warn("redis subscription dropped, resubscribing", zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.retryDelay):
		}
		b.hub.NotifyAll()
	}
}

// handle notifies the channel's topic. The envelope is only read for
// logging; an unreadable one still triggers a refresh.
func (b *RedisBridge) handle(channel string, payload []byte) {
	topic := TopicForChannel(channel)

	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		b.logger.Logger.Warn("undecodable envelope",
			zap.String("channel", channel),
			zap.Error(err),
		)
	} else {
		b.logger.Logger.Debug("event received",
			zap.String("topic", topic),
			zap.String("event_type", envelope.EventType),
			zap.String("aggregate_id", envelope.AggregateID),
		)
	}

	b.hub.Notify(topic)
}
