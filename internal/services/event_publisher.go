package services

import (
	"context"
	"time"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/domain/message"
	"spark-chat/internal/events"
	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

// EventPublisher announces committed changes. Failures are logged and
// swallowed: the write already succeeded and subscribers catch up on the
// next snapshot.
type EventPublisher struct {
	notifier events.Notifier
	logger   *logger.Logger
}

func NewEventPublisher(notifier events.Notifier, l *logger.Logger) *EventPublisher {
	if l == nil {
		l = logger.NewNop()
	}
	return &EventPublisher{notifier: notifier, logger: l}
}

func (p *EventPublisher) PublishConversationCreated(ctx context.Context, c conversation.Conversation) {
	p.publish(ctx, events.ConversationCreatedEvent{
		BaseEvent: baseEvent(c.ID, c.Participants(), c.CreatedAt),
	})
}

func (p *EventPublisher) PublishMessageCreated(ctx context.Context, participants []string, m message.Message) {
	p.publish(ctx, events.MessageCreatedEvent{
		BaseEvent: baseEvent(m.ConversationID, participants, m.CreatedAt),
		MessageID: m.ID,
		SenderID:  m.SenderID,
	})
}

func (p *EventPublisher) PublishMessagesRead(ctx context.Context, conversationID string, participants []string, readerID string, count int64) {
	p.publish(ctx, events.MessagesReadEvent{
		BaseEvent: baseEvent(conversationID, participants, time.Now().UTC()),
		ReaderID:  readerID,
		Count:     count,
	})
}

func (p *EventPublisher) publish(ctx context.Context, event events.Event) {
	if p == nil || p.notifier == nil {
		return
	}
	// the caller may give up on the request once the write has committed
	ctx = context.WithoutCancel(ctx)
	if err := p.notifier.Publish(ctx, event); err != nil {
		p.logger.WithContext(ctx).Warn("event publish failed",
			zap.String("event_type", event.EventType()),
			zap.String("conversation_id", event.AggregateID()),
			zap.Error(err),
		)
	}
}

func baseEvent(conversationID string, participants []string, at time.Time) events.BaseEvent {
	return events.BaseEvent{
		ConversationID: conversationID,
		Participants:   participants,
		Timestamp:      at,
	}
}
