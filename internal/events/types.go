package events

import "time"

// Event type constants, formatted as domain.action
const (
	EventTypeConversationCreated = "conversation.created"
	EventTypeMessageCreated      = "message.created"
	EventTypeMessagesRead        = "messages.read"
)

// Event is a committed change to a conversation.
type Event interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

type BaseEvent struct {
	ConversationID string    `json:"conversation_id"`
	Participants   []string  `json:"participants"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e BaseEvent) AggregateID() string   { return e.ConversationID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

type ConversationCreatedEvent struct {
	BaseEvent
}

func (ConversationCreatedEvent) EventType() string { return EventTypeConversationCreated }

type MessageCreatedEvent struct {
	BaseEvent
	MessageID string `json:"message_id"`
	SenderID  string `json:"sender_id"`
}

func (MessageCreatedEvent) EventType() string { return EventTypeMessageCreated }

type MessagesReadEvent struct {
	BaseEvent
	ReaderID string `json:"reader_id"`
	Count    int64  `json:"count"`
}

func (MessagesReadEvent) EventType() string { return EventTypeMessagesRead }
