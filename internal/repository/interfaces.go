package repository

import (
	"context"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/domain/message"
)

type ConversationRepository interface {
	// Create inserts c unless a row with the same id or participant pair
	// exists. It reports false when the insert was skipped.
	Create(ctx context.Context, c *conversation.Conversation) (bool, error)
	GetByID(ctx context.Context, id string) (conversation.Conversation, error)
	GetByPair(ctx context.Context, userA, userB string) (conversation.Conversation, error)
	// GetForUpdate reads the row and holds a write lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (conversation.Conversation, error)
	ScanByParticipant(ctx context.Context, userID string, limit int) ([]conversation.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]conversation.Conversation, error)

	SetLastMessage(ctx context.Context, id string, lm conversation.LastMessage) error
	MarkLastMessageRead(ctx context.Context, id string, readerID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]message.Message, error)
	CountByConversation(ctx context.Context, conversationID string) (int64, error)
	// MarkReadForReader flips every unread message not sent by readerID and
	// returns how many rows changed.
	MarkReadForReader(ctx context.Context, conversationID, readerID string) (int64, error)
}
