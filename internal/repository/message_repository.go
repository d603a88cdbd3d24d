package repository

import (
	"context"

	"spark-chat/internal/domain/message"

	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	return translateError(r.db.WithContext(ctx).Create(m).Error)
}

func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, translateError(err)
	}
	return messages, nil
}

func (r *PostgresMessageRepository) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *PostgresMessageRepository) MarkReadForReader(ctx context.Context, conversationID, readerID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
		UpdateColumn("read", true)
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}
