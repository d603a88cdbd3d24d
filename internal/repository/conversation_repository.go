package repository

import (
	"context"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/identity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) Create(ctx context.Context, c *conversation.Conversation) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id string) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return conversation.Conversation{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetByPair(ctx context.Context, userA, userB string) (conversation.Conversation, error) {
	a, b := identity.SortedPair(userA, userB)
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", a, b).
		First(&c).Error
	if err != nil {
		return conversation.Conversation{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetForUpdate(ctx context.Context, id string) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return conversation.Conversation{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresConversationRepository) ScanByParticipant(ctx context.Context, userID string, limit int) ([]conversation.Conversation, error) {
	var conversations []conversation.Conversation
	q := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("updated_at DESC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&conversations).Error; err != nil {
		return nil, translateError(err)
	}
	return conversations, nil
}

func (r *PostgresConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	return r.ScanByParticipant(ctx, userID, 0)
}

// SetLastMessage updates the cached last message and updated_at in one statement.
func (r *PostgresConversationRepository) SetLastMessage(ctx context.Context, id string, lm conversation.LastMessage) error {
	res := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"last_message_text":      lm.Text,
			"last_message_sender_id": lm.SenderID,
			"last_message_at":        lm.Timestamp,
			"last_message_read":      lm.Read,
			"updated_at":             lm.Timestamp,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkLastMessageRead leaves updated_at untouched so reading never reorders the inbox.
func (r *PostgresConversationRepository) MarkLastMessageRead(ctx context.Context, id string, readerID string) error {
	res := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("id = ? AND last_message_sender_id IS NOT NULL AND last_message_sender_id <> ?", id, readerID).
		UpdateColumn("last_message_read", true)
	return translateError(res.Error)
}
