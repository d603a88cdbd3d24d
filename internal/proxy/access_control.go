package proxy

import (
	"context"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/identity"
	"spark-chat/internal/repository"
	spark_errors "spark-chat/pkg/errors"
)

// AccessControl guards conversation reads. Only the two participants may
// see a conversation or its messages.
type AccessControl struct {
	conversationRepo repository.ConversationRepository
}

func NewAccessControl(conversationRepo repository.ConversationRepository) *AccessControl {
	return &AccessControl{conversationRepo: conversationRepo}
}

// CanViewConversation returns the conversation when userID participates in it.
// A derived id names its participants, so outsiders are turned away without
// a lookup. Legacy ids always go to the store.
func (a *AccessControl) CanViewConversation(ctx context.Context, userID, conversationID string) (conversation.Conversation, error) {
	if conversationID == "" {
		return conversation.Conversation{}, spark_errors.ErrInvalidInput
	}
	if first, second, ok := identity.ParticipantsOf(conversationID); ok && userID != first && userID != second {
		return conversation.Conversation{}, spark_errors.ErrForbidden
	}
	c, err := a.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return conversation.Conversation{}, err
	}
	if !c.HasParticipant(userID) {
		return conversation.Conversation{}, spark_errors.ErrForbidden
	}
	return c, nil
}
