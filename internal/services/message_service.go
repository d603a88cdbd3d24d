package services

import (
	"context"
	"time"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/domain/message"
	"spark-chat/internal/proxy"
	"spark-chat/internal/realtime"
	"spark-chat/internal/repository"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MessageService struct {
	db          *gorm.DB
	messageRepo repository.MessageRepository
	access      *proxy.AccessControl
	hub         *realtime.Hub
	publisher   *EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewMessageService(db *gorm.DB, messageRepo repository.MessageRepository, access *proxy.AccessControl, hub *realtime.Hub, publisher *EventPublisher, l *logger.Logger) *MessageService {
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageService{
		db:          db,
		messageRepo: messageRepo,
		access:      access,
		hub:         hub,
		publisher:   publisher,
		logger:      l,
		now:         storeNow,
	}
}

type SendInput struct {
	ConversationID string
	SenderID       string
	Text           string
	Type           string
}

// Send appends a message and moves the conversation's last message pointer
// in the same transaction. Sends are not idempotent and must not be retried
// automatically.
func (s *MessageService) Send(ctx context.Context, in SendInput) (message.Message, error) {
	text, err := message.NormalizeText(in.Text)
	if err != nil {
		return message.Message{}, err
	}
	msgType, err := message.ParseType(in.Type)
	if err != nil {
		return message.Message{}, err
	}
	if in.ConversationID == "" {
		return message.Message{}, spark_errors.ErrInvalidInput
	}

	var (
		msg          message.Message
		participants []string
	)
	err = repository.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		conversationRepo := repository.NewConversationRepository(tx)
		messageRepo := repository.NewMessageRepository(tx)

		c, err := conversationRepo.GetForUpdate(ctx, in.ConversationID)
		if err != nil {
			return err
		}
		if !c.HasParticipant(in.SenderID) {
			return spark_errors.ErrForbidden
		}

		// never go back in time relative to the conversation, so timestamp
		// order matches insertion order even if clocks disagree
		ts := s.now()
		if ts.Before(c.UpdatedAt) {
			ts = c.UpdatedAt
		}

		msg = message.Message{
			ID:             uuid.NewString(),
			ConversationID: c.ID,
			SenderID:       in.SenderID,
			Text:           text,
			Type:           msgType,
			Read:           false,
			CreatedAt:      ts,
		}
		if err := messageRepo.Create(ctx, &msg); err != nil {
			return err
		}
		participants = c.Participants()

		return conversationRepo.SetLastMessage(ctx, c.ID, conversation.LastMessage{
			Text:      text,
			SenderID:  in.SenderID,
			Timestamp: ts,
			Read:      false,
		})
	})
	if err != nil {
		s.logger.WithContext(ctx).Warn("send failed",
			zap.String("conversation_id", in.ConversationID), zap.Error(err))
		return message.Message{}, err
	}

	s.publisher.PublishMessageCreated(ctx, participants, msg)
	return msg, nil
}

// Subscribe delivers the full ascending message list now and after every
// change until the returned function is called.
func (s *MessageService) Subscribe(ctx context.Context, conversationID, viewerID string, onChange func([]message.Message)) (realtime.Unsubscribe, error) {
	if _, err := s.access.CanViewConversation(ctx, viewerID, conversationID); err != nil {
		return nil, err
	}
	return realtime.Watch(s.hub, realtime.ConversationTopic(conversationID), func(ctx context.Context) ([]message.Message, error) {
		return s.messageRepo.ListByConversation(ctx, conversationID)
	}, onChange), nil
}

// List returns the current snapshot once.
func (s *MessageService) List(ctx context.Context, conversationID, viewerID string) ([]message.Message, error) {
	if _, err := s.access.CanViewConversation(ctx, viewerID, conversationID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByConversation(ctx, conversationID)
}

// Count is used to decide whether to offer conversation starters.
func (s *MessageService) Count(ctx context.Context, conversationID, viewerID string) (int, error) {
	if _, err := s.access.CanViewConversation(ctx, viewerID, conversationID); err != nil {
		return 0, err
	}
	count, err := s.messageRepo.CountByConversation(ctx, conversationID)
	return int(count), err
}
