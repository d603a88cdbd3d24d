package services

import (
	"context"

	"spark-chat/internal/repository"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReadService struct {
	db        *gorm.DB
	publisher *EventPublisher
	logger    *logger.Logger
}

func NewReadService(db *gorm.DB, publisher *EventPublisher, l *logger.Logger) *ReadService {
	if l == nil {
		l = logger.NewNop()
	}
	return &ReadService{db: db, publisher: publisher, logger: l}
}

// MarkRead marks every unread message from the other participant as read
// and returns how many changed. Calling it again with nothing new is a no-op.
func (s *ReadService) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	if conversationID == "" || readerID == "" {
		return 0, spark_errors.ErrInvalidInput
	}

	var (
		marked       int64
		participants []string
	)
	err := repository.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		conversationRepo := repository.NewConversationRepository(tx)
		messageRepo := repository.NewMessageRepository(tx)

		// holding the row keeps a concurrent send from landing between the
		// two updates below
		c, err := conversationRepo.GetForUpdate(ctx, conversationID)
		if err != nil {
			return err
		}
		if !c.HasParticipant(readerID) {
			return spark_errors.ErrForbidden
		}
		participants = c.Participants()

		marked, err = messageRepo.MarkReadForReader(ctx, conversationID, readerID)
		if err != nil {
			return err
		}
		if marked == 0 {
			return nil
		}
		return conversationRepo.MarkLastMessageRead(ctx, conversationID, readerID)
	})
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		s.logger.WithContext(ctx).Debug("messages marked read",
			zap.String("conversation_id", conversationID),
			zap.Int64("count", marked),
		)
		s.publisher.PublishMessagesRead(ctx, conversationID, participants, readerID, marked)
	}
	return marked, nil
}
