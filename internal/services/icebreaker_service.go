package services

import (
	"context"
	"fmt"

	"spark-chat/internal/proxy"
	"spark-chat/internal/repository"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultIcebreakerCount = 3
	MaxIcebreakerCount     = 5
)

// FallbackIcebreakers are offered when the generator is unavailable.
var FallbackIcebreakers = []string{
	"Hey! Your profile caught my attention. What do you like to do for fun?",
	"Hi there! I'd love to get to know you better. What's your favorite way to spend a weekend?",
	"Hello! I noticed we might have some things in common. What are you passionate about?",
}

type IcebreakerService struct {
	access      *proxy.AccessControl
	messageRepo repository.MessageRepository
	generator   IcebreakerGenerator
	logger      *logger.Logger
}

func NewIcebreakerService(access *proxy.AccessControl, messageRepo repository.MessageRepository, generator IcebreakerGenerator, l *logger.Logger) *IcebreakerService {
	if l == nil {
		l = logger.NewNop()
	}
	return &IcebreakerService{access: access, messageRepo: messageRepo, generator: generator, logger: l}
}

// Suggest returns up to n openers from requester to the other participant.
// Conversations that already have messages get none. n of 0 means the default.
func (s *IcebreakerService) Suggest(ctx context.Context, conversationID, requesterID string, n int) ([]string, error) {
	if n == 0 {
		n = DefaultIcebreakerCount
	}
	if n < 1 || n > MaxIcebreakerCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", spark_errors.ErrInvalidInput, MaxIcebreakerCount)
	}

	c, err := s.access.CanViewConversation(ctx, requesterID, conversationID)
	if err != nil {
		return nil, err
	}
	count, err := s.messageRepo.CountByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return []string{}, nil
	}

	if s.generator != nil {
		suggestions, err := s.generator.Generate(ctx, requesterID, c.OtherParticipant(requesterID), n)
		if err == nil && len(suggestions) > 0 {
			if len(suggestions) > n {
				suggestions = suggestions[:n]
			}
			return suggestions, nil
		}
		s.logger.WithContext(ctx).Warn("icebreaker generation failed, using fallback",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}

	fallback := FallbackIcebreakers
	if n < len(fallback) {
		fallback = fallback[:n]
	}
	return append([]string(nil), fallback...), nil
}
