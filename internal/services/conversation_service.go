package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/identity"
	"spark-chat/internal/proxy"
	"spark-chat/internal/repository"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

// DefaultLegacyScanLimit bounds the scan for conversations created before
// ids were derived from the participant pair.
const DefaultLegacyScanLimit = 500

type ConversationService struct {
	repo            repository.ConversationRepository
	access          *proxy.AccessControl
	profiles        ProfileProvider
	publisher       *EventPublisher
	logger          *logger.Logger
	legacyScanLimit int
	now             func() time.Time
}

func NewConversationService(repo repository.ConversationRepository, access *proxy.AccessControl, profiles ProfileProvider, publisher *EventPublisher, l *logger.Logger, legacyScanLimit int) *ConversationService {
	if l == nil {
		l = logger.NewNop()
	}
	if legacyScanLimit <= 0 {
		legacyScanLimit = DefaultLegacyScanLimit
	}
	return &ConversationService{
		repo:            repo,
		access:          access,
		profiles:        profiles,
		publisher:       publisher,
		logger:          l,
		legacyScanLimit: legacyScanLimit,
		now:             storeNow,
	}
}

// GetOrCreate returns the conversation between currentUser and otherUser,
// creating it on first contact. isNew is true only for the caller whose
// insert created the row; concurrent callers all get the same id.
func (s *ConversationService) GetOrCreate(ctx context.Context, currentUser, otherUser string) (string, bool, error) {
	if err := identity.ValidateUserID(currentUser); err != nil {
		return "", false, err
	}
	if err := identity.ValidateUserID(otherUser); err != nil {
		return "", false, err
	}
	if currentUser == otherUser {
		return "", false, fmt.Errorf("%w: cannot start a conversation with yourself", spark_errors.ErrInvalidInput)
	}

	id := identity.Resolve(currentUser, otherUser)
	existing, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, spark_errors.ErrNotFound) {
		return "", false, err
	}

	legacyID, found, err := s.findLegacy(ctx, currentUser, otherUser)
	if err != nil {
		return "", false, err
	}
	if found {
		return legacyID, false, nil
	}

	now := s.now()
	first, second := identity.SortedPair(currentUser, otherUser)
	c := conversation.Conversation{
		ID:           id,
		ParticipantA: first,
		ParticipantB: second,
		ParticipantDetails: map[string]conversation.ParticipantDetail{
			currentUser: s.participantDetail(ctx, currentUser),
			otherUser:   s.participantDetail(ctx, otherUser),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, &c)
	if err != nil && !errors.Is(err, spark_errors.ErrConflict) {
		return "", false, err
	}
	if !created {
		// lost the race, the winner's row is authoritative
		winner, err := s.readWinner(ctx, id, currentUser, otherUser)
		if err != nil {
			return "", false, err
		}
		return winner.ID, false, nil
	}

	s.logger.WithContext(ctx).Info("conversation created", zap.String("conversation_id", id))
	s.publisher.PublishConversationCreated(ctx, c)
	return id, true, nil
}

// findLegacy scans the user's conversations for one with otherUser. Only
// needed for rows whose id was not derived from the pair.
func (s *ConversationService) findLegacy(ctx context.Context, currentUser, otherUser string) (string, bool, error) {
	candidates, err := s.repo.ScanByParticipant(ctx, currentUser, s.legacyScanLimit)
	if err != nil {
		return "", false, err
	}
	for _, c := range candidates {
		if c.HasParticipant(otherUser) {
			return c.ID, true, nil
		}
	}
	return "", false, nil
}

func (s *ConversationService) readWinner(ctx context.Context, id, currentUser, otherUser string) (conversation.Conversation, error) {
	winner, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return winner, nil
	}
	if !errors.Is(err, spark_errors.ErrNotFound) {
		return conversation.Conversation{}, err
	}
	return s.repo.GetByPair(ctx, currentUser, otherUser)
}

// participantDetail never fails: missing or unreachable profiles degrade
// to the placeholder.
func (s *ConversationService) participantDetail(ctx context.Context, userID string) conversation.ParticipantDetail {
	if s.profiles == nil {
		return conversation.Placeholder()
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, spark_errors.ErrNotFound) {
			s.logger.WithContext(ctx).Warn("profile lookup failed, using placeholder",
				zap.String("profile_user_id", userID), zap.Error(err))
		}
		return conversation.Placeholder()
	}
	detail := conversation.ParticipantDetail{
		Name:          profile.Name,
		ContactHandle: profile.ContactHandle,
		AvatarRef:     profile.AvatarRef,
	}
	if detail.Name == "" {
		detail.Name = conversation.PlaceholderName
	}
	return detail
}

// Get returns a conversation the viewer participates in.
func (s *ConversationService) Get(ctx context.Context, conversationID, viewerID string) (conversation.Conversation, error) {
	return s.access.CanViewConversation(ctx, viewerID, conversationID)
}

// ListForUser returns the user's conversations, most recently updated first.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	if err := identity.ValidateUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.ListByParticipant(ctx, userID)
}

// storeNow is truncated to the precision Postgres keeps so that values read
// back compare equal to the ones written.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
