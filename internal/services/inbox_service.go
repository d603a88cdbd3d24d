package services

import (
	"context"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/identity"
	"spark-chat/internal/realtime"
	"spark-chat/internal/repository"
)

// InboxEntry is one conversation as seen by the inbox owner.
type InboxEntry struct {
	Conversation conversation.Conversation
	Unread       bool
}

// Inbox is the user's conversation list, most recent first. UnreadCount
// counts conversations, not messages.
type Inbox struct {
	Conversations []InboxEntry
	UnreadCount   int
	Badge         string
}

type InboxService struct {
	repo repository.ConversationRepository
	hub  *realtime.Hub
}

func NewInboxService(repo repository.ConversationRepository, hub *realtime.Hub) *InboxService {
	return &InboxService{repo: repo, hub: hub}
}

func (s *InboxService) Get(ctx context.Context, userID string) (Inbox, error) {
	if err := identity.ValidateUserID(userID); err != nil {
		return Inbox{}, err
	}
	conversations, err := s.repo.ListByParticipant(ctx, userID)
	if err != nil {
		return Inbox{}, err
	}
	return BuildInbox(userID, conversations), nil
}

// Subscribe delivers the inbox now and again whenever one of the user's
// conversations changes.
func (s *InboxService) Subscribe(ctx context.Context, userID string, onChange func(Inbox)) (realtime.Unsubscribe, error) {
	if err := identity.ValidateUserID(userID); err != nil {
		return nil, err
	}
	return realtime.Watch(s.hub, realtime.InboxTopic(userID), func(ctx context.Context) (Inbox, error) {
		conversations, err := s.repo.ListByParticipant(ctx, userID)
		if err != nil {
			return Inbox{}, err
		}
		return BuildInbox(userID, conversations), nil
	}, onChange), nil
}

// BuildInbox derives unread flags and the badge from an ordered list.
func BuildInbox(userID string, conversations []conversation.Conversation) Inbox {
	inbox := Inbox{Conversations: make([]InboxEntry, 0, len(conversations))}
	for _, c := range conversations {
		unread := c.Unread(userID)
		if unread {
			inbox.UnreadCount++
		}
		inbox.Conversations = append(inbox.Conversations, InboxEntry{Conversation: c, Unread: unread})
	}
	inbox.Badge = conversation.Badge(inbox.UnreadCount)
	return inbox
}
