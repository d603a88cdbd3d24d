package httpdto

import "spark-chat/internal/services"

type InboxResponse struct {
	Conversations []ConversationDTO `json:"conversations"`
	UnreadCount   int               `json:"unread_count"`
	Badge         string            `json:"badge"`
}

type UnreadResponse struct {
	UnreadCount int    `json:"unread_count"`
	Badge       string `json:"badge"`
}

func FromInbox(inbox services.Inbox) InboxResponse {
	out := InboxResponse{
		Conversations: make([]ConversationDTO, 0, len(inbox.Conversations)),
		UnreadCount:   inbox.UnreadCount,
		Badge:         inbox.Badge,
	}
	for _, entry := range inbox.Conversations {
		dto := FromConversation(entry.Conversation)
		unread := entry.Unread
		dto.Unread = &unread
		out.Conversations = append(out.Conversations, dto)
	}
	return out
}
