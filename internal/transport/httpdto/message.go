package httpdto

import (
	"time"

	"spark-chat/internal/domain/message"
)

type SendMessageRequest struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type MessageDTO struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	Type           string    `json:"type"`
	Read           bool      `json:"read"`
	Timestamp      time.Time `json:"timestamp"`
}

func FromMessage(m message.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		Type:           string(m.Type),
		Read:           m.Read,
		Timestamp:      m.CreatedAt,
	}
}

func FromMessageSlice(items []message.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(items))
	for _, m := range items {
		out = append(out, FromMessage(m))
	}
	return out
}

type MessageCountResponse struct {
	Count int `json:"count"`
}

type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

type IcebreakersResponse struct {
	Icebreakers []string `json:"icebreakers"`
}
