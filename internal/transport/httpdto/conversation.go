package httpdto

import (
	"time"

	"spark-chat/internal/domain/conversation"
)

type CreateConversationRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	IsNew          bool   `json:"is_new"`
}

type ParticipantDetailDTO struct {
	Name          string `json:"name"`
	ContactHandle string `json:"contact_handle"`
	AvatarRef     string `json:"avatar_ref"`
}

type LastMessageDTO struct {
	Text      string    `json:"text"`
	SenderID  string    `json:"sender_id"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

type ConversationDTO struct {
	ID                 string                          `json:"id"`
	Participants       []string                        `json:"participants"`
	ParticipantDetails map[string]ParticipantDetailDTO `json:"participant_details"`
	LastMessage        *LastMessageDTO                 `json:"last_message,omitempty"`
	Unread             *bool                           `json:"unread,omitempty"`
	CreatedAt          time.Time                       `json:"created_at"`
	UpdatedAt          time.Time                       `json:"updated_at"`
}

func FromConversation(c conversation.Conversation) ConversationDTO {
	details := make(map[string]ParticipantDetailDTO, len(c.ParticipantDetails))
	for userID, d := range c.ParticipantDetails {
		details[userID] = ParticipantDetailDTO{
			Name:          d.Name,
			ContactHandle: d.ContactHandle,
			AvatarRef:     d.AvatarRef,
		}
	}
	dto := ConversationDTO{
		ID:                 c.ID,
		Participants:       c.Participants(),
		ParticipantDetails: details,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if lm := c.LastMessage(); lm != nil {
		dto.LastMessage = &LastMessageDTO{
			Text:      lm.Text,
			SenderID:  lm.SenderID,
			Timestamp: lm.Timestamp,
			Read:      lm.Read,
		}
	}
	return dto
}
