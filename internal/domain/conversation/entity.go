package conversation

import (
	"strconv"
	"time"
)

// ParticipantDetail is the display snapshot of a participant taken when the
// conversation is created. It is never re-synced.
type ParticipantDetail struct {
	Name          string `json:"name"`
	ContactHandle string `json:"contactHandle"`
	AvatarRef     string `json:"avatarRef"`
}

// PlaceholderName is shown for participants whose profile could not be read.
const PlaceholderName = "User"

// Placeholder is used when the profile service fails or has no record.
func Placeholder() ParticipantDetail {
	return ParticipantDetail{Name: PlaceholderName}
}

// Conversation represents the conversations table
type Conversation struct {
	ID                  string                       `gorm:"column:id;primaryKey;size:257"`
	ParticipantA        string                       `gorm:"column:participant_a;size:128;not null;uniqueIndex:idx_conversations_pair,priority:1;index:idx_conversations_participant_a"`
	ParticipantB        string                       `gorm:"column:participant_b;size:128;not null;uniqueIndex:idx_conversations_pair,priority:2;index:idx_conversations_participant_b"`
	ParticipantDetails  map[string]ParticipantDetail `gorm:"column:participant_details;type:text;serializer:json"`
	LastMessageText     *string                      `gorm:"column:last_message_text"`
	LastMessageSenderID *string                      `gorm:"column:last_message_sender_id;size:128"`
	LastMessageAt       *time.Time                   `gorm:"column:last_message_at"`
	LastMessageRead     bool                         `gorm:"column:last_message_read;not null;default:false"`
	CreatedAt           time.Time                    `gorm:"column:created_at;not null"`
	UpdatedAt           time.Time                    `gorm:"column:updated_at;not null;index"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// LastMessage is the cached pointer to the most recent message.
type LastMessage struct {
	Text      string
	SenderID  string
	Timestamp time.Time
	Read      bool
}

// LastMessage returns nil until the first message has been sent.
func (c Conversation) LastMessage() *LastMessage {
	if c.LastMessageSenderID == nil || c.LastMessageAt == nil {
		return nil
	}
	lm := &LastMessage{
		SenderID:  *c.LastMessageSenderID,
		Timestamp: *c.LastMessageAt,
		Read:      c.LastMessageRead,
	}
	if c.LastMessageText != nil {
		lm.Text = *c.LastMessageText
	}
	return lm
}

// Participants returns the pair in stored order.
func (c Conversation) Participants() []string {
	return []string{c.ParticipantA, c.ParticipantB}
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.ParticipantA == userID || c.ParticipantB == userID)
}

// OtherParticipant returns the participant that is not userID.
func (c Conversation) OtherParticipant(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// Unread reports whether the latest message is waiting for userID.
func (c Conversation) Unread(userID string) bool {
	lm := c.LastMessage()
	return lm != nil && lm.SenderID != userID && !lm.Read
}

// Badge renders an unread count for the tab indicator.
func Badge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 9:
		return "9+"
	default:
		return strconv.Itoa(count)
	}
}
