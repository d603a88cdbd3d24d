package message

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	spark_errors "spark-chat/pkg/errors"
)

// MaxTextLength is the limit in characters after trimming.
const MaxTextLength = 1000

type Type string

const (
	TypeText       Type = "text"
	TypeIcebreaker Type = "icebreaker"
)

// ParseType defaults an empty value to TypeText.
func ParseType(value string) (Type, error) {
	switch Type(value) {
	case "":
		return TypeText, nil
	case TypeText, TypeIcebreaker:
		return Type(value), nil
	default:
		return "", fmt.Errorf("%w: unknown message type %q", spark_errors.ErrInvalidMessage, value)
	}
}

// NormalizeText trims surrounding whitespace and enforces the length bounds.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: message is empty", spark_errors.ErrInvalidMessage)
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLength {
		return "", fmt.Errorf("%w: message is longer than %d characters", spark_errors.ErrInvalidMessage, MaxTextLength)
	}
	return trimmed, nil
}

// Message represents the messages table. Seq breaks timestamp ties in
// insertion order.
type Message struct {
	Seq            int64     `gorm:"column:seq;primaryKey;autoIncrement;index:idx_messages_conversation_order,priority:3"`
	ID             string    `gorm:"column:id;size:36;not null;uniqueIndex"`
	ConversationID string    `gorm:"column:conversation_id;size:257;not null;index:idx_messages_conversation_order,priority:1"`
	SenderID       string    `gorm:"column:sender_id;size:128;not null"`
	Text           string    `gorm:"column:text;not null"`
	Type           Type      `gorm:"column:type;size:16;not null"`
	Read           bool      `gorm:"column:read;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index:idx_messages_conversation_order,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}
