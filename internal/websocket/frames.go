package websocket

import "github.com/go-playground/validator/v10"

// Client frame types. A viewing frame starts a view of one conversation:
// its messages are marked read after the debounce window, and again after
// each new messages.snapshot, until unsubscribe.messages ends the view.
const (
	FrameSubscribeMessages        = "subscribe.messages"
	FrameUnsubscribeMessages      = "unsubscribe.messages"
	FrameSubscribeConversations   = "subscribe.conversations"
	FrameUnsubscribeConversations = "unsubscribe.conversations"
	FrameViewing                  = "viewing"
	FramePing                     = "ping"
)

// Server frame types.
const (
	FrameMessagesSnapshot      = "messages.snapshot"
	FrameConversationsSnapshot = "conversations.snapshot"
	FrameRead                  = "read"
	FrameError                 = "error"
	FramePong                  = "pong"
)

type ClientFrame struct {
	Type           string `json:"type" validate:"required,oneof=subscribe.messages unsubscribe.messages subscribe.conversations unsubscribe.conversations viewing ping"`
	ConversationID string `json:"conversation_id" validate:"omitempty,max=257"`
}

// needsConversation reports whether the frame targets one conversation.
func (f ClientFrame) needsConversation() bool {
	switch f.Type {
	case FrameSubscribeMessages, FrameUnsubscribeMessages, FrameViewing:
		return true
	}
	return false
}

// ServerFrame carries a full snapshot in Data: []httpdto.MessageDTO for
// messages, httpdto.InboxResponse for conversations.
type ServerFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	Data           any    `json:"data,omitempty"`
	Error          string `json:"error,omitempty"`
	Code           string `json:"code,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateFrame(f ClientFrame) error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.needsConversation() {
		return validate.Var(f.ConversationID, "required")
	}
	return nil
}
