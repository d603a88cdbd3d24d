package events

import (
	"strings"

	"spark-chat/internal/realtime"
)

// ChannelPrefix namespaces hub topics on the Redis bus.
const ChannelPrefix = "channel:"

// ChannelPattern matches every topic channel.
const ChannelPattern = ChannelPrefix + "*"

func ChannelForTopic(topic string) string {
	return ChannelPrefix + topic
}

func TopicForChannel(channel string) string {
	return strings.TrimPrefix(channel, ChannelPrefix)
}

// TopicResolver determines which hub topics an event invalidates
type TopicResolver interface {
	ResolveTopics(event Event) []string
}

// ConversationTopicResolver routes events to the conversation topic and to
// the inbox topic of every participant.
type ConversationTopicResolver struct{}

func NewConversationTopicResolver() *ConversationTopicResolver {
	return &ConversationTopicResolver{}
}

func (r *ConversationTopicResolver) ResolveTopics(event Event) []string {
	var base BaseEvent
	switch e := event.(type) {
	case ConversationCreatedEvent:
		// nothing to show on the message stream yet
		return inboxTopics(e.Participants)
	case MessageCreatedEvent:
		base = e.BaseEvent
	case MessagesReadEvent:
		base = e.BaseEvent
	default:
		return nil
	}

	topics := []string{realtime.ConversationTopic(base.ConversationID)}
	return append(topics, inboxTopics(base.Participants)...)
}

func inboxTopics(participants []string) []string {
	topics := make([]string, 0, len(participants))
	for _, p := range participants {
		topics = append(topics, realtime.InboxTopic(p))
	}
	return topics
}
