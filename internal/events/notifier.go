package events

import (
	"context"

	"spark-chat/internal/realtime"
)

// Notifier announces committed changes to subscribers. Publishing happens
// after the transaction commits; a lost notification only delays the next
// snapshot.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// LocalNotifier notifies an in-process hub. Used for single instance runs and tests.
type LocalNotifier struct {
	hub      *realtime.Hub
	resolver TopicResolver
}

func NewLocalNotifier(hub *realtime.Hub, resolver TopicResolver) *LocalNotifier {
	if resolver == nil {
		resolver = NewConversationTopicResolver()
	}
	return &LocalNotifier{hub: hub, resolver: resolver}
}

func (n *LocalNotifier) Publish(ctx context.Context, event Event) error {
	for _, topic := range n.resolver.ResolveTopics(event) {
		n.hub.Notify(topic)
	}
	return nil
}
