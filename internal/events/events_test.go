package events

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"spark-chat/internal/realtime"
	sparkredis "spark-chat/internal/redis"
	"spark-chat/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func messageCreated() MessageCreatedEvent {
	return MessageCreatedEvent{
		BaseEvent: BaseEvent{
			ConversationID: "alice_bob",
			Participants:   []string{"alice", "bob"},
			Timestamp:      time.Now().UTC(),
		},
		MessageID: "m1",
		SenderID:  "alice",
	}
}

func TestConversationTopicResolver(t *testing.T) {
	r := NewConversationTopicResolver()

	assert.Equal(t,
		[]string{"conversation:alice_bob", "inbox:alice", "inbox:bob"},
		r.ResolveTopics(messageCreated()),
	)

	read := MessagesReadEvent{BaseEvent: messageCreated().BaseEvent, ReaderID: "bob", Count: 2}
	assert.Equal(t,
		[]string{"conversation:alice_bob", "inbox:alice", "inbox:bob"},
		r.ResolveTopics(read),
	)

	created := ConversationCreatedEvent{BaseEvent: messageCreated().BaseEvent}
	assert.Equal(t, []string{"inbox:alice", "inbox:bob"}, r.ResolveTopics(created))
}

func TestChannelMapping(t *testing.T) {
	assert.Equal(t, "channel:inbox:alice", ChannelForTopic("inbox:alice"))
	assert.Equal(t, "inbox:alice", TopicForChannel("channel:inbox:alice"))
}

func watchCount(t *testing.T, hub *realtime.Hub, topic string) *atomic.Int64 {
	t.Helper()
	var deliveries atomic.Int64
	unsubscribe := realtime.Watch(hub, topic, func(ctx context.Context) (int, error) {
		return 0, nil
	}, func(int) { deliveries.Add(1) })
	t.Cleanup(unsubscribe)

	require.Eventually(t, func() bool { return deliveries.Load() == 1 }, time.Second, 5*time.Millisecond)
	return &deliveries
}

func TestLocalNotifier(t *testing.T) {
	hub := realtime.NewHub(nil, realtime.DefaultBackoffConfig())
	defer hub.Close()

	conv := watchCount(t, hub, "conversation:alice_bob")
	inbox := watchCount(t, hub, "inbox:bob")

	require.NoError(t, NewLocalNotifier(hub, nil).Publish(context.Background(), messageCreated()))

	require.Eventually(t, func() bool {
		return conv.Load() == 2 && inbox.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRedisNotifierAndBridge(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	hub := realtime.NewHub(nil, realtime.DefaultBackoffConfig())
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := NewRedisBridge(sparkredis.NewSubscriber(client), hub, nil)
	go func() { _ = bridge.Run(ctx) }()

	inbox := watchCount(t, hub, "inbox:alice")
	notifier := NewRedisNotifier(sparkredis.NewPublisher(client), nil, nil)

	// publish until the bridge has subscribed
	require.Eventually(t, func() bool {
		_ = notifier.Publish(context.Background(), messageCreated())
		return inbox.Load() >= 2
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRedisBridge_Handle(t *testing.T) {
	hub := realtime.NewHub(nil, realtime.DefaultBackoffConfig())
	defer hub.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	bridge := NewRedisBridge(nil, hub, &logger.Logger{Logger: zap.New(core)})
	inbox := watchCount(t, hub, "inbox:bob")

	envelope, err := NewEnvelope(messageCreated())
	require.NoError(t, err)
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)

	bridge.handle("channel:inbox:bob", payload)
	require.Eventually(t, func() bool { return inbox.Load() == 2 }, time.Second, 5*time.Millisecond)

	received := logs.FilterMessage("event received").All()
	require.Len(t, received, 1)
	fields := received[0].ContextMap()
	assert.Equal(t, EventTypeMessageCreated, fields["event_type"])
	assert.Equal(t, "alice_bob", fields["aggregate_id"])
	assert.Equal(t, "inbox:bob", fields["topic"])

	t.Run("undecodable payload still refreshes", func(t *testing.T) {
		bridge.handle("channel:inbox:bob", []byte("not json"))
		require.Eventually(t, func() bool { return inbox.Load() == 3 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, 1, logs.FilterMessage("undecodable envelope").Len())
	})
}

func TestRedisNotifier_Envelope(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(context.Background(), "channel:inbox:bob")
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	notifier := NewRedisNotifier(sparkredis.NewPublisher(client), nil, nil)
	require.NoError(t, notifier.Publish(context.Background(), messageCreated()))

	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	assert.Equal(t, EventTypeMessageCreated, env.EventType)
	assert.Equal(t, "alice_bob", env.AggregateID)
	assert.Equal(t, "conversation", env.AggregateType)
}

func TestRedisNotifier_PublishFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	notifier := NewRedisNotifier(sparkredis.NewPublisher(client), nil, nil)
	assert.Error(t, notifier.Publish(context.Background(), messageCreated()))
}
