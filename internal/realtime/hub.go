package realtime

import (
	"context"
	"sync"
	"time"

	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

// Topic names understood by the hub.
const (
	conversationTopicPrefix = "conversation:"
	inboxTopicPrefix        = "inbox:"
)

func ConversationTopic(conversationID string) string {
	return conversationTopicPrefix + conversationID
}

func InboxTopic(userID string) string {
	return inboxTopicPrefix + userID
}

// Unsubscribe stops a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// BackoffConfig bounds the retry delay after a failed snapshot load.
type BackoffConfig struct {
	Initial time.Duration
	Max     time.Duration
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial: 250 * time.Millisecond,
		Max:     10 * time.Second,
	}
}

type subscription struct {
	topic  string
	dirty  chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once

	// held across the done check and deliver
	deliverMu sync.Mutex
}

// Hub is a per-topic registry of snapshot subscriptions. Notify marks every
// subscription on a topic dirty; each subscription then reloads and
// delivers a fresh snapshot. Bursts of notifications coalesce into one reload.
type Hub struct {
	mu      sync.Mutex
	topics  map[string]map[*subscription]struct{}
	closed  bool
	backoff BackoffConfig
	logger  *logger.Logger
}

func NewHub(l *logger.Logger, backoff BackoffConfig) *Hub {
	if l == nil {
		l = logger.NewNop()
	}
	if backoff.Initial <= 0 {
		backoff = DefaultBackoffConfig()
	}
	return &Hub{
		topics:  make(map[string]map[*subscription]struct{}),
		backoff: backoff,
		logger:  l.Named("realtime"),
	}
}

// Notify marks topic dirty for all of its subscribers. It never blocks.
func (h *Hub) Notify(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.topics[topic] {
		select {
		case sub.dirty <- struct{}{}:
		default:
		}
	}
}

// NotifyAll marks every subscription dirty.
func (h *Hub) NotifyAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.topics {
		for sub := range set {
			select {
			case sub.dirty <- struct{}{}:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of live subscriptions on topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// Close stops every subscription. Later Watch calls return immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var subs []*subscription
	for _, set := range h.topics {
		for sub := range set {
			subs = append(subs, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

func (h *Hub) add(sub *subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	set, ok := h.topics[sub.topic]
	if !ok {
		set = make(map[*subscription]struct{})
		h.topics[sub.topic] = set
	}
	set[sub] = struct{}{}
	return true
}

func (h *Hub) remove(sub *subscription) {
	sub.once.Do(func() {
		h.mu.Lock()
		if set, ok := h.topics[sub.topic]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.topics, sub.topic)
			}
		}
		h.mu.Unlock()

		close(sub.done)
		sub.cancel()

		// wait out a delivery that passed the done check before close
		sub.deliverMu.Lock()
		sub.deliverMu.Unlock()
	})
}

// Watch subscribes to topic. load produces the current snapshot and deliver
// receives it: once right away and again after every Notify on topic. Failed
// loads are retried with exponential backoff until they succeed or the
// subscription ends. Once Unsubscribe returns, deliver is not running and
// will not be called again, so deliver must not call Unsubscribe itself.
func Watch[T any](h *Hub, topic string, load func(ctx context.Context) (T, error), deliver func(T)) Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		topic:  topic,
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	if !h.add(sub) {
		cancel()
		return func() {}
	}

	go h.run(ctx, sub, func(ctx context.Context) error {
		snapshot, err := load(ctx)
		if err != nil {
			return err
		}
		sub.deliverMu.Lock()
		defer sub.deliverMu.Unlock()
		select {
		case <-sub.done:
			return nil
		default:
		}
		deliver(snapshot)
		return nil
	})

	return func() { h.remove(sub) }
}

func (h *Hub) run(ctx context.Context, sub *subscription, refresh func(ctx context.Context) error) {
	delay := h.backoff.Initial
	for {
		if err := refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			h.logger.Logger.Warn("snapshot load failed, retrying",
				zap.String("topic", sub.topic),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			timer := time.NewTimer(delay)
			select {
			case <-sub.done:
				timer.Stop()
				return
			case <-timer.C:
			}
			delay *= 2
			if delay > h.backoff.Max {
				delay = h.backoff.Max
			}
			continue
		}
		delay = h.backoff.Initial

		select {
		case <-sub.done:
			return
		case <-sub.dirty:
		}
	}
}
