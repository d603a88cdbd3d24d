package services

import (
	"context"
	"sync"
	"time"

	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

// DefaultReadDebounce is how long a conversation must stay in view before
// its messages are marked read.
const DefaultReadDebounce = 500 * time.Millisecond

// ReadKey identifies one reader viewing one conversation.
type ReadKey struct {
	ConversationID string
	ReaderID       string
}

// MarkReadFunc performs the read transition once a key has been quiet.
type MarkReadFunc func(ctx context.Context, conversationID, readerID string) (int64, error)

// ReadDebouncer coalesces view signals. Each Touch restarts the key's timer;
// the mark runs once the key has been quiet for the window. One debouncer
// belongs to one connection.
type ReadDebouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timeout time.Duration
	mark    MarkReadFunc
	pending map[ReadKey]*time.Timer
	stopped bool
	logger  *logger.Logger
}

func NewReadDebouncer(window, timeout time.Duration, mark MarkReadFunc, l *logger.Logger) *ReadDebouncer {
	if window <= 0 {
		window = DefaultReadDebounce
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &ReadDebouncer{
		window:  window,
		timeout: timeout,
		mark:    mark,
		pending: make(map[ReadKey]*time.Timer),
		logger:  l,
	}
}

// Touch schedules a mark for key. done, when set, receives the result.
func (d *ReadDebouncer) Touch(key ReadKey, done func(int64, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.pending[key]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.stopped || d.pending[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		count, err := d.mark(ctx, key.ConversationID, key.ReaderID)
		if err != nil {
			d.logger.Logger.Warn("debounced mark read failed",
				zap.String("conversation_id", key.ConversationID),
				zap.String("reader_id", key.ReaderID),
				zap.Error(err),
			)
		}
		if done != nil {
			done(count, err)
		}
	})
	d.pending[key] = timer
}

// Cancel drops pending work for key.
func (d *ReadDebouncer) Cancel(key ReadKey) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
}

// Pending reports how many keys are waiting.
func (d *ReadDebouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop drops all pending work. Later Touch calls are ignored.
func (d *ReadDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
}
