package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	spark_errors "spark-chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - marks only the other side's messages", func(t *testing.T) {
		f := newFixture(t)
		f.anyProfiles()
		id := f.conversation(t, "alice", "bob")
		f.send(t, id, "alice", "one")
		f.send(t, id, "bob", "two")
		f.send(t, id, "alice", "three")

		marked, err := f.reads.MarkRead(ctx, id, "bob")
		require.NoError(t, err)
		assert.EqualValues(t, 2, marked)

		list, err := f.messages.List(ctx, id, "bob")
		require.NoError(t, err)
		for _, m := range list {
			if m.SenderID == "alice" {
				assert.True(t, m.Read, m.Text)
			} else {
				assert.False(t, m.Read, m.Text)
			}
		}

		c, err := f.conversationRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, c.LastMessage().Read)
		assert.False(t, c.Unread("bob"))
	})

	t.Run("is idempotent and does not touch updated_at", func(t *testing.T) {
		f := newFixture(t)
		f.anyProfiles()
		id := f.conversation(t, "alice", "bob")
		f.send(t, id, "alice", "one")
		before, err := f.conversationRepo.GetByID(ctx, id)
		require.NoError(t, err)

		marked, err := f.reads.MarkRead(ctx, id, "bob")
		require.NoError(t, err)
		assert.EqualValues(t, 1, marked)

		marked, err = f.reads.MarkRead(ctx, id, "bob")
		require.NoError(t, err)
		assert.Zero(t, marked)

		after, err := f.conversationRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	})

	t.Run("sender reading own message changes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.anyProfiles()
		id := f.conversation(t, "alice", "bob")
		f.send(t, id, "alice", "one")

		marked, err := f.reads.MarkRead(ctx, id, "alice")
		require.NoError(t, err)
		assert.Zero(t, marked)

		c, err := f.conversationRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, c.LastMessage().Read)
		assert.True(t, c.Unread("bob"))
	})

	t.Run("rejects outsiders", func(t *testing.T) {
		f := newFixture(t)
		f.anyProfiles()
		id := f.conversation(t, "alice", "bob")

		_, err := f.reads.MarkRead(ctx, id, "carol")
		assert.ErrorIs(t, err, spark_errors.ErrForbidden)

		_, err = f.reads.MarkRead(ctx, "", "alice")
		assert.ErrorIs(t, err, spark_errors.ErrInvalidInput)
	})
}

func TestReadDebouncer(t *testing.T) {
	key := ReadKey{ConversationID: "alice_bob", ReaderID: "bob"}

	t.Run("coalesces touches into one mark", func(t *testing.T) {
		var calls atomic.Int64
		d := NewReadDebouncer(30*time.Millisecond, time.Second, func(ctx context.Context, conversationID, readerID string) (int64, error) {
			calls.Add(1)
			assert.Equal(t, "alice_bob", conversationID)
			assert.Equal(t, "bob", readerID)
			return 1, nil
		}, nil)
		defer d.Stop()

		for i := 0; i < 5; i++ {
			d.Touch(key, nil)
			time.Sleep(5 * time.Millisecond)
		}
		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)
		assert.EqualValues(t, 1, calls.Load())
		assert.Zero(t, d.Pending())
	})

	t.Run("reports the result to done", func(t *testing.T) {
		d := NewReadDebouncer(5*time.Millisecond, time.Second, func(ctx context.Context, conversationID, readerID string) (int64, error) {
			return 0, errors.New("boom")
		}, nil)
		defer d.Stop()

		var (
			mu     sync.Mutex
			gotErr error
		)
		d.Touch(key, func(count int64, err error) {
			mu.Lock()
			defer mu.Unlock()
			gotErr = err
		})
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return gotErr != nil
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("cancel and stop drop pending work", func(t *testing.T) {
		var calls atomic.Int64
		d := NewReadDebouncer(20*time.Millisecond, time.Second, func(ctx context.Context, conversationID, readerID string) (int64, error) {
			calls.Add(1)
			return 0, nil
		}, nil)

		d.Touch(key, nil)
		d.Cancel(key)
		d.Touch(ReadKey{ConversationID: "alice_carol", ReaderID: "carol"}, nil)
		assert.Equal(t, 1, d.Pending())
		d.Stop()
		d.Touch(key, nil)

		time.Sleep(60 * time.Millisecond)
		assert.Zero(t, calls.Load())
		assert.Zero(t, d.Pending())
	})

	t.Run("marks through the read service", func(t *testing.T) {
		f := newFixture(t)
		f.anyProfiles()
		id := f.conversation(t, "alice", "bob")
		f.send(t, id, "alice", "hi")

		d := NewReadDebouncer(10*time.Millisecond, time.Second, f.reads.MarkRead, nil)
		defer d.Stop()
		d.Touch(ReadKey{ConversationID: id, ReaderID: "bob"}, nil)

		require.Eventually(t, func() bool {
			c, err := f.conversationRepo.GetByID(context.Background(), id)
			return err == nil && c.LastMessage().Read
		}, time.Second, 5*time.Millisecond)
	})
}
