package proxy

import (
	"context"
	"testing"
	"time"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/repository"
	"spark-chat/internal/testutil"
	spark_errors "spark-chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	repository.ConversationRepository
	lookups int
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (conversation.Conversation, error) {
	r.lookups++
	return r.ConversationRepository.GetByID(ctx, id)
}

func TestAccessControl_CanViewConversation(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, repository.Models()...)
	repo := &countingRepo{ConversationRepository: repository.NewConversationRepository(db)}
	access := NewAccessControl(repo)

	now := time.Now().UTC()
	for _, c := range []*conversation.Conversation{
		{ID: "alice_bob", ParticipantA: "alice", ParticipantB: "bob", CreatedAt: now, UpdatedAt: now},
		{ID: "legacy7", ParticipantA: "carol", ParticipantB: "dave", CreatedAt: now, UpdatedAt: now},
	} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	t.Run("participant", func(t *testing.T) {
		c, err := access.CanViewConversation(ctx, "bob", "alice_bob")
		require.NoError(t, err)
		assert.Equal(t, "alice_bob", c.ID)
	})

	t.Run("outsider on derived id skips the lookup", func(t *testing.T) {
		before := repo.lookups
		_, err := access.CanViewConversation(ctx, "carol", "alice_bob")
		assert.ErrorIs(t, err, spark_errors.ErrForbidden)
		assert.Equal(t, before, repo.lookups)
	})

	t.Run("legacy ids are checked against the row", func(t *testing.T) {
		_, err := access.CanViewConversation(ctx, "dave", "legacy7")
		require.NoError(t, err)

		before := repo.lookups
		_, err = access.CanViewConversation(ctx, "alice", "legacy7")
		assert.ErrorIs(t, err, spark_errors.ErrForbidden)
		assert.Equal(t, before+1, repo.lookups)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		_, err := access.CanViewConversation(ctx, "alice", "alice_zed")
		assert.ErrorIs(t, err, spark_errors.ErrNotFound)

		_, err = access.CanViewConversation(ctx, "alice", "")
		assert.ErrorIs(t, err, spark_errors.ErrInvalidInput)
	})
}
