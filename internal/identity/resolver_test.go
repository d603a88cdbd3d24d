package identity

import (
	"strings"
	"testing"

	spark_errors "spark-chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t, Resolve("alice", "bob"), Resolve("bob", "alice"))
		assert.Equal(t, "alice_bob", Resolve("bob", "alice"))
	})

	t.Run("distinct pairs never collide", func(t *testing.T) {
		ids := map[string]struct{}{}
		users := []string{"a", "b", "ab", "ba", "c"}
		for i := range users {
			for j := i + 1; j < len(users); j++ {
				id := Resolve(users[i], users[j])
				_, seen := ids[id]
				require.False(t, seen, "duplicate id %s", id)
				ids[id] = struct{}{}
			}
		}
	})

	t.Run("round trips through ParticipantsOf", func(t *testing.T) {
		a, b, ok := ParticipantsOf(Resolve("zed", "amy"))
		require.True(t, ok)
		assert.Equal(t, "amy", a)
		assert.Equal(t, "zed", b)
	})
}

func TestParticipantsOf_Legacy(t *testing.T) {
	_, _, ok := ParticipantsOf("8f14e45fceea167a5a36dedd4bea2543")
	assert.False(t, ok)

	_, _, ok = ParticipantsOf("a_b_c")
	assert.False(t, ok)
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid", id: "uid123"},
		{name: "empty", id: "", wantErr: true},
		{name: "contains separator", id: "a_b", wantErr: true},
		{name: "max length", id: strings.Repeat("x", MaxUserIDLength)},
		{name: "too long", id: strings.Repeat("x", MaxUserIDLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, spark_errors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
