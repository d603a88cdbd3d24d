package message

import (
	"strings"
	"testing"

	spark_errors "spark-chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		text, err := NormalizeText("  hello  \n")
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("rejects blank", func(t *testing.T) {
		_, err := NormalizeText(" \t\n ")
		assert.ErrorIs(t, err, spark_errors.ErrInvalidMessage)
	})

	t.Run("length counted in characters", func(t *testing.T) {
		text, err := NormalizeText(strings.Repeat("é", MaxTextLength))
		require.NoError(t, err)
		assert.Len(t, []rune(text), MaxTextLength)

		_, err = NormalizeText(strings.Repeat("a", MaxTextLength+1))
		assert.ErrorIs(t, err, spark_errors.ErrInvalidMessage)
	})
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, TypeText, typ)

	typ, err = ParseType("icebreaker")
	require.NoError(t, err)
	assert.Equal(t, TypeIcebreaker, typ)

	_, err = ParseType("image")
	assert.ErrorIs(t, err, spark_errors.ErrInvalidMessage)
}
