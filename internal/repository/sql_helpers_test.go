package repository

import (
	"context"
	"errors"
	"testing"

	spark_errors "spark-chat/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "not found", err: gorm.ErrRecordNotFound, want: spark_errors.ErrNotFound},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey, want: spark_errors.ErrConflict},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, want: spark_errors.ErrConflict},
		{name: "pg connection failure", err: &pgconn.PgError{Code: "08006"}, want: spark_errors.ErrTransient},
		{name: "pg serialization failure", err: &pgconn.PgError{Code: "40001"}, want: spark_errors.ErrTransient},
		{name: "deadline", err: context.DeadlineExceeded, want: spark_errors.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("syntax error")
		got := translateError(plain)
		assert.Equal(t, plain, got)
		assert.False(t, errors.Is(got, spark_errors.ErrTransient))
	})
}
