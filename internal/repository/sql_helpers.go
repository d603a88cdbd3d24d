package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	spark_errors "spark-chat/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite reports constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// connection exceptions, serialization failures and deadlocks
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// translateError maps driver errors onto the sentinel taxonomy.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return spark_errors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", spark_errors.ErrConflict, err)
	case errors.Is(err, context.Canceled):
		return err
	case isTransient(err):
		return fmt.Errorf("%w: %v", spark_errors.ErrTransient, err)
	default:
		return err
	}
}

// WithTx runs fn inside a transaction and maps driver failures, including
// those raised by begin and commit.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	return translateError(db.WithContext(ctx).Transaction(fn))
}
