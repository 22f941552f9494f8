package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedIDs string

func (f fixedIDs) Generate() string { return string(f) }

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db := newDB(conn, DialectPostgres, NewPostgresErrorClassifier(), logger.Nop())
	db.backoff = func() retry.Backoff {
		return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
	}
	return db, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func ptr[T any](v T) *T {
	return &v
}
