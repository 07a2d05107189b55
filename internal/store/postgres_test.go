package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"plan-access-bot/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const (
	selectQuery = `SELECT user_key, payload FROM "plan_access_records" WHERE collection = $1`
	deleteQuery = `DELETE FROM "plan_access_records" WHERE collection = $1`
	insertQuery = `INSERT INTO "plan_access_records" (collection, user_key, payload) VALUES ($1, $2, $3)`
)

func TestPostgresStore_Load(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"user_key", "payload"}).
		AddRow("1001", []byte(`{"type":"VIP","expiry":"2030-01-01T00:00:00Z"}`)).
		AddRow("1002", []byte(`broken`))
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).WithArgs("subscriptions").WillReturnRows(rows)

	s := New(NewPostgresBackend(db, "plan_access_records"), logger.NewTestLogger(t))
	records := s.Load(context.Background(), Subscriptions)

	assert.Len(t, records, 1)
	assert.Contains(t, records, "1001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_QueryErrorLoadsEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).WithArgs("pending_requests").
		WillReturnError(errors.New("connection reset"))

	s := New(NewPostgresBackend(db, "plan_access_records"), logger.NewTestLogger(t))
	assert.Empty(t, s.Load(context.Background(), PendingRequests))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_WriteReplacesCollection(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WithArgs("subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WithArgs("subscriptions", "1001", `{"type":"VIP"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WithArgs("subscriptions", "1002", `{"type":"NORMAL"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	backend := NewPostgresBackend(db, "plan_access_records")
	err := backend.Write(context.Background(), Subscriptions, Records{
		"1002": json.RawMessage(`{"type":"NORMAL"}`),
		"1001": json.RawMessage(`{"type":"VIP"}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_WriteRollsBackOnInsertError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WithArgs("subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WithArgs("subscriptions", "1001", `{"type":"VIP"}`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	backend := NewPostgresBackend(db, "plan_access_records")
	err := backend.Write(context.Background(), Subscriptions, Records{"1001": json.RawMessage(`{"type":"VIP"}`)})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_EnsureSchema(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "plan_access_records"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresBackend(db, "plan_access_records").EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
