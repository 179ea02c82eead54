package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

func newMockStore(t *testing.T) (*SearchEventStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewSearchEventStore(&DB{DB: sqlDB}), mock
}

func TestSearchEventStore_Record(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO search_events")).
		WithArgs("ev-1", "sess-1", int64(3), "sort=score", int64(7), "applied", nil, int64(150), created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Record(context.Background(), &domain.SearchEvent{
		ID:          "ev-1",
		SessionID:   "sess-1",
		Sequence:    3,
		Query:       "sort=score",
		ResultCount: 7,
		Outcome:     domain.SearchOutcomeApplied,
		Duration:    150 * time.Millisecond,
		CreatedAt:   created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEventStore_RecordError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO search_events")).
		WillReturnError(errors.New("connection reset"))

	err := store.Record(context.Background(), &domain.SearchEvent{ID: "ev-1"})
	assert.ErrorContains(t, err, "connection reset")
}

func TestSearchEventStore_ListBySession(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	columns := []string{"id", "session_id", "seq", "query", "result_count", "outcome", "error", "duration_ms", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM search_events")).
		WithArgs("sess-1", int64(defaultEventLimit)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("ev-2", "sess-1", int64(2), "sort=score", 0, "failed", "search failed: status 500", int64(20), created).
			AddRow("ev-1", "sess-1", int64(1), "sort=score", 4, "applied", nil, int64(10), created.Add(-time.Second)))

	events, err := store.ListBySession(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, uint64(2), events[0].Sequence)
	assert.Equal(t, domain.SearchOutcomeFailed, events[0].Outcome)
	assert.Equal(t, "search failed: status 500", events[0].Error)
	assert.Equal(t, 20*time.Millisecond, events[0].Duration)

	assert.Equal(t, 4, events[1].ResultCount)
	assert.Empty(t, events[1].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEventStore_ListEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM search_events")).
		WithArgs("none", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	events, err := store.ListBySession(context.Background(), "none", 5)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestDB_InitSchema(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS search_events")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	db := &DB{DB: sqlDB}
	require.NoError(t, db.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_InitSchemaError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS search_events")).
		WillReturnError(errors.New("permission denied for schema public"))

	err = (&DB{DB: sqlDB}).InitSchema(context.Background())
	assert.ErrorContains(t, err, "failed to create search_events schema")
	assert.ErrorContains(t, err, "permission denied")
}

func TestSetup(t *testing.T) {
	t.Run("pings and creates schema", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS search_events")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		db, err := setup(context.Background(), sqlDB, DefaultConfig("postgres://localhost/discover", true))
		require.NoError(t, err)
		assert.NotNil(t, db)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips schema when disabled", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing()

		_, err = setup(context.Background(), sqlDB, DefaultConfig("postgres://localhost/discover", false))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable server", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		_, err = setup(context.Background(), sqlDB, DefaultConfig("postgres://localhost/discover", true))
		assert.ErrorContains(t, err, "search event database unreachable")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNullString(t *testing.T) {
	assert.False(t, NullString("").Valid)
	assert.Equal(t, "x", NullString("x").String)
}

func TestSearchEventStore_DeleteBySession(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM search_events WHERE session_id = $1")).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	require.NoError(t, store.DeleteBySession(context.Background(), "sess-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM search_events")).
		WithArgs("sess-2").
		WillReturnError(errors.New("connection reset"))
	assert.ErrorContains(t, store.DeleteBySession(context.Background(), "sess-2"), "failed to delete search events")

	assert.NoError(t, mock.ExpectationsWereMet())
}
