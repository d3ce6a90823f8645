package repository

import (
	"context"
	"errors"
	"testing"

	"event-catalog/core/clock"
	"event-catalog/feature/events/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func newMockRepo(t *testing.T, opts ...Option) (*Repository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	clk := clock.NewFixed(june(1, 0))
	return New(db, nil, append([]Option{WithClock(clk)}, opts...)...), mock
}

func TestUpsert_CommitFailureRollsBackAndStops(t *testing.T) {
	repo, mock := newMockRepo(t, WithBatchSize(1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `events`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `event_plans`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	res, err := repo.Upsert(context.Background(), []models.ParsedEvent{
		event("1", "online"),
		event("2", "online"),
	}, provider)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorContains(t, err, "commit failed")
	assert.Zero(t, res.Batches)
	assert.Zero(t, res.Events)
	// The second batch and the provider pass never start.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_SecondBatchCommitFailureKeepsFirstBatch(t *testing.T) {
	repo, mock := newMockRepo(t, WithBatchSize(1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `events`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `event_plans`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `events`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `event_plans`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	res, err := repo.Upsert(context.Background(), []models.ParsedEvent{
		event("1", "online"),
		event("2", "online"),
	}, provider)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorContains(t, err, "batch 2")
	assert.Equal(t, 1, res.Batches)
	assert.Equal(t, 1, res.Events)
	// No UPDATE of `events` is expected, so the provider pass was never issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_QueryFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `events`").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), []models.ParsedEvent{event("1", "online")}, provider)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorContains(t, err, "event 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_ProviderPassFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `events` SET `last_seen_at`=.*`stale_since`=COALESCE").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), nil, provider)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorContains(t, err, "stale pass")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEventsInRange_QueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT \\* FROM `events`").WillReturnError(errors.New("gone away"))

	_, err := repo.FindEventsInRange(context.Background(), june(1, 0), june(2, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestPruneStale_FailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `events`").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1"))
	mock.ExpectExec("DELETE FROM `zones`").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	removed, err := repo.PruneStale(context.Background(), provider, june(1, 0))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Zero(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
