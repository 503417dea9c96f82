package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shyftcut/api/models"
)

// withMockDB swaps the package connection for a mock and restores it when
// the test finishes.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := DB
	DB = mockDB
	t.Cleanup(func() {
		DB = prev
		mockDB.Close()
	})
	return mock
}

func TestIncrementCounterUpserts(t *testing.T) {
	mock := withMockDB(t)
	bucket := PeriodStart(models.CounterChatMessages, time.Now())
	mock.ExpectExec("INSERT INTO usage_counters").
		WithArgs("user-1", models.CounterChatMessages, bucket).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := IncrementCounter("user-1", models.CounterChatMessages)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementCounterFloorsAtZero(t *testing.T) {
	mock := withMockDB(t)
	bucket := PeriodStart(models.CounterNotes, time.Now())
	mock.ExpectExec("UPDATE usage_counters").
		WithArgs("user-1", models.CounterNotes, bucket).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := DecrementCounter("user-1", models.CounterNotes)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementCounterWithinLimitAllowed(t *testing.T) {
	mock := withMockDB(t)
	bucket := PeriodStart(models.CounterAvatarGenerations, time.Now())
	mock.ExpectQuery("INSERT INTO usage_counters").
		WithArgs("user-1", models.CounterAvatarGenerations, bucket, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ok, err := IncrementCounterWithinLimit("user-1", models.CounterAvatarGenerations, 3)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementCounterWithinLimitReached(t *testing.T) {
	// When the bucket is already at the limit the conditional update
	// matches no row and the statement returns nothing. That is the
	// limit-reached outcome, not an error.
	mock := withMockDB(t)
	bucket := PeriodStart(models.CounterAvatarGenerations, time.Now())
	mock.ExpectQuery("INSERT INTO usage_counters").
		WithArgs("user-1", models.CounterAvatarGenerations, bucket, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}))

	ok, err := IncrementCounterWithinLimit("user-1", models.CounterAvatarGenerations, 3)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementCounterWithinLimitZero(t *testing.T) {
	// A zero limit never touches the database; the insert path would
	// otherwise create a count-1 row before the condition could apply.
	mock := withMockDB(t)

	ok, err := IncrementCounterWithinLimit("user-1", models.CounterAvatarGenerations, 0)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsageSnapshotIgnoresStaleBuckets(t *testing.T) {
	mock := withMockDB(t)
	now := time.Now()
	current := PeriodStart(models.CounterChatMessages, now)
	stale := current.AddDate(0, -1, 0)

	rows := sqlmock.NewRows([]string{"counter", "period_start", "count"}).
		AddRow(string(models.CounterChatMessages), current, 4).
		AddRow(string(models.CounterRoadmapsCreated), stale, 9)
	mock.ExpectQuery("SELECT counter, period_start, count").
		WithArgs("user-1").
		WillReturnRows(rows)

	snapshot, err := GetUsageSnapshot("user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.ChatMessagesThisMonth)
	assert.Equal(t, 0, snapshot.RoadmapsCreated, "last month's bucket must read as zero")
	assert.NoError(t, mock.ExpectationsWereMet())
}
