package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shyftcut/api/models"
)

func TestMonthlyPeriodStart(t *testing.T) {
	now := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)
	want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, PeriodStart(models.CounterRoadmapsCreated, now))
	assert.Equal(t, want, PeriodStart(models.CounterChatMessages, now))
	assert.Equal(t, want, PeriodStart(models.CounterAvatarGenerations, now))
}

func TestDailyPeriodStart(t *testing.T) {
	now := time.Date(2025, time.March, 17, 23, 59, 59, 0, time.UTC)
	want := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, PeriodStart(models.CounterAISuggestions, now))
}

func TestPeriodStartNormalizesToUTC(t *testing.T) {
	// 23:30 on March 17 in UTC+10 is 13:30 on March 17 UTC, so the daily
	// bucket is March 17, not March 18.
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2025, time.March, 17, 23, 30, 0, 0, loc)
	want := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, PeriodStart(models.CounterAISuggestions, now))

	// 01:30 on April 1 in UTC+10 is still March 31 UTC, so the monthly
	// bucket stays on March.
	now = time.Date(2025, time.April, 1, 1, 30, 0, 0, loc)
	want = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, PeriodStart(models.CounterChatMessages, now))
}

func TestCumulativeCountersShareOneBucket(t *testing.T) {
	a := PeriodStart(models.CounterNotes, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	b := PeriodStart(models.CounterNotes, time.Date(2035, time.December, 31, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, a, b, "cumulative counters never roll over")
	assert.Equal(t, a, PeriodStart(models.CounterTasks, time.Now()))
}

func TestMonthRollover(t *testing.T) {
	endOfMonth := time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)
	startOfNext := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t,
		PeriodStart(models.CounterRoadmapsCreated, endOfMonth),
		PeriodStart(models.CounterRoadmapsCreated, startOfNext),
		"a new month gets a fresh bucket")
}
