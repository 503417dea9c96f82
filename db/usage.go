package db

import (
	"database/sql"
	"fmt"
	"time"

	"shyftcut/api/models"
)

// The usage_counters table is the authoritative record of consumption:
//
//	usage_counters(user_id, counter, period_start, count,
//	               UNIQUE(user_id, counter, period_start))
//
// This package is the only writer. Increments happen at the moment the
// corresponding action is persisted, never during eligibility checks, and
// each one is a single atomic statement so concurrent requests from the
// same user cannot lose updates.

// GetUsageSnapshot reads the current-period counters for a user. Counters
// whose period has rolled over report zero because the new bucket has no
// row yet.
func GetUsageSnapshot(userID string) (models.UsageSnapshot, error) {
	now := time.Now()
	snapshot := models.UsageSnapshot{}

	counters := map[models.Counter]*int{
		models.CounterRoadmapsCreated:   &snapshot.RoadmapsCreated,
		models.CounterChatMessages:      &snapshot.ChatMessagesThisMonth,
		models.CounterQuizzesTaken:      &snapshot.QuizzesTakenThisMonth,
		models.CounterNotes:             &snapshot.NotesCount,
		models.CounterTasks:             &snapshot.TasksCount,
		models.CounterAISuggestions:     &snapshot.AISuggestionsToday,
		models.CounterAvatarGenerations: &snapshot.AvatarGenerationsThisMonth,
	}

	rows, err := DB.Query(`
		SELECT counter, period_start, count
		FROM usage_counters
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return snapshot, fmt.Errorf("error reading usage counters for user %s: %v", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var counter models.Counter
		var periodStart time.Time
		var count int
		if err := rows.Scan(&counter, &periodStart, &count); err != nil {
			return snapshot, fmt.Errorf("error scanning usage counter for user %s: %v", userID, err)
		}
		dest, ok := counters[counter]
		if !ok {
			continue
		}
		// Stale buckets from previous periods stay in the table but do not
		// count toward the current snapshot.
		if periodStart.UTC().Equal(PeriodStart(counter, now)) {
			*dest = count
		}
	}
	if err := rows.Err(); err != nil {
		return snapshot, fmt.Errorf("error iterating usage counters for user %s: %v", userID, err)
	}

	return snapshot, nil
}

// IncrementCounter atomically adds one to the current-period bucket,
// creating it if this is the first use this period. The upsert is a single
// statement, so two parallel tabs incrementing the same counter both land.
func IncrementCounter(userID string, counter models.Counter) error {
	return incrementCounterTx(DB, userID, counter)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func incrementCounterTx(ex execer, userID string, counter models.Counter) error {
	query := `
		INSERT INTO usage_counters (user_id, counter, period_start, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, counter, period_start)
		DO UPDATE SET count = usage_counters.count + 1
	`
	_, err := ex.Exec(query, userID, counter, PeriodStart(counter, time.Now()))
	if err != nil {
		return fmt.Errorf("error incrementing %s for user %s: %v", counter, userID, err)
	}
	return nil
}

// DecrementCounter atomically subtracts one, flooring at zero. Only
// cumulative counters (notes, tasks) are decremented, on deletion of the
// underlying record.
func DecrementCounter(userID string, counter models.Counter) error {
	return decrementCounterTx(DB, userID, counter)
}

func decrementCounterTx(ex execer, userID string, counter models.Counter) error {
	query := `
		UPDATE usage_counters
		SET count = GREATEST(count - 1, 0)
		WHERE user_id = $1 AND counter = $2 AND period_start = $3
	`
	_, err := ex.Exec(query, userID, counter, PeriodStart(counter, time.Now()))
	if err != nil {
		return fmt.Errorf("error decrementing %s for user %s: %v", counter, userID, err)
	}
	return nil
}

// IncrementCounterWithinLimit performs the limit check and the increment in
// one atomic statement, returning false when the bucket is already at the
// limit. The plain check-then-act flow in the handlers treats limits as
// soft and can transiently overshoot under concurrent requests; callers
// that need the strict guarantee use this instead.
func IncrementCounterWithinLimit(userID string, counter models.Counter, limit int) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	query := `
		INSERT INTO usage_counters (user_id, counter, period_start, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, counter, period_start)
		DO UPDATE SET count = usage_counters.count + 1
		WHERE usage_counters.count < $4
		RETURNING count
	`
	var count int
	err := DB.QueryRow(query, userID, counter, PeriodStart(counter, time.Now()), limit).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error conditionally incrementing %s for user %s: %v", counter, userID, err)
	}
	return true, nil
}
