package db

import (
	"time"

	"shyftcut/api/models"
)

// cumulativeEpoch is the fixed bucket for counters that never reset.
var cumulativeEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// PeriodStart returns the bucket a counter increment lands in at the given
// instant. Monthly counters bucket on the first of the calendar month,
// daily counters on midnight, both in UTC. Cumulative counters share a
// single fixed bucket. Rollover is lazy: a read in a new period finds no
// row for the new bucket and reports zero.
func PeriodStart(counter models.Counter, now time.Time) time.Time {
	now = now.UTC()
	switch models.CounterCadence[counter] {
	case models.CadenceDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case models.CadenceMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return cumulativeEpoch
	}
}
