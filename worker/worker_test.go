package worker

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shyftcut/api/models"
)

type countingStore struct {
	mu        sync.Mutex
	calls     int
	failFirst int
}

func (s *countingStore) increment(userID string, counter models.Counter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failFirst {
		return fmt.Errorf("store unavailable")
	}
	return nil
}

func (s *countingStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRetryIncrementRecovers(t *testing.T) {
	store := &countingStore{failFirst: 2}
	pool := NewWorkerPool(1, store.increment)
	pool.backoffUnit = time.Millisecond
	pool.Start()
	defer pool.Stop()

	pool.RetryIncrement("user-1", models.CounterChatMessages)

	assert.Eventually(t, func() bool {
		return store.callCount() == 3
	}, 2*time.Second, 10*time.Millisecond, "two failures then success")

	metrics := pool.Metrics()
	assert.Equal(t, uint64(1), metrics["increments_recovered"])
	assert.Equal(t, uint64(0), metrics["increments_abandoned"])
}

func TestRetryIncrementGivesUp(t *testing.T) {
	store := &countingStore{failFirst: 1 << 30}
	pool := NewWorkerPool(1, store.increment)
	pool.backoffUnit = time.Millisecond
	pool.Start()
	defer pool.Stop()

	pool.RetryIncrement("user-1", models.CounterChatMessages)

	assert.Eventually(t, func() bool {
		return pool.Metrics()["increments_abandoned"] == uint64(1)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, maxRetryAttempts, store.callCount())
}

// Submits racing a shutdown must not panic: Stop cancels the context and
// waits for the workers instead of closing the partition channels out from
// under a concurrent Submit.
func TestStopDuringSubmit(t *testing.T) {
	store := &countingStore{}
	pool := NewWorkerPool(4, store.increment)
	pool.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			pool.Submit([]byte(`{"session_id":"s1","content":"x"}`), int32(i))
		}
	}()

	time.Sleep(time.Millisecond)
	pool.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submits did not finish after Stop")
	}
}

func TestRetryIncrementSucceedsImmediately(t *testing.T) {
	store := &countingStore{}
	pool := NewWorkerPool(1, store.increment)
	pool.Start()
	defer pool.Stop()

	pool.RetryIncrement("user-1", models.CounterNotes)

	assert.Eventually(t, func() bool {
		return pool.Metrics()["increments_recovered"] == uint64(1)
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, store.callCount())
}
