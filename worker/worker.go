package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"shyftcut/api/logger"
	"shyftcut/api/models"
	"shyftcut/api/sse"
)

// WorkerPool drains AI response chunks from Kafka into SSE streams, one
// partition per worker so chunks for a session stay ordered. It also runs
// the retry queue for usage-counter increments that failed after their
// action already succeeded.
type WorkerPool struct {
	workers    int
	partitions []chan []byte
	retries    chan retryJob
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	incrementFn func(userID string, counter models.Counter) error
	backoffUnit time.Duration

	mu                  sync.RWMutex
	messagesProcessed   uint64
	processingDuration  uint64
	messagesDropped     uint64
	incrementsRecovered uint64
	incrementsAbandoned uint64
}

type retryJob struct {
	userID   string
	counter  models.Counter
	attempts int
}

const maxRetryAttempts = 5

// NewWorkerPool builds a pool with one channel per Kafka partition.
// incrementFn is the counter-store increment, injected so retry behavior
// is testable.
func NewWorkerPool(workers int, incrementFn func(userID string, counter models.Counter) error) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	partitions := make([]chan []byte, workers)
	for i := range partitions {
		partitions[i] = make(chan []byte, 100)
	}
	return &WorkerPool{
		workers:     workers,
		partitions:  partitions,
		retries:     make(chan retryJob, 256),
		ctx:         ctx,
		cancelFunc:  cancel,
		incrementFn: incrementFn,
		backoffUnit: time.Second,
	}
}

func (wp *WorkerPool) Start() {
	logger.Get().Info("starting worker pool", zap.Int("workers", wp.workers))
	for i := range wp.partitions {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.wg.Add(1)
	go wp.retryWorker()
}

// Stop signals every worker via context cancellation and waits for them
// to exit. The partition channels are never closed: Submit may race a
// shutdown, and a send on a closed channel panics while a send that loses
// the select to ctx.Done is just a dropped chunk.
func (wp *WorkerPool) Stop() {
	logger.Get().Info("stopping worker pool")
	wp.cancelFunc()
	wp.wg.Wait()
}

// Submit hands an AI response chunk to the partition's worker.
func (wp *WorkerPool) Submit(job []byte, partition int32) {
	idx := int(partition) % len(wp.partitions)
	if idx < 0 {
		idx = 0
	}

	select {
	case wp.partitions[idx] <- job:
	case <-wp.ctx.Done():
		wp.mu.Lock()
		wp.messagesDropped++
		wp.mu.Unlock()
		logger.Get().Warn("worker pool stopped, chunk not submitted")
	}
}

// RetryIncrement queues an increment that failed after its action was
// already persisted. The action stays reported as successful; the
// bookkeeping catches up here. A full queue is logged loudly rather than
// blocking the request path.
func (wp *WorkerPool) RetryIncrement(userID string, counter models.Counter) {
	select {
	case wp.retries <- retryJob{userID: userID, counter: counter}:
	default:
		wp.mu.Lock()
		wp.incrementsAbandoned++
		wp.mu.Unlock()
		logger.Get().Error("increment retry queue full, usage undercounted",
			zap.String("user_id", userID),
			zap.String("counter", string(counter)))
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case job := <-wp.partitions[id]:
			startTime := time.Now()

			var response models.AIResponse
			if err := json.Unmarshal(job, &response); err != nil {
				wp.mu.Lock()
				wp.messagesDropped++
				wp.mu.Unlock()
				logger.Get().Error("failed to unmarshal chunk",
					zap.Int("worker_id", id),
					zap.Error(err))
				continue
			}

			sse.SendChunkToClient(response.SessionID, job)

			wp.mu.Lock()
			wp.messagesProcessed++
			wp.processingDuration += uint64(time.Since(startTime).Milliseconds())
			wp.mu.Unlock()

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) retryWorker() {
	defer wp.wg.Done()

	for {
		select {
		case job := <-wp.retries:
			err := wp.incrementFn(job.userID, job.counter)
			if err == nil {
				wp.mu.Lock()
				wp.incrementsRecovered++
				wp.mu.Unlock()
				continue
			}

			job.attempts++
			if job.attempts >= maxRetryAttempts {
				wp.mu.Lock()
				wp.incrementsAbandoned++
				wp.mu.Unlock()
				logger.Get().Error("giving up on usage increment",
					zap.String("user_id", job.userID),
					zap.String("counter", string(job.counter)),
					zap.Int("attempts", job.attempts),
					zap.Error(err))
				continue
			}

			backoff := time.Duration(job.attempts) * wp.backoffUnit
			select {
			case <-time.After(backoff):
			case <-wp.ctx.Done():
				return
			}
			wp.requeue(job)

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) requeue(job retryJob) {
	select {
	case wp.retries <- job:
	default:
		wp.mu.Lock()
		wp.incrementsAbandoned++
		wp.mu.Unlock()
		logger.Get().Error("increment retry queue full, usage undercounted",
			zap.String("user_id", job.userID),
			zap.String("counter", string(job.counter)))
	}
}

// Metrics returns processing counters for the internal metrics endpoint.
func (wp *WorkerPool) Metrics() map[string]any {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	var avgProcessingTime float64
	if wp.messagesProcessed > 0 {
		avgProcessingTime = float64(wp.processingDuration) / float64(wp.messagesProcessed)
	}

	return map[string]any{
		"messages_processed":   wp.messagesProcessed,
		"messages_dropped":     wp.messagesDropped,
		"avg_processing_ms":    avgProcessingTime,
		"increments_recovered": wp.incrementsRecovered,
		"increments_abandoned": wp.incrementsAbandoned,
		"active_workers":       wp.workers,
	}
}
