package queue

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

const (
	defaultCapacity = 1024
	flushInterval   = 2 * time.Second
	flushBatchSize  = 100
)

// UsageQueue decouples accounting writes from the request path. Enqueue
// never blocks: when the buffer is full the oldest un-flushed record is
// dropped and counted. A background flusher batches inserts.
type UsageQueue struct {
	records chan *models.UsageRecord
	repo    repositories.UsageRepository
	logger  *slog.Logger
	dropped atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewUsageQueue(repo repositories.UsageRepository, logger *slog.Logger) *UsageQueue {
	q := &UsageQueue{
		records: make(chan *models.UsageRecord, defaultCapacity),
		repo:    repo,
		logger:  logger,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go q.flushLoop()
	return q
}

// Enqueue appends a record for asynchronous persistence. Recording must
// never fail the user's request, so every path here returns.
func (q *UsageQueue) Enqueue(record *models.UsageRecord) {
	for {
		select {
		case q.records <- record:
			return
		default:
		}
		// Full: drop the oldest and retry the insert.
		select {
		case <-q.records:
			q.dropped.Add(1)
		default:
		}
	}
}

// Dropped reports how many records were lost to overflow.
func (q *UsageQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Close drains pending records and stops the flusher.
func (q *UsageQueue) Close() {
	q.stopOnce.Do(func() {
		close(q.stop)
	})
	<-q.done
}

func (q *UsageQueue) flushLoop() {
	defer close(q.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*models.UsageRecord, 0, flushBatchSize)
	for {
		select {
		case rec := <-q.records:
			batch = append(batch, rec)
			if len(batch) >= flushBatchSize {
				q.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				q.flush(batch)
				batch = batch[:0]
			}
		case <-q.stop:
			// Drain whatever is buffered, then flush once.
			for {
				select {
				case rec := <-q.records:
					batch = append(batch, rec)
				default:
					if len(batch) > 0 {
						q.flush(batch)
					}
					return
				}
			}
		}
	}
}

func (q *UsageQueue) flush(batch []*models.UsageRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := q.repo.InsertBatch(ctx, batch); err != nil {
		// Accounting failures are swallowed; the records are gone but the
		// user requests they described already succeeded or failed on
		// their own terms.
		q.logger.Error("failed to flush usage records", "count", len(batch), "error", err)
	}
}
