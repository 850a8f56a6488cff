package seeder

import (
	"context"
	"sync"
	"time"

	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BatchWriteQueue buffers write models for one collection and flushes them as
// periodic bulk writes. A failed bulk write is a hard stage failure: the queue
// stops flushing, Add becomes a no-op so producers never block on a dead
// queue, and Wait returns the error. Previously committed batches stay intact
// (the seed run is at-least-once, not exactly-once).
type BatchWriteQueue struct {
	Collection   string
	BatchTimeout time.Duration
	EmptyTimeout time.Duration

	items             chan mongo.WriteModel
	itemsWriteLock    sync.RWMutex
	lastItemProcessed time.Time
	ticker            *time.Ticker

	failed   chan struct{}
	failOnce sync.Once
	err      error
}

func NewBatchWriteQueue(collection string, batchTimeout time.Duration, emptyTimeout time.Duration, batchSize int) *BatchWriteQueue {
	return &BatchWriteQueue{
		Collection:        collection,
		BatchTimeout:      batchTimeout,
		EmptyTimeout:      emptyTimeout,
		items:             make(chan mongo.WriteModel, batchSize),
		lastItemProcessed: time.Now(),
		failed:            make(chan struct{}),
	}
}

// Add enqueues one write model. Once the queue has failed the item is dropped
// instead, so a producer mid-stage unblocks and reaches Wait.
func (queue *BatchWriteQueue) Add(item mongo.WriteModel) {
	select {
	case queue.items <- item:
	case <-queue.failed:
	}
}

func (queue *BatchWriteQueue) failedErr() error {
	select {
	case <-queue.failed:
		return queue.err
	default:
		return nil
	}
}

// fail records the first error and releases every blocked producer. Later
// errors are discarded.
func (queue *BatchWriteQueue) fail(err error) {
	queue.failOnce.Do(func() {
		queue.err = err
		close(queue.failed)
	})
}

func (queue *BatchWriteQueue) Process() {
	queue.ticker = time.NewTicker(queue.BatchTimeout)

	go func() {
		collection := database.GetCollection(queue.Collection)

		for range queue.ticker.C {
			batchItems := []mongo.WriteModel{}

			queue.itemsWriteLock.Lock()
			running := true
			for running {
				select {
				case item := <-queue.items:
					batchItems = append(batchItems, item)
				default:
					running = false
				}
			}

			if len(batchItems) > 0 {
				queue.lastItemProcessed = time.Now()

				log.Debug().Str("collection", queue.Collection).Int("length", len(batchItems)).Msg("Bulk write")
				_, err := collection.BulkWrite(context.Background(), batchItems, &options.BulkWriteOptions{})
				if err != nil {
					log.Error().Str("collection", queue.Collection).Err(err).Msg("Failed to bulk write")
					queue.fail(err)
					queue.itemsWriteLock.Unlock()
					return
				}
			}
			queue.itemsWriteLock.Unlock()
		}
	}()
}

// Wait blocks until the queue has been idle for EmptyTimeout or a bulk write
// has failed, then stops the flush loop.
func (queue *BatchWriteQueue) Wait() error {
	for {
		if err := queue.failedErr(); err != nil {
			queue.stopTicker()
			return err
		}

		queue.itemsWriteLock.RLock()
		idle := time.Since(queue.lastItemProcessed) > queue.EmptyTimeout && len(queue.items) == 0
		queue.itemsWriteLock.RUnlock()

		if idle {
			queue.stopTicker()
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func (queue *BatchWriteQueue) stopTicker() {
	if queue.ticker != nil {
		queue.ticker.Stop()
	}
}
