package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellerhub/account-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	deleteTimeout  = 15 * time.Second
)

// CleanupJob identifies a remote image that should be removed.
type CleanupJob struct {
	URL string
}

// Dispatcher fans avatar cleanup jobs out to a fixed set of workers using
// consistent hashing on the image URL, so deletes of the same image are
// never processed concurrently.
type Dispatcher struct {
	workers []chan CleanupJob
	store   ports.ImageStore
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store ports.ImageStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan CleanupJob, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan CleanupJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules the image behind url for deletion. Non-blocking up to
// channelBuffer capacity.
func (d *Dispatcher) Enqueue(url string) {
	d.workers[d.shardIndex(url)] <- CleanupJob{URL: url}
}

// shardIndex maps an image URL deterministically to a worker index.
func (d *Dispatcher) shardIndex(url string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan CleanupJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, job CleanupJob) {
	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	deleted, err := d.store.Delete(deleteCtx, job.URL)
	if err != nil {
		d.log.Error().Err(err).
			Str("url", job.URL).
			Int("worker_id", id).
			Msg("avatar cleanup failed")
		return
	}
	if !deleted {
		d.log.Debug().Str("url", job.URL).Msg("no image to clean up")
	}
}
