package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Queue fans page paths out to a fixed pool of workers. Extraction is a
// pure function of (page, config), so workers need no coordination beyond
// the channel.
type Queue struct {
	proc    *Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan string
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan string, n)
		}
	}
}

func WithPageTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(proc *Processor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan string, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for path := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					_, _, err := q.proc.ProcessPage(ctx, path)
					cancel()

					if err != nil {
						q.logger.Error("page processing failed", "worker_id", workerID, "path", path, "error", err)
					}
				}
				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i)
		}
	})
}

// Enqueue submits a page path. It reports false once the queue is closed
// or when the buffer is full.
func (q *Queue) Enqueue(path string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- path:
		return true
	default:
		q.logger.Warn("queue full, dropping page", "path", path)
		return false
	}
}

// Close stops intake and waits for in-flight pages to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()
	q.wg.Wait()
}
