package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/metrics"
)

type Repo interface {
	IncrementClicks(ctx context.Context, code string) (bool, error)
}

// ClickRecorder accepts a click for a resolved code. Record must not block
// the caller on storage I/O and never reports an error.
type ClickRecorder interface {
	Record(code string)
}

type ClickWorker struct {
	in      chan string
	logger  *zap.Logger
	repo    Repo
	timeout time.Duration
	workers int

	mu     sync.RWMutex
	closed bool

	pool     sync.WaitGroup
	overflow sync.WaitGroup
}

func NewClickWorker(logger *zap.Logger, repo Repo, workers, buffer int, timeout time.Duration) *ClickWorker {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}

	return &ClickWorker{
		in:      make(chan string, buffer),
		logger:  logger,
		repo:    repo,
		timeout: timeout,
		workers: workers,
	}
}

// Start launches the pool. It must be called once before Record.
func (w *ClickWorker) Start() {
	w.logger.Info("starting click workers", zap.Int("workers", w.workers), zap.Int("buffer", cap(w.in)))

	for i := 0; i < w.workers; i++ {
		w.pool.Add(1)
		go func() {
			defer w.pool.Done()
			for code := range w.in {
				increment(w.logger, w.repo, w.timeout, code)
			}
		}()
	}
}

// Record queues the click. When the queue is full the increment runs in
// its own goroutine instead of being dropped. Clicks arriving after Close
// are dropped and counted.
func (w *ClickWorker) Record(code string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	// the store may already be closing
	if w.closed {
		metrics.ClicksDropped.Inc()
		w.logger.Warn("click after shutdown dropped", zap.String("code", code))
		return
	}

	select {
	case w.in <- code:
	default:
		metrics.ClicksOverflow.Inc()
		w.overflow.Add(1)
		go func() {
			defer w.overflow.Done()
			increment(w.logger, w.repo, w.timeout, code)
		}()
	}
}

// Close stops intake and waits until every queued click is persisted or
// ctx expires.
func (w *ClickWorker) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.in)
	}
	w.mu.Unlock()

	w.logger.Info("draining click queue", zap.Int("pending", len(w.in)))

	done := make(chan struct{})
	go func() {
		w.pool.Wait()
		w.overflow.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		w.logger.Warn("click queue not drained", zap.Int("pending", len(w.in)), zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// Direct persists every click synchronously. Used by the CLI where there is
// no request path to protect.
type Direct struct {
	logger  *zap.Logger
	repo    Repo
	timeout time.Duration
}

func NewDirect(logger *zap.Logger, repo Repo, timeout time.Duration) *Direct {
	return &Direct{logger: logger, repo: repo, timeout: timeout}
}

func (d *Direct) Record(code string) {
	increment(d.logger, d.repo, d.timeout, code)
}

func increment(logger *zap.Logger, repo Repo, timeout time.Duration, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ok, err := repo.IncrementClicks(ctx, code)
	if err != nil {
		metrics.ClicksFailed.Inc()
		logger.Error("cannot record click", zap.String("code", code), zap.Error(err))

		return
	}

	if !ok {
		metrics.ClicksFailed.Inc()
		logger.Warn("click for unknown code", zap.String("code", code))

		return
	}

	metrics.ClicksRecorded.Inc()
}
