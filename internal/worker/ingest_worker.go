package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"remo-monitor/internal/models"
	"remo-monitor/internal/service"
)

const defaultCycleTimeout = 30 * time.Second

// IngestWorker saves a device snapshot right away and then on every tick. A tick that fires while
// the previous cycle is still running is skipped. There is no retry or backoff: the next tick is
// the only retry.
type IngestWorker struct {
	service      service.IngestService
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *slog.Logger

	inFlight atomic.Bool
	cycles   sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

func NewIngestWorker(service service.IngestService, interval time.Duration, logger *slog.Logger) *IngestWorker {
	return &IngestWorker{
		service:      service,
		interval:     interval,
		cycleTimeout: defaultCycleTimeout,
		logger:       logger.With("worker", "ingest"),
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start blocks until Stop is called.
func (w *IngestWorker) Start() {
	defer close(w.done)
	w.logger.Info("ingest worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.trigger()

	for {
		select {
		case <-ticker.C:
			w.trigger()
		case <-w.stopChan:
			w.cycles.Wait()
			w.logger.Info("ingest worker stopped")
			return
		}
	}
}

func (w *IngestWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}

// Done is closed once Start has returned.
func (w *IngestWorker) Done() <-chan struct{} {
	return w.done
}

// trigger starts a cycle unless one is already in flight. It reports whether a cycle was started.
func (w *IngestWorker) trigger() bool {
	if !w.inFlight.CompareAndSwap(false, true) {
		w.logger.Warn("previous ingest still in flight, skipping tick")
		return false
	}

	w.cycles.Add(1)
	go func() {
		defer w.cycles.Done()
		defer w.inFlight.Store(false)
		w.runCycle()
	}()
	return true
}

func (w *IngestWorker) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cycleTimeout)
	defer cancel()

	start := time.Now()
	count, err := w.service.SaveSnapshot(ctx)
	switch {
	case errors.Is(err, models.ErrNoDevices):
		w.logger.Warn("no devices returned by Nature Remo")
	case err != nil:
		w.logger.Error("ingest cycle failed", "error", err)
	default:
		w.logger.Info("ingest cycle completed", "devices", count, "duration_ms", time.Since(start).Milliseconds())
	}
}
