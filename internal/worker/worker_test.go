package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"remo-monitor/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingIngestService struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	err     error
}

func newBlockingIngestService() *blockingIngestService {
	return &blockingIngestService{
		release: make(chan struct{}),
		started: make(chan struct{}, 16),
	}
}

func (s *blockingIngestService) SaveSnapshot(ctx context.Context) (int, error) {
	s.calls.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return 1, s.err
}

func (s *blockingIngestService) Ingest(context.Context, []models.Device) (int, error) {
	return 0, nil
}

func waitStarted(t *testing.T, s *blockingIngestService) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(2 * time.Second):
		t.Fatal("ingest cycle did not start")
	}
}

func TestIngestWorker_SkipsWhileInFlight(t *testing.T) {
	svc := newBlockingIngestService()
	w := NewIngestWorker(svc, time.Hour, discardLogger())

	if !w.trigger() {
		t.Fatal("first trigger should start a cycle")
	}
	waitStarted(t, svc)

	if w.trigger() {
		t.Error("trigger while in flight should be skipped")
	}
	if got := svc.calls.Load(); got != 1 {
		t.Errorf("calls = %d; want 1", got)
	}

	close(svc.release)
	w.cycles.Wait()

	if !w.trigger() {
		t.Error("trigger after completion should start a cycle")
	}
	waitStarted(t, svc)
	w.cycles.Wait()

	if got := svc.calls.Load(); got != 2 {
		t.Errorf("calls = %d; want 2", got)
	}
}

func TestIngestWorker_RunsImmediatelyAndStops(t *testing.T) {
	svc := newBlockingIngestService()
	close(svc.release)
	w := NewIngestWorker(svc, time.Hour, discardLogger())

	go w.Start()
	waitStarted(t, svc)

	w.Stop()
	w.Stop()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	if got := svc.calls.Load(); got != 1 {
		t.Errorf("calls = %d; want 1", got)
	}
}

func TestIngestWorker_FailureDoesNotStopLoop(t *testing.T) {
	svc := newBlockingIngestService()
	svc.err = errors.New("upstream down")
	close(svc.release)
	w := NewIngestWorker(svc, 10*time.Millisecond, discardLogger())

	go w.Start()
	waitStarted(t, svc)
	waitStarted(t, svc)
	w.Stop()
	<-w.Done()

	if got := svc.calls.Load(); got < 2 {
		t.Errorf("calls = %d; want at least 2", got)
	}
}

func TestIngestWorker_CycleTimeout(t *testing.T) {
	svc := newBlockingIngestService()
	w := NewIngestWorker(svc, time.Hour, discardLogger())
	w.cycleTimeout = 20 * time.Millisecond

	w.trigger()
	waitStarted(t, svc)
	w.cycles.Wait()

	if w.inFlight.Load() {
		t.Error("in-flight flag not cleared after timeout")
	}
}

type countingWorker struct {
	mu      sync.Mutex
	started int
	stopped int
	stop    chan struct{}
}

func (w *countingWorker) Start() {
	w.mu.Lock()
	w.started++
	w.mu.Unlock()
	<-w.stop
}

func (w *countingWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped == 0 {
		close(w.stop)
	}
	w.stopped++
}

func TestScheduler(t *testing.T) {
	s := NewScheduler(discardLogger())
	workers := []*countingWorker{
		{stop: make(chan struct{})},
		{stop: make(chan struct{})},
	}
	for _, w := range workers {
		s.AddWorker(w)
	}

	s.Start()
	if !s.IsRunning() {
		t.Fatal("scheduler should be running")
	}

	s.Stop()
	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler should be stopped")
	}
	for i, w := range workers {
		w.mu.Lock()
		if w.started != 1 || w.stopped != 1 {
			t.Errorf("worker %d started=%d stopped=%d; want 1/1", i, w.started, w.stopped)
		}
		w.mu.Unlock()
	}

	s.Start()
	for _, w := range workers {
		w.mu.Lock()
		if w.started != 1 {
			t.Error("stopped scheduler must not restart workers")
		}
		w.mu.Unlock()
	}
}
