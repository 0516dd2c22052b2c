package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// PollInterval is the fixed wait between delivery cycles.
const PollInterval = 60 * time.Second

// Processor defines the behavior required by Scheduler.
type Processor interface {
	ProcessDueMessages(ctx context.Context) error
}

// Scheduler drives periodic delivery cycles. It runs one catch-up cycle
// immediately on start, then one cycle per poll interval, indefinitely. A
// failed cycle is logged and the next one still runs on schedule.
type Scheduler struct {
	processor Processor
	logger    *log.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// ErrAlreadyRunning is emitted when start is called twice.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ErrNotRunning is emitted when trying to stop an idle scheduler.
var ErrNotRunning = errors.New("scheduler not running")

// New builds a scheduler.
func New(processor Processor, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(log.Writer(), "scheduler ", log.LstdFlags)
	}
	return &Scheduler{processor: processor, logger: logger}
}

// Start begins the background loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	if ctx == nil {
		ctx = context.Background()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.run(loopCtx)
	s.logger.Println("scheduler started")

	return nil
}

// Stop cancels the loop.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}

	s.cancel()
	s.running = false
	s.logger.Println("scheduler stopped")
	return nil
}

// IsRunning reports the scheduler state.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunOnce executes exactly one delivery cycle synchronously. It is the
// manual trigger for delivering overdue messages without waiting for the
// loop's own cadence, and works whether or not the loop is running.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.processor.ProcessDueMessages(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	// Immediate catch-up sweep for messages that came due while the
	// process was down.
	s.execute(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context) {
	if err := s.processor.ProcessDueMessages(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Printf("scheduler cycle failed: %v", err)
	}
}
