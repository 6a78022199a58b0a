package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BookingCompleter is the part of the booking service the job drives.
type BookingCompleter interface {
	CompleteFinishedBookings(ctx context.Context, asOf time.Time) (int, error)
}

// BookingJob periodically marks stays whose check-out has passed as completed
type BookingJob struct {
	bookings BookingCompleter
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	now    func() time.Time
}

// NewBookingJob creates a new booking completion job
func NewBookingJob(bookings BookingCompleter, interval time.Duration, logger *zap.Logger) *BookingJob {
	return &BookingJob{
		bookings: bookings,
		interval: interval,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the scheduled run. It is a no-op when already running.
func (j *BookingJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.logger.Info("booking job already running")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})
	j.logger.Info("starting booking completion job", zap.Duration("interval", j.interval))
	go j.loop(ctx, j.done)
}

// Stop halts the job and waits for an in-flight run to finish.
func (j *BookingJob) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	j.logger.Info("stopping booking completion job")
	cancel()
	<-done
}

func (j *BookingJob) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce completes every finished booking as of now.
func (j *BookingJob) RunOnce(ctx context.Context) int {
	completed, err := j.bookings.CompleteFinishedBookings(ctx, j.now())
	if err != nil {
		j.logger.Error("booking completion run failed", zap.Int("completed", completed), zap.Error(err))
		return completed
	}
	if completed > 0 {
		j.logger.Info("bookings completed", zap.Int("count", completed))
	}
	return completed
}
