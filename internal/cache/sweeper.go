package cache

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"show-status/internal/common/logging"
)

// ExpiredDeleter removes every document whose expiry has passed.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically removes expired durable documents. The read path
// already deletes stale documents lazily, but only for keys that are read
// again; the sweep catches the rest so the durable tier cannot accumulate
// dead rows.
type Sweeper struct {
	store    ExpiredDeleter
	schedule string
	cron     *cron.Cron
	logger   logging.Logger
}

// NewSweeper builds a sweeper on the given cron schedule (e.g. "@hourly").
func NewSweeper(store ExpiredDeleter, schedule string, logger logging.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	s := &Sweeper{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins the schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("durable sweep scheduled", logging.Field{Key: "schedule", Value: s.schedule})
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep runs one pass immediately.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Warn("durable sweep failed", logging.Err(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("durable sweep removed expired documents", logging.Field{Key: "deleted", Value: deleted})
	}
}
