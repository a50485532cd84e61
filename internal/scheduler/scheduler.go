package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/model"
)

// DefaultInterval is how often due reminders are checked.
const DefaultInterval = 60 * time.Second

// Store is the slice of the reminder store the scheduler needs.
type Store interface {
	DueUnsent(ctx context.Context, now time.Time) ([]model.Reminder, error)
	MarkSent(ctx context.Context, id uint) error
}

// Dispatcher delivers a single due reminder.
type Dispatcher interface {
	Dispatch(r model.Reminder) error
}

// Scheduler runs the periodic due-reminder sweep.
type Scheduler struct {
	store      Store
	dispatcher Dispatcher
	cron       *cron.Cron
	logger     *log.Logger
	interval   time.Duration
}

// New creates a scheduler sweeping every interval in the given location.
func New(store Store, dispatcher Dispatcher, logger *log.Logger, loc *time.Location, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if loc == nil {
		loc = time.Local
	}
	// DelayIfStillRunning serializes sweeps: an overrunning sweep delays the
	// next tick instead of skipping it or running two at once.
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.DelayIfStillRunning(cron.PrintfLogger(logger))),
	)
	return &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		cron:       c,
		logger:     logger,
		interval:   interval,
	}
}

// Start registers the sweep job and starts the tick loop.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		s.RunSweep(context.Background(), time.Now())
	})
	if err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}
	s.cron.Start()
	s.logger.Printf("scheduler: started, checking reminders every %s", s.interval)
	return nil
}

// Stop halts the tick loop without waiting for an in-flight sweep.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Printf("scheduler: stopped")
}

// RunSweep executes one due-check: fetch unsent reminders due at or before
// now, dispatch each in due-time order, and mark sent only after a successful
// dispatch. A failed dispatch leaves the reminder unsent for the next tick.
func (s *Scheduler) RunSweep(ctx context.Context, now time.Time) {
	due, err := s.store.DueUnsent(ctx, now)
	if err != nil {
		s.logger.Printf("scheduler: fetch due reminders: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Printf("scheduler: found %d due reminder(s)", len(due))

	for _, reminder := range due {
		if err := s.dispatcher.Dispatch(reminder); err != nil {
			s.logger.Printf("scheduler: %v", err)
			continue
		}
		s.logger.Printf("scheduler: sent reminder #%d to user %d", reminder.ID, reminder.UserID)
		if err := s.store.MarkSent(ctx, reminder.ID); err != nil {
			// The reminder was delivered but stays unsent; the next sweep may
			// deliver it again. At-least-once by design.
			s.logger.Printf("scheduler: %v", err)
		}
	}
}
