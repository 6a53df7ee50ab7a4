package reminders

import (
	"context"
	"time"

	"github.com/fdg312/vitalis/internal/clock"
)

// DetailFunc returns extra context for a reminder (e.g. today's water progress).
type DetailFunc func(ctx context.Context, r Reminder) string

// Scheduler периодически проверяет список и доставляет напоминания, не чаще раза в минуту каждое.
type Scheduler struct {
	service  *Service
	notifier Notifier
	clock    clock.Clock
	interval time.Duration
	detail   DetailFunc
	logger   Logger
	onFired  func(r Reminder, err error)

	fired map[string]string // id -> "YYYY-MM-DD HH:MM"
}

type SchedulerOptions struct {
	Interval time.Duration
	Detail   DetailFunc
	Logger   Logger
	// OnFired is called after each delivery attempt.
	OnFired func(r Reminder, err error)
}

func NewScheduler(service *Service, notifier Notifier, clk clock.Clock, opts SchedulerOptions) *Scheduler {
	if clk == nil {
		clk = clock.System{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Scheduler{
		service:  service,
		notifier: notifier,
		clock:    clk,
		interval: opts.Interval,
		detail:   opts.Detail,
		logger:   opts.Logger,
		onFired:  opts.OnFired,
		fired:    make(map[string]string),
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logf(s.logger, "INFO reminders: scheduler started interval=%s", s.interval)
	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			logf(s.logger, "INFO reminders: scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick delivers reminders due at the current minute and returns how many were sent.
func (s *Scheduler) Tick(ctx context.Context) int {
	now := s.clock.Now()
	stamp := now.Format(clock.DateLayout + " " + clock.TimeLayout)

	sent := 0
	for _, r := range s.service.Due(now) {
		if s.fired[r.ID] == stamp {
			continue
		}
		s.fired[r.ID] = stamp

		detail := ""
		if s.detail != nil {
			detail = s.detail(ctx, r)
		}
		err := s.notifier.Notify(ctx, r, detail)
		if err != nil {
			logf(s.logger, "WARN reminders: deliver id=%s: %v", r.ID, err)
		} else {
			sent++
		}
		if s.onFired != nil {
			s.onFired(r, err)
		}
	}
	return sent
}
