package daily

import (
	"context"
	"errors"
	"sync"

	"github.com/fdg312/vitalis/internal/storage"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Store держит статистику текущего дня и сохраняет её после каждой мутации.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	date   string
	stats  Stats
	logger Logger
}

// Load reads the persisted record and applies the day-rollover policy against today.
// Malformed data is treated as no record.
func Load(ctx context.Context, kv storage.KV, today string, logger Logger) (*Store, error) {
	s := &Store{kv: kv, logger: logger}

	var rec Record
	found, err := storage.LoadJSON(ctx, kv, storage.KeyStats, &rec)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		s.logf("WARN daily: %v, starting an empty day", err)
		found = false
	case err != nil:
		return nil, err
	}
	if !found {
		rec = Record{}
	}
	rec.Date = NormalizeDate(rec.Date)

	s.stats = ResetIfNewDay(rec.Date, normalize(rec.Data), today)
	s.date = today
	if found && rec.Date != today {
		s.logf("INFO daily: rollover stored=%s today=%s", rec.Date, today)
	}
	return s, nil
}

// Get returns a copy of today's stats.
func (s *Store) Get() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Clone()
}

// Date returns the calendar date the in-memory stats belong to.
func (s *Store) Date() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

// RollOver discards the current stats when today differs from the tracked date.
// rolled reports whether a reset happened; err is a persistence failure only.
func (s *Store) RollOver(ctx context.Context, today string) (rolled bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.date == today {
		return false, nil
	}
	s.logf("INFO daily: rollover %s -> %s", s.date, today)
	s.stats = Empty()
	s.date = today
	return true, s.save(ctx)
}

// Update applies fn to a copy of the stats, recomputes the calorie totals and persists the
// result tagged with today. The in-memory state is updated even if the save fails.
func (s *Store) Update(ctx context.Context, today string, fn func(*Stats)) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.stats.Clone()
	fn(&next)
	next.Recount()

	s.stats = next
	s.date = today
	return next.Clone(), s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	return storage.SaveJSON(ctx, s.kv, storage.KeyStats, Record{Date: s.date, Data: s.stats})
}

func (s *Store) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}

func normalize(s Stats) Stats {
	if s.Meals == nil {
		s.Meals = []Meal{}
	}
	if s.Exercises == nil {
		s.Exercises = []Exercise{}
	}
	if s.WeightLogs == nil {
		s.WeightLogs = []WeightLog{}
	}
	return s
}
