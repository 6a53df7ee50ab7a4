package reminders

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/storage"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Service хранит список напоминаний под ключом vitalis_reminders.
type Service struct {
	mu     sync.RWMutex
	kv     storage.KV
	ids    clock.IDGenerator
	items  []Reminder
	logger Logger
}

// Load reads the persisted list; a missing or malformed value yields Defaults().
func Load(ctx context.Context, kv storage.KV, ids clock.IDGenerator, logger Logger) (*Service, error) {
	if ids == nil {
		ids = clock.ShortIDs{}
	}
	s := &Service{kv: kv, ids: ids, logger: logger, items: Defaults()}

	var items []Reminder
	found, err := storage.LoadJSON(ctx, kv, storage.KeyReminders, &items)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		s.logf("WARN reminders: %v, using defaults", err)
	case err != nil:
		return nil, err
	case found && items != nil:
		s.items = items
	}
	return s, nil
}

// List returns reminders ordered by time of day.
func (s *Service) List() []Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]Reminder(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Upsert creates a reminder when req.ID is empty, otherwise replaces the existing one.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (Reminder, error) {
	hhmm, err := normalizeTime(req.Time)
	if err != nil {
		return Reminder{}, err
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return Reminder{}, ErrEmptyLabel
	}
	typ := Type(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if !typ.Valid() {
		return Reminder{}, ErrInvalidType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := Reminder{ID: req.ID, Time: hhmm, Label: label, Enabled: true, Type: typ}

	if r.ID == "" {
		if req.Enabled != nil {
			r.Enabled = *req.Enabled
		}
		r.ID = s.ids.NewID()
		s.items = append(s.items, r)
		return r, s.save(ctx)
	}

	idx := s.indexLocked(r.ID)
	if idx < 0 {
		return Reminder{}, ErrNotFound
	}
	// без enabled в запросе флаг остаётся прежним
	r.Enabled = s.items[idx].Enabled
	if req.Enabled != nil {
		r.Enabled = *req.Enabled
	}
	s.items[idx] = r
	return r, s.save(ctx)
}

// SetEnabled switches a reminder on or off.
func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Reminder{}, ErrNotFound
	}
	s.items[idx].Enabled = enabled
	return s.items[idx], s.save(ctx)
}

// Toggle flips the enabled flag.
func (s *Service) Toggle(ctx context.Context, id string) (Reminder, error) {
	s.mu.RLock()
	idx := s.indexLocked(id)
	var enabled bool
	if idx >= 0 {
		enabled = s.items[idx].Enabled
	}
	s.mu.RUnlock()

	if idx < 0 {
		return Reminder{}, ErrNotFound
	}
	return s.SetEnabled(ctx, id, !enabled)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return s.save(ctx)
}

// Due returns enabled reminders scheduled for the wall-clock minute of now.
func (s *Service) Due(now time.Time) []Reminder {
	hhmm := now.Format(clock.TimeLayout)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []Reminder
	for _, r := range s.items {
		if r.Enabled && r.Time == hhmm {
			due = append(due, r)
		}
	}
	return due
}

func (s *Service) indexLocked(id string) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) save(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Reminder{}
	}
	return storage.SaveJSON(ctx, s.kv, storage.KeyReminders, items)
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}

// normalizeTime accepts H:MM or HH:MM and returns HH:MM.
func normalizeTime(v string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return "", ErrInvalidTime
	}
	return t.Format(clock.TimeLayout), nil
}
