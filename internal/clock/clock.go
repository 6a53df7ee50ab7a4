package clock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Clock — источник текущего времени. Подменяется в тестах.
type Clock interface {
	Now() time.Time
}

// System returns wall-clock time in the given location (nil means time.Local).
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant until Set or Advance is called.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Today returns the calendar date of c.Now() as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

// HHMM returns the wall time of c.Now() as HH:MM.
func HHMM(c Clock) string {
	return c.Now().Format(TimeLayout)
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// IDGenerator выдаёт короткие уникальные идентификаторы записей.
type IDGenerator interface {
	NewID() string
}

const shortIDLen = 9

// ShortIDs produces 9-character lowercase hex identifiers.
type ShortIDs struct{}

func (ShortIDs) NewID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:shortIDLen]
}

// Sequence produces prefix-1, prefix-2, ... Used in tests.
type Sequence struct {
	mu     sync.Mutex
	Prefix string
	n      int
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
