package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	c := NewFixed(start)

	if got := Today(c); got != "2024-01-01" {
		t.Fatalf("expected 2024-01-01, got %s", got)
	}
	if got := HHMM(c); got != "23:30" {
		t.Fatalf("expected 23:30, got %s", got)
	}

	c.Advance(time.Hour)
	if got := Today(c); got != "2024-01-02" {
		t.Fatalf("expected 2024-01-02 after advance, got %s", got)
	}
}

func TestSystemClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := System{Location: loc}.Now()
	if now.Location() != loc {
		t.Fatalf("expected location %v, got %v", loc, now.Location())
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-02-29"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseDate("Mon Jan 01 2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestShortIDs(t *testing.T) {
	gen := ShortIDs{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		if len(id) != 9 {
			t.Fatalf("expected 9-char id, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Prefix: "meal"}
	if got := s.NewID(); got != "meal-1" {
		t.Fatalf("expected meal-1, got %s", got)
	}
	if got := s.NewID(); got != "meal-2" {
		t.Fatalf("expected meal-2, got %s", got)
	}
}
