package daily

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fdg312/vitalis/internal/storage"
	"github.com/fdg312/vitalis/internal/storage/memory"
)

func busyDay() Stats {
	s := Empty()
	s.Steps = 4200
	s.Water = 1500
	s.Meals = []Meal{{ID: "m1", Name: "Apple", Calories: 52, Time: "10:15", Type: MealSnack}}
	s.Exercises = []Exercise{{ID: "e1", Name: "Running", Duration: 30, CaloriesBurned: 300, Time: "07:00"}}
	s.Recount()
	return s
}

func TestResetIfNewDay(t *testing.T) {
	stored := busyDay()

	fresh := ResetIfNewDay("2024-01-01", stored, "2024-01-02")
	if fresh.Steps != 0 || fresh.Water != 0 || fresh.CaloriesConsumed != 0 || fresh.CaloriesBurned != 0 {
		t.Fatalf("expected zero counters after rollover, got %+v", fresh)
	}
	if len(fresh.Meals) != 0 || len(fresh.Exercises) != 0 || len(fresh.WeightLogs) != 0 {
		t.Fatalf("expected empty lists after rollover, got %+v", fresh)
	}
	if fresh.Meals == nil || fresh.Exercises == nil || fresh.WeightLogs == nil {
		t.Fatal("expected non-nil empty lists")
	}

	same := ResetIfNewDay("2024-01-01", stored, "2024-01-01")
	if same.Steps != 4200 || same.Water != 1500 || same.CaloriesConsumed != 52 || same.CaloriesBurned != 300 {
		t.Fatalf("expected stored values unchanged, got %+v", same)
	}
	if len(same.Meals) != 1 || same.Meals[0].ID != "m1" {
		t.Fatalf("expected stored meals unchanged, got %+v", same.Meals)
	}

	if first := ResetIfNewDay("", stored, "2024-01-01"); first.Steps != 0 {
		t.Fatalf("expected first run to start empty, got %+v", first)
	}
}

func TestLoadRollsOverStaleRecord(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_ = storage.SaveJSON(ctx, kv, storage.KeyStats, Record{Date: "2024-01-01", Data: busyDay()})

	s, err := Load(ctx, kv, "2024-01-02", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get(); got.Steps != 0 || len(got.Meals) != 0 {
		t.Fatalf("expected empty day, got %+v", got)
	}
	if s.Date() != "2024-01-02" {
		t.Fatalf("expected tracked date 2024-01-02, got %s", s.Date())
	}

	again, err := Load(ctx, kv, "2024-01-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := again.Get(); got.Steps != 4200 || got.CaloriesConsumed != 52 {
		t.Fatalf("expected stored day on matching date, got %+v", got)
	}
}

func TestLoadMalformedStartsEmptyDay(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_ = kv.Save(ctx, storage.KeyStats, []byte(`[1,2,3]`))

	s, err := Load(ctx, kv, "2024-01-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get(); got.Steps != 0 || got.Meals == nil {
		t.Fatalf("expected empty day, got %+v", got)
	}
}

func TestLoadLegacyDateFormat(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_ = storage.SaveJSON(ctx, kv, storage.KeyStats, Record{Date: "Mon Jan 01 2024", Data: busyDay()})

	s, _ := Load(ctx, kv, "2024-01-01", nil)
	if s.Get().Steps != 4200 {
		t.Fatalf("expected legacy-dated record for today to be kept, got %+v", s.Get())
	}

	s, _ = Load(ctx, kv, "2024-01-02", nil)
	if s.Get().Steps != 0 {
		t.Fatal("expected legacy-dated record from yesterday to roll over")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Mon Jan 01 2024", "2024-01-01"},
		{"Fri Dec 27 2024", "2024-12-27"},
		{"2024-03-05", "2024-03-05"},
		{"", ""},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpdateRecountsAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, _ := Load(ctx, kv, "2024-03-10", nil)

	got, err := s.Update(ctx, "2024-03-10", func(st *Stats) {
		st.Meals = append([]Meal{{ID: "a", Calories: 300}, {ID: "b", Calories: 200}}, st.Meals...)
		st.CaloriesConsumed = 99999
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CaloriesConsumed != 500 {
		t.Fatalf("expected totals recomputed from meals, got %d", got.CaloriesConsumed)
	}

	var rec Record
	raw, _, _ := kv.Load(ctx, storage.KeyStats)
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Date != "2024-03-10" || rec.Data.CaloriesConsumed != 500 || len(rec.Data.Meals) != 2 {
		t.Fatalf("unexpected persisted record: %+v", rec)
	}
}

func TestUpdateSaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, _ := Load(ctx, kv, "2024-03-10", nil)
	kv.FailSaves = errors.New("quota exceeded")

	_, err := s.Update(ctx, "2024-03-10", func(st *Stats) { st.Water += 250 })
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if s.Get().Water != 250 {
		t.Fatalf("expected in-memory water 250, got %d", s.Get().Water)
	}
}

func TestRollOver(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, _ := Load(ctx, kv, "2024-01-01", nil)
	_, _ = s.Update(ctx, "2024-01-01", func(st *Stats) { st.Steps = 900 })

	rolled, err := s.RollOver(ctx, "2024-01-01")
	if err != nil || rolled {
		t.Fatalf("expected no rollover on same day, rolled=%v err=%v", rolled, err)
	}

	rolled, err = s.RollOver(ctx, "2024-01-02")
	if err != nil || !rolled {
		t.Fatalf("expected rollover, rolled=%v err=%v", rolled, err)
	}
	if s.Get().Steps != 0 || s.Date() != "2024-01-02" {
		t.Fatalf("expected empty new day, got %+v on %s", s.Get(), s.Date())
	}
}

func TestMealTypeLegacyLabels(t *testing.T) {
	var m Meal
	if err := json.Unmarshal([]byte(`{"id":"x","type":"Öğle Yemeği"}`), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MealLunch {
		t.Fatalf("expected Lunch, got %q", m.Type)
	}

	for in, want := range map[string]MealType{"breakfast": MealBreakfast, "SNACK": MealSnack, "Akşam Yemeği": MealDinner} {
		got, ok := ParseMealType(in)
		if !ok || got != want {
			t.Fatalf("ParseMealType(%q) = %q,%v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseMealType("Brunch"); ok {
		t.Fatal("expected unknown meal type to be rejected")
	}
}
