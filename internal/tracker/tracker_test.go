package tracker

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/vitalis/internal/catalog"
	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/daily"
	"github.com/fdg312/vitalis/internal/profile"
	"github.com/fdg312/vitalis/internal/storage"
	"github.com/fdg312/vitalis/internal/storage/memory"
)

type recordingObserver struct {
	events    []string
	failures  []string
	rollovers int
}

func (o *recordingObserver) EventRecorded(op string) { o.events = append(o.events, op) }
func (o *recordingObserver) PersistFailed(op string) { o.failures = append(o.failures, op) }
func (o *recordingObserver) RolledOver()             { o.rollovers++ }

type fixture struct {
	tracker *Tracker
	kv      *memory.MemoryStorage
	clock   *clock.Fixed
	obs     *recordingObserver
}

func newFixture(t *testing.T, strict bool) fixture {
	t.Helper()
	kv := memory.New()
	clk := clock.NewFixed(time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC))
	obs := &recordingObserver{}
	tr, err := Open(context.Background(), kv, Options{
		Clock:        clk,
		IDs:          &clock.Sequence{Prefix: "id"},
		Strict:       strict,
		AutoRollover: true,
		Observer:     obs,
	})
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	return fixture{tracker: tr, kv: kv, clock: clk, obs: obs}
}

func sumMeals(s daily.Stats) int {
	total := 0
	for _, m := range s.Meals {
		total += m.Calories
	}
	return total
}

func sumExercises(s daily.Stats) int {
	total := 0
	for _, e := range s.Exercises {
		total += e.CaloriesBurned
	}
	return total
}

func TestAddWaterCapsAt5000(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	amounts := []int{250, 1000, 2000, 1500, 500, 250}
	sum := 0
	prev := 0
	for _, a := range amounts {
		out, err := f.tracker.AddWater(ctx, a)
		if err != nil {
			t.Fatalf("add water %d: %v", a, err)
		}
		sum += a
		if want := min(5000, sum); out.Stats.Water != want {
			t.Fatalf("after +%d expected water %d, got %d", a, want, out.Stats.Water)
		}
		if out.Stats.Water < prev {
			t.Fatalf("water decreased from %d to %d", prev, out.Stats.Water)
		}
		prev = out.Stats.Water
	}
	if prev != 5000 {
		t.Fatalf("expected water capped at 5000, got %d", prev)
	}
}

func TestLogMealKeepsTotalsInSync(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	out, err := f.tracker.LogMeal(ctx, "Oatmeal", 300, "Breakfast")
	if err != nil {
		t.Fatalf("log meal: %v", err)
	}
	first := out.Stats.Meals[0]
	if first.ID != "id-1" || first.Time != "08:30" || first.Type != daily.MealBreakfast {
		t.Fatalf("unexpected meal: %+v", first)
	}

	_, _ = f.tracker.LogMeal(ctx, "Chicken", 450, "lunch")
	out, _ = f.tracker.LogMeal(ctx, "Chicken", 450, "Lunch")
	if len(out.Stats.Meals) != 3 {
		t.Fatalf("expected 3 meals without dedup, got %d", len(out.Stats.Meals))
	}
	if out.Stats.Meals[0].ID != "id-3" {
		t.Fatalf("expected newest meal first, got %s", out.Stats.Meals[0].ID)
	}
	if out.Stats.CaloriesConsumed != 1200 || out.Stats.CaloriesConsumed != sumMeals(out.Stats) {
		t.Fatalf("expected consumed 1200, got %d", out.Stats.CaloriesConsumed)
	}

	out, _ = f.tracker.DeleteMeal(ctx, "id-2")
	if out.Stats.CaloriesConsumed != 750 || out.Stats.CaloriesConsumed != sumMeals(out.Stats) {
		t.Fatalf("expected consumed 750 after delete, got %d", out.Stats.CaloriesConsumed)
	}

	// Double delete must not drive the total below the list sum.
	out, _ = f.tracker.DeleteMeal(ctx, "id-2")
	if out.Changed {
		t.Fatal("expected second delete to be a no-op")
	}
	if out.Stats.CaloriesConsumed != 750 || len(out.Stats.Meals) != 2 {
		t.Fatalf("expected unchanged state, got %+v", out.Stats)
	}
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, _ = f.tracker.LogMeal(ctx, "Apple", 52, "Snack")
	_, _ = f.tracker.LogExerciseByKey(ctx, "yoga", 20)

	before := len(f.obs.events)
	out, err := f.tracker.DeleteMeal(ctx, "nope")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Changed || out.Stats.CaloriesConsumed != 52 || len(out.Stats.Meals) != 1 {
		t.Fatalf("expected no-op, got %+v", out)
	}
	out, err = f.tracker.DeleteExercise(ctx, "nope")
	if err != nil || out.Changed || out.Stats.CaloriesBurned != 60 {
		t.Fatalf("expected exercise no-op, got %+v err=%v", out, err)
	}
	if len(f.obs.events) != before {
		t.Fatalf("no-op deletes must not be recorded as events: %v", f.obs.events[before:])
	}
}

func TestLogExerciseAndNetCalories(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	out, err := f.tracker.LogExerciseByKey(ctx, "running", 30)
	if err != nil {
		t.Fatalf("log exercise: %v", err)
	}
	ex := out.Stats.Exercises[0]
	if ex.Name != "Running" || ex.Duration != 30 || ex.CaloriesBurned != 300 {
		t.Fatalf("unexpected exercise: %+v", ex)
	}

	_, _ = f.tracker.LogMeal(ctx, "Salad", 200, "Lunch")
	d := f.tracker.Dashboard(ctx)
	if d.Metrics.NetCalories != 0 {
		t.Fatalf("expected net calories floored at 0, got %d", d.Metrics.NetCalories)
	}

	_, _ = f.tracker.LogMeal(ctx, "Pasta", 700, "Dinner")
	d = f.tracker.Dashboard(ctx)
	if d.Metrics.NetCalories != 600 {
		t.Fatalf("expected net 600, got %d", d.Metrics.NetCalories)
	}

	out, _ = f.tracker.DeleteExercise(ctx, ex.ID)
	if out.Stats.CaloriesBurned != 0 || out.Stats.CaloriesBurned != sumExercises(out.Stats) {
		t.Fatalf("expected burned 0 after delete, got %d", out.Stats.CaloriesBurned)
	}

	if _, err := f.tracker.LogExerciseByKey(ctx, "curling", 10); !errors.Is(err, catalog.ErrUnknownExercise) {
		t.Fatalf("expected ErrUnknownExercise, got %v", err)
	}
}

func TestLogPreset(t *testing.T) {
	f := newFixture(t, true)
	out, err := f.tracker.LogPreset(context.Background(), "lentil soup")
	if err != nil {
		t.Fatalf("log preset: %v", err)
	}
	m := out.Stats.Meals[0]
	if m.Name != "Lentil Soup" || m.Calories != 120 || m.Type != daily.MealDinner {
		t.Fatalf("unexpected preset meal: %+v", m)
	}
	if _, err := f.tracker.LogPreset(context.Background(), "pizza"); !errors.Is(err, catalog.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestStrictValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	negAge := -3
	badTheme := profile.Theme("neon")
	checks := map[string]func() (Outcome, error){
		"water zero":        func() (Outcome, error) { return f.tracker.AddWater(ctx, 0) },
		"negative calories": func() (Outcome, error) { return f.tracker.LogMeal(ctx, "x", -10, "Snack") },
		"unknown meal type": func() (Outcome, error) { return f.tracker.LogMeal(ctx, "x", 10, "Brunch") },
		"empty meal name":   func() (Outcome, error) { return f.tracker.LogMeal(ctx, "  ", 10, "Snack") },
		"zero duration":     func() (Outcome, error) { return f.tracker.LogExerciseByKey(ctx, "yoga", 0) },
		"zero weight":       func() (Outcome, error) { return f.tracker.RecordWeight(ctx, 0) },
		"negative age":      func() (Outcome, error) { return f.tracker.UpdateProfile(ctx, profile.Patch{Age: &negAge}) },
		"unknown theme":     func() (Outcome, error) { return f.tracker.UpdateProfile(ctx, profile.Patch{Theme: &badTheme}) },
		"negative steps":    func() (Outcome, error) { return f.tracker.SetSteps(ctx, -1) },
	}
	for name, call := range checks {
		t.Run(name, func(t *testing.T) {
			_, err := call()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}

	_, s := f.tracker.Snapshot(ctx)
	if s.Water != 0 || len(s.Meals) != 0 || len(s.Exercises) != 0 {
		t.Fatalf("rejected input must not mutate state: %+v", s)
	}
}

func TestLenientModeAcceptsOutOfDomainValues(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	out, err := f.tracker.LogMeal(ctx, "Refund", -100, "Brunch")
	if err != nil {
		t.Fatalf("expected lenient mode to accept input, got %v", err)
	}
	if out.Stats.CaloriesConsumed != -100 || out.Stats.Meals[0].Type != "Brunch" {
		t.Fatalf("expected value to flow through, got %+v", out.Stats)
	}

	out, err = f.tracker.LogExerciseByKey(ctx, "walking", 0)
	if err != nil || out.Stats.Exercises[0].CaloriesBurned != 0 {
		t.Fatalf("expected zero-duration exercise accepted, got %+v err=%v", out.Stats, err)
	}

	negAge := -5
	out, err = f.tracker.UpdateProfile(ctx, profile.Patch{Age: &negAge})
	if err != nil || out.Profile.Age != -5 {
		t.Fatalf("expected negative age accepted, got %+v err=%v", out.Profile, err)
	}
}

func TestRecordWeightOverwritesCurrentWeight(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	out, err := f.tracker.RecordWeight(ctx, 78.4)
	if err != nil {
		t.Fatalf("record weight: %v", err)
	}
	if out.Profile.CurrentWeight != 78.4 {
		t.Fatalf("expected current weight 78.4, got %v", out.Profile.CurrentWeight)
	}
	if len(out.Stats.WeightLogs) != 0 {
		t.Fatalf("expected no weight log entries, got %v", out.Stats.WeightLogs)
	}

	reopened, err := Open(ctx, f.kv, Options{Clock: f.clock})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if p, _ := reopened.Snapshot(ctx); p.CurrentWeight != 78.4 {
		t.Fatalf("expected persisted weight 78.4, got %v", p.CurrentWeight)
	}
}

func TestApplyRecommendedCalorieGoal(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	age := 30
	if _, err := f.tracker.UpdateProfile(ctx, profile.Patch{Age: &age}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	out, err := f.tracker.ApplyRecommendedCalorieGoal(ctx)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Profile.CalorieGoal != 1599 {
		t.Fatalf("expected calorie goal 1599, got %d", out.Profile.CalorieGoal)
	}
}

func TestSteps(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _ = f.tracker.AddSteps(ctx, 1200)
	out, _ := f.tracker.AddSteps(ctx, 800)
	if out.Stats.Steps != 2000 {
		t.Fatalf("expected 2000 steps, got %d", out.Stats.Steps)
	}
	out, _ = f.tracker.SetSteps(ctx, 4321)
	if out.Stats.Steps != 4321 {
		t.Fatalf("expected 4321 steps, got %d", out.Stats.Steps)
	}
	if d := f.tracker.Dashboard(ctx); d.Metrics.StepsProgress <= 86 || d.Metrics.StepsProgress >= 87 {
		t.Fatalf("unexpected steps progress %v", d.Metrics.StepsProgress)
	}
}

func TestAutoRolloverAtMidnight(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _ = f.tracker.AddWater(ctx, 750)
	_, _ = f.tracker.LogMeal(ctx, "Toast", 180, "Breakfast")

	f.clock.Set(time.Date(2024, 1, 2, 0, 5, 0, 0, time.UTC))
	d := f.tracker.Dashboard(ctx)
	if d.Date != "2024-01-02" {
		t.Fatalf("expected date 2024-01-02, got %s", d.Date)
	}
	if d.Stats.Water != 0 || d.Stats.CaloriesConsumed != 0 || len(d.Stats.Meals) != 0 {
		t.Fatalf("expected empty day after midnight, got %+v", d.Stats)
	}
	if f.obs.rollovers != 1 {
		t.Fatalf("expected one rollover, got %d", f.obs.rollovers)
	}

	var rec daily.Record
	if _, err := storage.LoadJSON(ctx, f.kv, storage.KeyStats, &rec); err != nil {
		t.Fatalf("load record: %v", err)
	}
	if rec.Date != "2024-01-02" || rec.Data.Water != 0 {
		t.Fatalf("expected persisted empty day, got %+v", rec)
	}
}

func TestRolloverDisabledKeepsSessionDay(t *testing.T) {
	kv := memory.New()
	clk := clock.NewFixed(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC))
	tr, _ := Open(context.Background(), kv, Options{Clock: clk, IDs: &clock.Sequence{}, Strict: true})
	ctx := context.Background()

	_, _ = tr.AddWater(ctx, 500)
	clk.Advance(2 * time.Hour)
	out, _ := tr.AddWater(ctx, 500)
	if out.Stats.Water != 1000 {
		t.Fatalf("expected session to keep accumulating without rollover, got %d", out.Stats.Water)
	}

	// Saves are tagged with the current date, so a restart keeps the carried-over day.
	reopened, _ := Open(ctx, kv, Options{Clock: clk})
	if _, s := reopened.Snapshot(ctx); s.Water != 1000 {
		t.Fatalf("expected restored water 1000, got %d", s.Water)
	}
}

func TestPersistenceFailureIsWarning(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.kv.FailSaves = errors.New("read-only filesystem")

	var buf bytes.Buffer
	f.tracker.opts.Logger = log.New(&buf, "", 0)

	out, err := f.tracker.AddWater(ctx, 300)
	if err != nil {
		t.Fatalf("persistence failure must not abort the mutation: %v", err)
	}
	if out.Warning == nil {
		t.Fatal("expected warning for failed save")
	}
	if out.Stats.Water != 300 {
		t.Fatalf("expected in-memory water 300, got %d", out.Stats.Water)
	}
	if len(f.obs.failures) != 1 || f.obs.failures[0] != "add_water" {
		t.Fatalf("expected persist failure recorded, got %v", f.obs.failures)
	}
	if !strings.Contains(buf.String(), "WARN tracker: persist op=add_water") {
		t.Fatalf("expected warning log, got: %s", buf.String())
	}
}
