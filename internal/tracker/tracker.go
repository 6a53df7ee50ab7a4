package tracker

import (
	"context"
	"strings"
	"sync"

	"github.com/fdg312/vitalis/internal/catalog"
	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/daily"
	"github.com/fdg312/vitalis/internal/metrics"
	"github.com/fdg312/vitalis/internal/profile"
	"github.com/fdg312/vitalis/internal/storage"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Observer получает события трекера (счётчики телеметрии).
type Observer interface {
	EventRecorded(op string)
	PersistFailed(op string)
	RolledOver()
}

type Options struct {
	Clock   clock.Clock
	IDs     clock.IDGenerator
	Catalog catalog.Catalog

	// Strict rejects out-of-domain input with *ValidationError.
	Strict bool
	// AutoRollover re-checks the calendar date before every operation.
	AutoRollover bool

	Logger   Logger
	Observer Observer
}

// Tracker — единственная точка мутации профиля и дневной статистики.
type Tracker struct {
	mu       sync.Mutex
	profiles *profile.Store
	stats    *daily.Store
	opts     Options
}

// Open loads both stores from kv and returns a ready tracker.
func Open(ctx context.Context, kv storage.KV, opts Options) (*Tracker, error) {
	opts = withDefaults(opts)

	profiles, err := profile.Load(ctx, kv, opts.Logger)
	if err != nil {
		return nil, err
	}
	stats, err := daily.Load(ctx, kv, clock.Today(opts.Clock), opts.Logger)
	if err != nil {
		return nil, err
	}
	return New(profiles, stats, opts), nil
}

func New(profiles *profile.Store, stats *daily.Store, opts Options) *Tracker {
	return &Tracker{profiles: profiles, stats: stats, opts: withDefaults(opts)}
}

func withDefaults(opts Options) Options {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.IDs == nil {
		opts.IDs = clock.ShortIDs{}
	}
	if len(opts.Catalog.Exercises) == 0 && len(opts.Catalog.Foods) == 0 {
		opts.Catalog = catalog.Default()
	}
	return opts
}

func (t *Tracker) Catalog() catalog.Catalog {
	return t.opts.Catalog
}

// AddWater adds amountMl, capping the day total at daily.MaxWaterMl without error.
func (t *Tracker) AddWater(ctx context.Context, amountMl int) (Outcome, error) {
	if t.opts.Strict {
		if err := validatePositiveInt("amount", amountMl); err != nil {
			return Outcome{}, err
		}
	}
	return t.mutateStats(ctx, "add_water", func(s *daily.Stats) {
		s.Water = min(max(s.Water+amountMl, 0), daily.MaxWaterMl)
	})
}

func (t *Tracker) AddSteps(ctx context.Context, steps int) (Outcome, error) {
	if t.opts.Strict {
		if err := validatePositiveInt("steps", steps); err != nil {
			return Outcome{}, err
		}
	}
	return t.mutateStats(ctx, "add_steps", func(s *daily.Stats) {
		s.Steps = max(s.Steps+steps, 0)
	})
}

func (t *Tracker) SetSteps(ctx context.Context, steps int) (Outcome, error) {
	if t.opts.Strict {
		if err := validateNonNegativeInt("steps", steps); err != nil {
			return Outcome{}, err
		}
	}
	return t.mutateStats(ctx, "set_steps", func(s *daily.Stats) {
		s.Steps = max(steps, 0)
	})
}

// LogMeal prepends a new meal stamped with the current wall time.
func (t *Tracker) LogMeal(ctx context.Context, name string, calories int, mealType string) (Outcome, error) {
	typ, ok := daily.ParseMealType(mealType)
	if t.opts.Strict {
		var err error
		if typ, err = validateMeal(name, calories, mealType); err != nil {
			return Outcome{}, err
		}
	} else if !ok {
		typ = daily.MealType(mealType)
	}

	meal := daily.Meal{
		ID:       t.opts.IDs.NewID(),
		Name:     strings.TrimSpace(name),
		Calories: calories,
		Time:     clock.HHMM(t.opts.Clock),
		Type:     typ,
	}
	return t.mutateStats(ctx, "log_meal", func(s *daily.Stats) {
		s.Meals = append([]daily.Meal{meal}, s.Meals...)
	})
}

// LogPreset logs a meal from the food catalog.
func (t *Tracker) LogPreset(ctx context.Context, presetName string) (Outcome, error) {
	food, err := t.opts.Catalog.Food(presetName)
	if err != nil {
		return Outcome{}, err
	}
	return t.LogMeal(ctx, food.Name, food.Calories, string(food.Type))
}

// LogExercise prepends an exercise burning kind.CaloriesPerMinute * durationMin.
func (t *Tracker) LogExercise(ctx context.Context, kind catalog.ExerciseKind, durationMin int) (Outcome, error) {
	if t.opts.Strict {
		if err := validatePositiveInt("duration", durationMin); err != nil {
			return Outcome{}, err
		}
	}

	ex := daily.Exercise{
		ID:             t.opts.IDs.NewID(),
		Name:           kind.Name,
		Duration:       durationMin,
		CaloriesBurned: kind.CaloriesPerMinute * durationMin,
		Time:           clock.HHMM(t.opts.Clock),
	}
	return t.mutateStats(ctx, "log_exercise", func(s *daily.Stats) {
		s.Exercises = append([]daily.Exercise{ex}, s.Exercises...)
	})
}

// LogExerciseByKey resolves the kind in the catalog; unknown kinds return catalog.ErrUnknownExercise.
func (t *Tracker) LogExerciseByKey(ctx context.Context, key string, durationMin int) (Outcome, error) {
	kind, err := t.opts.Catalog.Exercise(key)
	if err != nil {
		return Outcome{}, err
	}
	return t.LogExercise(ctx, kind, durationMin)
}

// DeleteMeal removes the meal with id. An unknown id is a no-op (Changed=false).
func (t *Tracker) DeleteMeal(ctx context.Context, id string) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rollWarn := t.rollOverLocked(ctx)
	current := t.stats.Get()
	idx := -1
	for i, m := range current.Meals {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Outcome{Date: t.stats.Date(), Stats: current, Profile: t.profiles.Get(), Warning: rollWarn}, nil
	}
	return t.updateStatsLocked(ctx, "delete_meal", rollWarn, func(s *daily.Stats) {
		s.Meals = append(s.Meals[:idx:idx], s.Meals[idx+1:]...)
	}), nil
}

// DeleteExercise is symmetric to DeleteMeal.
func (t *Tracker) DeleteExercise(ctx context.Context, id string) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rollWarn := t.rollOverLocked(ctx)
	current := t.stats.Get()
	idx := -1
	for i, e := range current.Exercises {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Outcome{Date: t.stats.Date(), Stats: current, Profile: t.profiles.Get(), Warning: rollWarn}, nil
	}
	return t.updateStatsLocked(ctx, "delete_exercise", rollWarn, func(s *daily.Stats) {
		s.Exercises = append(s.Exercises[:idx:idx], s.Exercises[idx+1:]...)
	}), nil
}

// RecordWeight overwrites the profile's current weight. No WeightLog entry is appended.
func (t *Tracker) RecordWeight(ctx context.Context, weightKg float64) (Outcome, error) {
	if t.opts.Strict {
		if err := validatePositiveFloat("weight", weightKg); err != nil {
			return Outcome{}, err
		}
	}
	return t.mutateProfile(ctx, "record_weight", func(profile.Profile) profile.Patch {
		return profile.Patch{CurrentWeight: &weightKg}
	})
}

// ApplyRecommendedCalorieGoal stores metrics.RecommendedCalories as the calorie goal.
func (t *Tracker) ApplyRecommendedCalorieGoal(ctx context.Context) (Outcome, error) {
	return t.mutateProfile(ctx, "apply_recommended_calories", func(p profile.Profile) profile.Patch {
		goal := metrics.RecommendedCalories(p)
		return profile.Patch{CalorieGoal: &goal}
	})
}

// UpdateProfile merges patch into the profile.
func (t *Tracker) UpdateProfile(ctx context.Context, patch profile.Patch) (Outcome, error) {
	if t.opts.Strict {
		if err := validatePatch(patch); err != nil {
			return Outcome{}, err
		}
	}
	return t.mutateProfile(ctx, "update_profile", func(profile.Profile) profile.Patch {
		return patch
	})
}

// Snapshot returns the current profile and today's stats.
func (t *Tracker) Snapshot(ctx context.Context) (profile.Profile, daily.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollOverLocked(ctx)
	return t.profiles.Get(), t.stats.Get()
}

// Dashboard returns the snapshot together with freshly computed metrics.
func (t *Tracker) Dashboard(ctx context.Context) Dashboard {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollOverLocked(ctx)
	p := t.profiles.Get()
	s := t.stats.Get()
	return Dashboard{
		Date:    t.stats.Date(),
		Profile: p,
		Stats:   s,
		Metrics: metrics.Compute(p, s),
	}
}

func (t *Tracker) mutateStats(ctx context.Context, op string, fn func(*daily.Stats)) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rollWarn := t.rollOverLocked(ctx)
	return t.updateStatsLocked(ctx, op, rollWarn, fn), nil
}

func (t *Tracker) updateStatsLocked(ctx context.Context, op string, prevWarn error, fn func(*daily.Stats)) Outcome {
	stats, err := t.stats.Update(ctx, clock.Today(t.opts.Clock), fn)
	t.recorded(op, err)
	if err == nil {
		err = prevWarn
	}
	return Outcome{Date: t.stats.Date(), Stats: stats, Profile: t.profiles.Get(), Changed: true, Warning: err}
}

func (t *Tracker) mutateProfile(ctx context.Context, op string, build func(profile.Profile) profile.Patch) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rollWarn := t.rollOverLocked(ctx)
	p, err := t.profiles.Set(ctx, build(t.profiles.Get()))
	t.recorded(op, err)
	if err == nil {
		err = rollWarn
	}
	return Outcome{Date: t.stats.Date(), Stats: t.stats.Get(), Profile: p, Changed: true, Warning: err}, nil
}

func (t *Tracker) rollOverLocked(ctx context.Context) error {
	if !t.opts.AutoRollover {
		return nil
	}
	rolled, err := t.stats.RollOver(ctx, clock.Today(t.opts.Clock))
	if rolled && t.opts.Observer != nil {
		t.opts.Observer.RolledOver()
	}
	if err != nil {
		t.logf("WARN tracker: persist rollover: %v", err)
		if t.opts.Observer != nil {
			t.opts.Observer.PersistFailed("rollover")
		}
	}
	return err
}

func (t *Tracker) recorded(op string, persistErr error) {
	if t.opts.Observer != nil {
		t.opts.Observer.EventRecorded(op)
	}
	if persistErr == nil {
		return
	}
	t.logf("WARN tracker: persist op=%s: %v", op, persistErr)
	if t.opts.Observer != nil {
		t.opts.Observer.PersistFailed(op)
	}
}

func (t *Tracker) logf(format string, v ...any) {
	if t.opts.Logger == nil {
		return
	}
	t.opts.Logger.Printf(format, v...)
}
