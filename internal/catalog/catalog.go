package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fdg312/vitalis/internal/daily"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise kind")
	ErrUnknownPreset   = errors.New("unknown food preset")
)

// ExerciseKind — вид активности со своей скоростью расхода калорий.
type ExerciseKind struct {
	Key               string `json:"key" yaml:"key"`
	Name              string `json:"name" yaml:"name"`
	CaloriesPerMinute int    `json:"caloriesPerMinute" yaml:"calories_per_minute"`
}

// FoodPreset — быстрый шаблон приёма пищи.
type FoodPreset struct {
	Name     string         `json:"name" yaml:"name"`
	Calories int            `json:"calories" yaml:"calories"`
	Type     daily.MealType `json:"type" yaml:"type"`
}

type Catalog struct {
	Exercises []ExerciseKind `json:"exercises" yaml:"exercises"`
	Foods     []FoodPreset   `json:"foods" yaml:"foods"`
}

// Default returns the built-in exercise kinds and food presets.
func Default() Catalog {
	return Catalog{
		Exercises: []ExerciseKind{
			{Key: "running", Name: "Running", CaloriesPerMinute: 10},
			{Key: "walking", Name: "Walking", CaloriesPerMinute: 4},
			{Key: "cycling", Name: "Cycling", CaloriesPerMinute: 8},
			{Key: "swimming", Name: "Swimming", CaloriesPerMinute: 12},
			{Key: "yoga", Name: "Yoga", CaloriesPerMinute: 3},
			{Key: "fitness", Name: "Fitness", CaloriesPerMinute: 7},
		},
		Foods: []FoodPreset{
			{Name: "Boiled Egg", Calories: 78, Type: daily.MealBreakfast},
			{Name: "Olives (5)", Calories: 45, Type: daily.MealBreakfast},
			{Name: "Full-fat Cheese", Calories: 95, Type: daily.MealBreakfast},
			{Name: "Grilled Chicken", Calories: 165, Type: daily.MealLunch},
			{Name: "Bulgur Pilaf (portion)", Calories: 150, Type: daily.MealLunch},
			{Name: "Salad (no oil)", Calories: 35, Type: daily.MealLunch},
			{Name: "Lentil Soup", Calories: 120, Type: daily.MealDinner},
			{Name: "Grilled Meatballs (4)", Calories: 240, Type: daily.MealDinner},
			{Name: "Yogurt (bowl)", Calories: 60, Type: daily.MealDinner},
			{Name: "Apple", Calories: 52, Type: daily.MealSnack},
			{Name: "Walnuts (2)", Calories: 65, Type: daily.MealSnack},
		},
	}
}

// LoadFile reads a YAML catalog. Sections missing from the file keep the built-in values.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var override Catalog
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &override); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	out := Default()
	if len(override.Exercises) > 0 {
		out.Exercises = override.Exercises
	}
	if len(override.Foods) > 0 {
		out.Foods = override.Foods
		for i := range out.Foods {
			if t, ok := daily.ParseMealType(string(out.Foods[i].Type)); ok {
				out.Foods[i].Type = t
			}
		}
	}
	if err := out.Validate(); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Exercises))
	for i, e := range c.Exercises {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			return fmt.Errorf("exercise #%d: key is required", i+1)
		}
		if seen[key] {
			return fmt.Errorf("exercise %q: duplicate key", key)
		}
		seen[key] = true
		if e.CaloriesPerMinute < 0 {
			return fmt.Errorf("exercise %q: calories_per_minute must be >= 0", key)
		}
	}
	for i, f := range c.Foods {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("food #%d: name is required", i+1)
		}
		if f.Calories < 0 {
			return fmt.Errorf("food %q: calories must be >= 0", f.Name)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("food %q: unknown meal type %q", f.Name, f.Type)
		}
	}
	return nil
}

// Exercise looks up a kind by key or display name, case-insensitively.
func (c Catalog) Exercise(keyOrName string) (ExerciseKind, error) {
	q := strings.ToLower(strings.TrimSpace(keyOrName))
	for _, e := range c.Exercises {
		if strings.ToLower(e.Key) == q || strings.ToLower(e.Name) == q {
			return e, nil
		}
	}
	return ExerciseKind{}, fmt.Errorf("%w: %s", ErrUnknownExercise, keyOrName)
}

// Food looks up a preset by name, case-insensitively.
func (c Catalog) Food(name string) (FoodPreset, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	for _, f := range c.Foods {
		if strings.ToLower(f.Name) == q {
			return f, nil
		}
	}
	return FoodPreset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
}
