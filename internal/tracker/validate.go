package tracker

import (
	"math"
	"strings"

	"github.com/fdg312/vitalis/internal/daily"
	"github.com/fdg312/vitalis/internal/profile"
)

func validatePositiveInt(field string, v int) error {
	if v <= 0 {
		return invalid(field, "must be > 0, got %d", v)
	}
	return nil
}

func validateNonNegativeInt(field string, v int) error {
	if v < 0 {
		return invalid(field, "must be >= 0, got %d", v)
	}
	return nil
}

func validatePositiveFloat(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid(field, "must be > 0, got %v", v)
	}
	return nil
}

func validateMeal(name string, calories int, mealType string) (daily.MealType, error) {
	if strings.TrimSpace(name) == "" {
		return "", invalid("name", "must not be empty")
	}
	if err := validateNonNegativeInt("calories", calories); err != nil {
		return "", err
	}
	t, ok := daily.ParseMealType(mealType)
	if !ok {
		return "", invalid("type", "must be one of Breakfast, Lunch, Dinner, Snack; got %q", mealType)
	}
	return t, nil
}

func validatePatch(p profile.Patch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if p.Age != nil {
		if err := validatePositiveInt("age", *p.Age); err != nil {
			return err
		}
	}
	if p.Gender != nil && !profile.Gender(strings.ToLower(string(*p.Gender))).Valid() {
		return invalid("gender", "must be male or female; got %q", *p.Gender)
	}
	for field, v := range map[string]*float64{
		"height":        p.Height,
		"currentWeight": p.CurrentWeight,
		"targetWeight":  p.TargetWeight,
	} {
		if v == nil {
			continue
		}
		if err := validatePositiveFloat(field, *v); err != nil {
			return err
		}
	}
	for field, v := range map[string]*int{
		"stepGoal":    p.StepGoal,
		"waterGoal":   p.WaterGoal,
		"calorieGoal": p.CalorieGoal,
	} {
		if v == nil {
			continue
		}
		if err := validateNonNegativeInt(field, *v); err != nil {
			return err
		}
	}
	if p.Theme != nil && !profile.Theme(strings.ToLower(string(*p.Theme))).Valid() {
		return invalid("theme", "unknown theme %q", *p.Theme)
	}
	return nil
}
