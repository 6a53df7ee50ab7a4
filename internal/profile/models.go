package profile

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Theme string

const (
	ThemeAmethyst Theme = "amethyst"
	ThemeEmerald  Theme = "emerald"
	ThemeCrimson  Theme = "crimson"
	ThemeOcean    Theme = "ocean"
	ThemeGold     Theme = "gold"
)

var Themes = []Theme{ThemeAmethyst, ThemeEmerald, ThemeCrimson, ThemeOcean, ThemeGold}

func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Profile — биометрия и цели пользователя. JSON-имена совпадают с сохранёнными данными устройства.
type Profile struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Gender        Gender  `json:"gender"`
	Height        float64 `json:"height"`        // cm
	CurrentWeight float64 `json:"currentWeight"` // kg
	TargetWeight  float64 `json:"targetWeight"`  // kg
	StepGoal      int     `json:"stepGoal"`
	WaterGoal     int     `json:"waterGoal"` // ml
	CalorieGoal   int     `json:"calorieGoal"`
	Theme         Theme   `json:"theme"`
}

// Default returns the first-run profile.
func Default() Profile {
	return Profile{
		Name:          "User",
		Age:           25,
		Gender:        GenderMale,
		Height:        175,
		CurrentWeight: 80,
		TargetWeight:  70,
		StepGoal:      5000,
		WaterGoal:     2000,
		CalorieGoal:   2000,
		Theme:         ThemeAmethyst,
	}
}

// Patch — частичное обновление профиля; nil-поля сохраняют прежнее значение.
type Patch struct {
	Name          *string  `json:"name,omitempty"`
	Age           *int     `json:"age,omitempty"`
	Gender        *Gender  `json:"gender,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	CurrentWeight *float64 `json:"currentWeight,omitempty"`
	TargetWeight  *float64 `json:"targetWeight,omitempty"`
	StepGoal      *int     `json:"stepGoal,omitempty"`
	WaterGoal     *int     `json:"waterGoal,omitempty"`
	CalorieGoal   *int     `json:"calorieGoal,omitempty"`
	Theme         *Theme   `json:"theme,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Gender == nil && p.Height == nil &&
		p.CurrentWeight == nil && p.TargetWeight == nil && p.StepGoal == nil &&
		p.WaterGoal == nil && p.CalorieGoal == nil && p.Theme == nil
}

// Apply merges the set fields of p over base.
func (p Patch) Apply(base Profile) Profile {
	out := base
	if p.Name != nil {
		out.Name = strings.TrimSpace(*p.Name)
	}
	if p.Age != nil {
		out.Age = *p.Age
	}
	if p.Gender != nil {
		out.Gender = Gender(strings.ToLower(string(*p.Gender)))
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.CurrentWeight != nil {
		out.CurrentWeight = *p.CurrentWeight
	}
	if p.TargetWeight != nil {
		out.TargetWeight = *p.TargetWeight
	}
	if p.StepGoal != nil {
		out.StepGoal = *p.StepGoal
	}
	if p.WaterGoal != nil {
		out.WaterGoal = *p.WaterGoal
	}
	if p.CalorieGoal != nil {
		out.CalorieGoal = *p.CalorieGoal
	}
	if p.Theme != nil {
		out.Theme = Theme(strings.ToLower(string(*p.Theme)))
	}
	return out
}
