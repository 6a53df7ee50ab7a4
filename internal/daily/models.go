package daily

import (
	"encoding/json"
	"strings"
)

// MaxWaterMl — дневной потолок учёта воды.
const MaxWaterMl = 5000

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Labels written by earlier Turkish-language builds of the app.
var legacyMealTypes = map[string]MealType{
	"kahvaltı":     MealBreakfast,
	"öğle yemeği":  MealLunch,
	"akşam yemeği": MealDinner,
	"atıştırmalık": MealSnack,
}

// ParseMealType accepts the canonical names (any case) and the legacy labels.
func ParseMealType(s string) (MealType, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, t := range MealTypes {
		if strings.ToLower(string(t)) == key {
			return t, true
		}
	}
	t, ok := legacyMealTypes[key]
	return t, ok
}

func (t MealType) Valid() bool {
	_, ok := ParseMealType(string(t))
	return ok
}

func (t *MealType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, ok := ParseMealType(raw); ok {
		*t = parsed
		return nil
	}
	*t = MealType(raw)
	return nil
}

type Meal struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	Time     string   `json:"time"`
	Type     MealType `json:"type"`
}

type Exercise struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Duration       int    `json:"duration"` // minutes
	CaloriesBurned int    `json:"caloriesBurned"`
	Time           string `json:"time"`
}

// WeightLog зарезервирован: текущие операции его не заполняют.
type WeightLog struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// Stats — счётчики и журналы текущего дня. Списки хранятся от новых к старым.
type Stats struct {
	Steps            int         `json:"steps"`
	Water            int         `json:"water"` // ml
	CaloriesConsumed int         `json:"caloriesConsumed"`
	CaloriesBurned   int         `json:"caloriesBurned"`
	Meals            []Meal      `json:"meals"`
	Exercises        []Exercise  `json:"exercises"`
	WeightLogs       []WeightLog `json:"weightLogs"`
}

// Empty returns zeroed counters with non-nil lists.
func Empty() Stats {
	return Stats{
		Meals:      []Meal{},
		Exercises:  []Exercise{},
		WeightLogs: []WeightLog{},
	}
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	out := s
	out.Meals = append(make([]Meal, 0, len(s.Meals)), s.Meals...)
	out.Exercises = append(make([]Exercise, 0, len(s.Exercises)), s.Exercises...)
	out.WeightLogs = append(make([]WeightLog, 0, len(s.WeightLogs)), s.WeightLogs...)
	return out
}

// Recount derives the calorie totals from the meal and exercise lists.
func (s *Stats) Recount() {
	consumed := 0
	for _, m := range s.Meals {
		consumed += m.Calories
	}
	burned := 0
	for _, e := range s.Exercises {
		burned += e.CaloriesBurned
	}
	s.CaloriesConsumed = consumed
	s.CaloriesBurned = burned
}

// Record — формат хранения: статистика вместе с датой, к которой она относится.
type Record struct {
	Date string `json:"date"`
	Data Stats  `json:"data"`
}
