package tracker

import (
	"github.com/fdg312/vitalis/internal/daily"
	"github.com/fdg312/vitalis/internal/metrics"
	"github.com/fdg312/vitalis/internal/profile"
)

// Outcome — результат мутации. Warning заполняется, если состояние изменено в памяти,
// но сохранить его не удалось.
type Outcome struct {
	Date    string
	Stats   daily.Stats
	Profile profile.Profile
	Changed bool
	Warning error
}

// Dashboard — всё, что нужно слою представления: профиль, статистика дня и метрики.
type Dashboard struct {
	Date    string          `json:"date"`
	Profile profile.Profile `json:"profile"`
	Stats   daily.Stats     `json:"stats"`
	Metrics metrics.Summary `json:"metrics"`
}

// Dashboard recomputes metrics for the post-mutation state.
func (o Outcome) Dashboard() Dashboard {
	return Dashboard{
		Date:    o.Date,
		Profile: o.Profile,
		Stats:   o.Stats,
		Metrics: metrics.Compute(o.Profile, o.Stats),
	}
}

// DashboardResponse — ответ мутирующих эндпоинтов.
type DashboardResponse struct {
	Dashboard
	Changed bool   `json:"changed"`
	Warning string `json:"warning,omitempty"`
}

type AddWaterRequest struct {
	AmountMl *int `json:"amount_ml"`
}

type StepsRequest struct {
	Steps int `json:"steps"`
}

type LogMealRequest struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Type     string `json:"type"`
}

type LogPresetRequest struct {
	Name string `json:"name"`
}

type LogExerciseRequest struct {
	Kind     string `json:"kind"`
	Duration int    `json:"duration"` // minutes
}

type RecordWeightRequest struct {
	Weight float64 `json:"weight"`
}
