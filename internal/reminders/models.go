package reminders

import "errors"

var (
	ErrNotFound    = errors.New("reminder not found")
	ErrInvalidTime = errors.New("time must be HH:MM")
	ErrInvalidType = errors.New("type must be water, meal or steps")
	ErrEmptyLabel  = errors.New("label cannot be empty")
	ErrNoChatID    = errors.New("TELEGRAM_CHAT_ID is required for telegram notifier")
	ErrNoBotToken  = errors.New("TELEGRAM_BOT_TOKEN is required for telegram notifier")
)

type Type string

const (
	TypeWater Type = "water"
	TypeMeal  Type = "meal"
	TypeSteps Type = "steps"
)

func (t Type) Valid() bool {
	return t == TypeWater || t == TypeMeal || t == TypeSteps
}

// Reminder — напоминание в фиксированное время суток.
type Reminder struct {
	ID      string `json:"id"`
	Time    string `json:"time"` // HH:MM
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Type    Type   `json:"type"`
}

// Defaults returns the first-run reminder list.
func Defaults() []Reminder {
	return []Reminder{
		{ID: "1", Time: "09:00", Label: "Morning Water", Enabled: true, Type: TypeWater},
		{ID: "2", Time: "13:00", Label: "Lunch Reminder", Enabled: true, Type: TypeMeal},
		{ID: "3", Time: "16:00", Label: "Walk Time", Enabled: true, Type: TypeSteps},
		{ID: "4", Time: "20:00", Label: "Evening Water", Enabled: true, Type: TypeWater},
	}
}

// UpsertRequest — запрос на создание (пустой ID) или изменение напоминания.
type UpsertRequest struct {
	ID      string `json:"id,omitempty"`
	Time    string `json:"time"`
	Label   string `json:"label"`
	Enabled *bool  `json:"enabled,omitempty"`
	Type    Type   `json:"type"`
}

// PatchRequest — пустое тело переключает флаг, enabled задаёт его явно.
type PatchRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

type RemindersResponse struct {
	Reminders []Reminder `json:"reminders"`
}
