package reminders

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier доставляет сработавшее напоминание пользователю.
type Notifier interface {
	Notify(ctx context.Context, r Reminder, detail string) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct {
	Logger Logger
}

func (n LogNotifier) Notify(_ context.Context, r Reminder, detail string) error {
	if n.Logger != nil {
		n.Logger.Printf("INFO reminder: %s", FormatMessage(r, detail))
	}
	return nil
}

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends reminders to a single chat through the Bot API.
type TelegramNotifier struct {
	bot    messageSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoBotToken
	}
	if chatID == 0 {
		return nil, ErrNoChatID
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, r Reminder, detail string) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatMessage(r, detail))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// NewNotifier builds a notifier for mode local|telegram. A telegram init failure falls back to local.
func NewNotifier(mode, token string, chatID int64, logger Logger) (Notifier, string) {
	if mode != "telegram" {
		logf(logger, "INFO reminders: notifier=local")
		return LogNotifier{Logger: logger}, "local"
	}
	tn, err := NewTelegramNotifier(token, chatID)
	if err != nil {
		logf(logger, "WARN reminders: telegram init_failed=%q, fallback=local", err.Error())
		return LogNotifier{Logger: logger}, "local"
	}
	logf(logger, "INFO reminders: notifier=telegram chat_id=%d", chatID)
	return tn, "telegram"
}

var typeIcons = map[Type]string{
	TypeWater: "💧",
	TypeMeal:  "🍽",
	TypeSteps: "👟",
}

// FormatMessage renders "<icon> HH:MM Label" plus an optional detail line.
func FormatMessage(r Reminder, detail string) string {
	icon, ok := typeIcons[r.Type]
	if !ok {
		icon = "⏰"
	}
	text := fmt.Sprintf("%s %s %s", icon, r.Time, r.Label)
	if detail != "" {
		text += "\n" + detail
	}
	return text
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
