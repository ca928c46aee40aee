package handlers

import (
	"context"
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/notify"
)

// Features reports which optional collaborators are active, for the
// diagnostic /status command.
type Features struct {
	Store      bool
	Operator   bool
	Contact    bool
	RedisCache bool
	Sentry     bool
}

// NewStatusHandler returns the /status diagnostic handler.
func NewStatusHandler(features Features) Handler {
	return func(c telebot.Context) error {
		var b strings.Builder
		b.WriteString("Диагностика:\n")
		fmt.Fprintf(&b, "• база лидов: %s\n", onOff(features.Store))
		fmt.Fprintf(&b, "• уведомления оператору: %s\n", onOff(features.Operator))
		fmt.Fprintf(&b, "• кнопка контакта: %s\n", onOff(features.Contact))
		fmt.Fprintf(&b, "• redis-кэш: %s\n", onOff(features.RedisCache))
		fmt.Fprintf(&b, "• sentry: %s\n", onOff(features.Sentry))
		b.WriteString("• метрики и healthz: включено")

		return c.Send(b.String())
	}
}

// NewTestNotifyHandler returns the /test_notify handler that sends a test
// summary to the operator channel.
func NewTestNotifyHandler(deps Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if !deps.Notifier.Enabled() {
			return c.Send("Операторский канал не настроен.")
		}

		deps.Notifier.NotifyOperator(context.Background(), notify.Identity{
			UserID:    sender.ID,
			Username:  sender.Username,
			FirstName: sender.FirstName,
			LastName:  sender.LastName,
		})

		return c.Send("Тестовое уведомление отправлено оператору.")
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "включено"
	}
	return "выключено"
}
