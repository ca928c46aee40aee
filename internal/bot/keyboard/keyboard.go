// Package keyboard builds the inline menus for the lead-qualification flow.
package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
)

// Builder creates inline keyboards for each step of the flow.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{log: log}
}

// StateMenu builds the three-option emotional state menu.
func (b *Builder) StateMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: "😰 " + domain.StatusAnxiety.Label(),
				Data: flow.CallbackStatePrefix + string(domain.StatusAnxiety),
			},
		},
		{
			{
				Text: "🪫 " + domain.StatusFatigue.Label(),
				Data: flow.CallbackStatePrefix + string(domain.StatusFatigue),
			},
		},
		{
			{
				Text: "🧱 " + domain.StatusTension.Label(),
				Data: flow.CallbackStatePrefix + string(domain.StatusTension),
			},
		},
	}
	return markup
}

// DoneButton builds the single confirmation button under the technique.
func (b *Builder) DoneButton() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: "Готово ✅",
				Data: flow.CallbackDone,
			},
		},
	}
	return markup
}

// FrequencyMenu builds the three-option frequency menu.
func (b *Builder) FrequencyMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: domain.FrequencyRare.Label(),
				Data: flow.CallbackFreqPrefix + string(domain.FrequencyRare),
			},
		},
		{
			{
				Text: domain.FrequencyWeekly.Label(),
				Data: flow.CallbackFreqPrefix + string(domain.FrequencyWeekly),
			},
		},
		{
			{
				Text: domain.FrequencyDaily.Label(),
				Data: flow.CallbackFreqPrefix + string(domain.FrequencyDaily),
			},
		},
	}
	return markup
}

// BookButton builds the booking call-to-action under the offer.
func (b *Builder) BookButton() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: "Записаться 📅",
				Data: flow.CallbackBook,
			},
		},
	}
	return markup
}

// ContactButton builds the optional link button under the final
// confirmation. Returns nil when no contact URL is configured, in which
// case the confirmation goes out without markup.
func (b *Builder) ContactButton(contactURL string) *telebot.ReplyMarkup {
	if contactURL == "" {
		return nil
	}

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: "Написать Марии 💬",
				URL:  contactURL,
			},
		},
	}
	return markup
}
