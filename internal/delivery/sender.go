// Package delivery sends the final booking confirmation through an ordered
// list of channels until one succeeds. The confirmation is the single most
// important message in the flow and must be tried on every available
// channel before giving up.
package delivery

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/pkg/metrics"
)

// API is the slice of the Telegram client the sender needs for the direct
// send strategy.
type API interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Strategy is a single delivery attempt. Implementations report failure via
// error; the sender moves to the next strategy.
type Strategy struct {
	Name string
	Run  func() error
}

// Sender tries delivery strategies in order and short-circuits on the first
// success.
type Sender struct {
	api API
	log *slog.Logger
}

// NewSender constructs a Sender using api for direct sends.
func NewSender(api API, log *slog.Logger) *Sender {
	if log == nil {
		log = slog.Default()
	}

	return &Sender{api: api, log: log}
}

// DeliverFinal attempts, strictly in order: edit the message attached to
// the triggering callback, direct send to the resolved chat, generic reply
// on the triggering context. Each failure is logged and the next strategy
// is tried; only exhausting all three yields false.
func (s *Sender) DeliverFinal(c telebot.Context, text string, markup *telebot.ReplyMarkup) bool {
	return s.run(s.strategies(c, text, markup))
}

func (s *Sender) run(strategies []Strategy) bool {
	for _, strategy := range strategies {
		if strategy.Run == nil {
			continue
		}

		if err := strategy.Run(); err != nil {
			metrics.RecordDeliveryAttempt(strategy.Name, "error")
			s.log.Warn("delivery attempt failed",
				slog.String("strategy", strategy.Name),
				slog.Any("error", err),
			)
			continue
		}

		metrics.RecordDeliveryAttempt(strategy.Name, "ok")
		return true
	}

	s.log.Error("all delivery strategies exhausted")
	return false
}

func (s *Sender) strategies(c telebot.Context, text string, markup *telebot.ReplyMarkup) []Strategy {
	var strategies []Strategy

	if cb := c.Callback(); cb != nil && cb.Message != nil {
		strategies = append(strategies, Strategy{
			Name: "edit",
			Run: func() error {
				if markup != nil {
					return c.Edit(text, markup)
				}
				return c.Edit(text)
			},
		})
	}

	if chat := c.Chat(); chat != nil && s.api != nil {
		recipient := &telebot.Chat{ID: chat.ID}
		strategies = append(strategies, Strategy{
			Name: "send",
			Run: func() error {
				var err error
				if markup != nil {
					_, err = s.api.Send(recipient, text, markup)
				} else {
					_, err = s.api.Send(recipient, text)
				}
				return err
			},
		})
	}

	// Generic reply is the last resort and is always attempted.
	strategies = append(strategies, Strategy{
		Name: "reply",
		Run: func() error {
			if markup != nil {
				return c.Send(text, markup)
			}
			return c.Send(text)
		},
	})

	return strategies
}
