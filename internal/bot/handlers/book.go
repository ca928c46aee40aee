package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
	"github.com/calmaflow/calma-bot/internal/notify"
)

// NewBookHandler returns the handler for the terminal `book` callback. The
// confirmation goes through the delivery fallback sender and the operator
// is notified in the background, after the user already has their reply.
func NewBookHandler(deps Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ackCallback(c)

		userID := sender.ID
		patch := identityPatch(sender)
		patch.LastStep = domain.StepBooked
		deps.Tasks.Go("lead.upsert.booked", func(ctx context.Context) {
			deps.Store.Upsert(ctx, userID, patch)
		})

		markup := deps.Keyboard.ContactButton(deps.ContactURL)
		if !deps.Sender.DeliverFinal(c, flow.BookedText, markup) {
			deps.logger().Error("booking confirmation undeliverable", slog.Int64("user_id", userID))
		}

		identity := notify.Identity{
			UserID:    userID,
			Username:  sender.Username,
			FirstName: sender.FirstName,
			LastName:  sender.LastName,
		}
		deps.Tasks.Go("notify.operator", func(ctx context.Context) {
			deps.Notifier.NotifyOperator(ctx, identity)
		})

		deps.logger().Info("booking confirmed", slog.Int64("user_id", userID))

		return nil
	}
}
