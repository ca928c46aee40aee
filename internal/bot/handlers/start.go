package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
)

// NewStartHandler returns the /start command handler: welcome text plus the
// emotional state menu. The lead row is created (or refreshed) in the
// background; the reply never waits on the store.
func NewStartHandler(deps Deps) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			deps.logger().Warn("start handler invoked without sender")
			return nil
		}

		patch := identityPatch(sender)
		patch.LastStep = domain.StepStart

		userID := sender.ID
		deps.Tasks.Go("lead.upsert.start", func(ctx context.Context) {
			deps.Store.Upsert(ctx, userID, patch)
		})

		deps.logger().Info("flow started", slog.Int64("user_id", userID))

		return c.Send(flow.WelcomeText, deps.Keyboard.StateMenu())
	}
}
