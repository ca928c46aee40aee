package handlers

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
	"github.com/calmaflow/calma-bot/internal/leadcache"
)

// NewFrequencyHandler returns the handler for `freq:<enum>` callbacks. The
// offer text depends on the reported tier; replaying the event just
// overwrites the same cached value and sends the same reply again.
func NewFrequencyHandler(deps Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		cb := c.Callback()
		if sender == nil || cb == nil {
			return nil
		}

		raw := strings.TrimPrefix(strings.TrimSpace(cb.Data), flow.CallbackFreqPrefix)
		frequency, ok := domain.ParseFrequency(raw)
		if !ok {
			deps.logger().Info("unknown frequency payload ignored", slog.String("data", cb.Data))
			ackCallback(c)
			return nil
		}

		ackCallback(c)

		userID := sender.ID
		deps.Cache.Put(context.Background(), userID, leadcache.Patch{Frequency: &frequency})

		patch := identityPatch(sender)
		patch.Frequency = &frequency
		patch.LastStep = domain.StepOffer
		deps.Tasks.Go("lead.upsert.frequency", func(ctx context.Context) {
			deps.Store.Upsert(ctx, userID, patch)
		})

		return c.Send(flow.OfferFor(frequency), deps.Keyboard.BookButton())
	}
}
