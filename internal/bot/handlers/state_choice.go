package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
	"github.com/calmaflow/calma-bot/internal/leadcache"
)

// NewStateChoiceHandler returns the handler for `state:<enum>` callbacks.
// The chosen status lands in the cache synchronously, before the background
// durable write is even started, so any later read in this process sees it.
func NewStateChoiceHandler(deps Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		cb := c.Callback()
		if sender == nil || cb == nil {
			return nil
		}

		raw := strings.TrimPrefix(strings.TrimSpace(cb.Data), flow.CallbackStatePrefix)
		status, ok := domain.ParseStatus(raw)
		if !ok {
			deps.logger().Info("unknown state payload ignored", slog.String("data", cb.Data))
			ackCallback(c)
			return nil
		}

		ackCallback(c)

		userID := sender.ID
		deps.Cache.Put(context.Background(), userID, leadcache.Patch{Status: &status})

		patch := identityPatch(sender)
		patch.Status = &status
		patch.LastStep = domain.StepTechnique
		deps.Tasks.Go("lead.upsert.status", func(ctx context.Context) {
			deps.Store.Upsert(ctx, userID, patch)
		})

		if err := c.Send(flow.ExplanationFor(status)); err != nil {
			return err
		}

		time.Sleep(deps.pause())

		return c.Send(flow.TechniqueFor(status), deps.Keyboard.DoneButton())
	}
}

// NewDoneHandler returns the handler for the `done` callback that bridges
// from the technique to the frequency question.
func NewDoneHandler(deps Deps) CallbackHandler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ackCallback(c)

		patch := identityPatch(sender)
		patch.LastStep = domain.StepFrequency

		userID := sender.ID
		deps.Tasks.Go("lead.upsert.done", func(ctx context.Context) {
			deps.Store.Upsert(ctx, userID, patch)
		})

		return c.Send(flow.BridgeText, deps.Keyboard.FrequencyMenu())
	}
}
