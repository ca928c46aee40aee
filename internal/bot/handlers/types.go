package handlers

import (
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/bot/keyboard"
	"github.com/calmaflow/calma-bot/internal/delivery"
	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
	"github.com/calmaflow/calma-bot/internal/leadcache"
	"github.com/calmaflow/calma-bot/internal/leadstore"
	"github.com/calmaflow/calma-bot/internal/notify"
	"github.com/calmaflow/calma-bot/internal/tasks"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Deps bundles the collaborators every flow handler draws from.
type Deps struct {
	Cache      leadcache.Cache
	Store      *leadstore.Adapter
	Tasks      *tasks.Runner
	Keyboard   *keyboard.Builder
	Sender     *delivery.Sender
	Notifier   *notify.Dispatcher
	ContactURL string
	// Pause overrides the fixed UX pause between explanation and
	// technique. Zero means flow.TechniquePause; tests shrink it.
	Pause time.Duration
	Log   *slog.Logger
}

func (d Deps) pause() time.Duration {
	if d.Pause > 0 {
		return d.Pause
	}
	return flow.TechniquePause
}

func (d Deps) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// identityPatch builds the display-metadata part of an upsert from the
// triggering update's sender.
func identityPatch(sender *telebot.User) domain.LeadPatch {
	if sender == nil {
		return domain.LeadPatch{}
	}

	return domain.LeadPatch{
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
	}
}

// ackCallback acknowledges a callback query so the client stops showing the
// progress spinner. Fire-and-forget.
func ackCallback(c telebot.Context) {
	if c.Callback() == nil {
		return
	}
	_ = c.Respond(&telebot.CallbackResponse{})
}
