package bot

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/bot/handlers"
	"github.com/calmaflow/calma-bot/internal/bot/keyboard"
	"github.com/calmaflow/calma-bot/internal/delivery"
	errors "github.com/calmaflow/calma-bot/internal/errors"
	"github.com/calmaflow/calma-bot/internal/flow"
	"github.com/calmaflow/calma-bot/internal/leadcache"
	"github.com/calmaflow/calma-bot/internal/leadstore"
	"github.com/calmaflow/calma-bot/internal/notify"
	"github.com/calmaflow/calma-bot/internal/tasks"
	"github.com/calmaflow/calma-bot/pkg/config"
)

// Command constants for Telegram bot commands.
const (
	CommandStart      = "/start"
	CommandStatus     = "/status"
	CommandTestNotify = "/test_notify"
)

// Bot wraps telebot.Bot with the application dependencies required for
// handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	router     *Router
	keyboard   *keyboard.Builder
	sender     *delivery.Sender
	notifier   *notify.Dispatcher
	errHandler *errors.Handler
}

// New builds a telegram bot instance configured according to the
// application settings.
func New(
	cfg config.Config,
	log *slog.Logger,
	cache leadcache.Cache,
	store *leadstore.Adapter,
	runner *tasks.Runner,
) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Server.Port,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, errors.NewTelegramError("initialize bot", err)
	}

	kb := keyboard.NewBuilder(log)
	router := NewRouter(log)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)
	sender := delivery.NewSender(tb, log)
	notifier := notify.NewDispatcher(tb, store, cache, cfg.Operator.ChatID, log)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		router:     router,
		keyboard:   kb,
		sender:     sender,
		notifier:   notifier,
		errHandler: errHandler,
	}

	deps := handlers.Deps{
		Cache:      cache,
		Store:      store,
		Tasks:      runner,
		Keyboard:   kb,
		Sender:     sender,
		Notifier:   notifier,
		ContactURL: cfg.Contact.URL,
		Log:        log,
	}

	b.setupRouter(deps)
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such
// as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Notifier exposes the operator dispatcher for diagnostics.
func (b *Bot) Notifier() *notify.Dispatcher {
	return b.notifier
}

func (b *Bot) setupRouter(deps handlers.Deps) {
	if b.router == nil {
		return
	}

	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(MetricsMiddleware)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(deps))
	b.router.RegisterCommand(CommandStatus, handlers.NewStatusHandler(handlers.Features{
		Store:      deps.Store.Enabled(),
		Operator:   deps.Notifier.Enabled(),
		Contact:    b.cfg.ContactEnabled(),
		RedisCache: b.cfg.RedisEnabled(),
		Sentry:     b.cfg.Sentry.Enabled,
	}))
	b.router.RegisterCommand(CommandTestNotify, handlers.NewTestNotifyHandler(deps))

	b.router.RegisterCallback(flow.CallbackStatePrefix, handlers.NewStateChoiceHandler(deps))
	b.router.RegisterCallback(flow.CallbackDone, handlers.NewDoneHandler(deps))
	b.router.RegisterCallback(flow.CallbackFreqPrefix, handlers.NewFrequencyHandler(deps))
	b.router.RegisterCallback(flow.CallbackBook, handlers.NewBookHandler(deps))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
