// Package notify relays a lead summary to the operator channel after the
// user has already received their reply. The whole path is best-effort.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/leadcache"
	"github.com/calmaflow/calma-bot/internal/leadstore"
	"github.com/calmaflow/calma-bot/pkg/metrics"
)

// API is the slice of the Telegram client the dispatcher needs.
type API interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Identity is what the triggering update knows about the user.
type Identity struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// Dispatcher composes operator summaries from the durable store and the
// session cache and sends them to the configured operator chat.
type Dispatcher struct {
	api            API
	store          *leadstore.Adapter
	cache          leadcache.Cache
	operatorChatID int64
	log            *slog.Logger
}

// NewDispatcher constructs a Dispatcher. An operatorChatID of zero disables
// dispatch entirely.
func NewDispatcher(api API, store *leadstore.Adapter, cache leadcache.Cache, operatorChatID int64, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		api:            api,
		store:          store,
		cache:          cache,
		operatorChatID: operatorChatID,
		log:            log,
	}
}

// Enabled reports whether an operator channel is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.operatorChatID != 0
}

// NotifyOperator resolves the most complete known view of the user and
// sends the summary. Any failure is logged and swallowed; the user-facing
// flow has already completed by the time this runs.
func (d *Dispatcher) NotifyOperator(ctx context.Context, identity Identity) {
	if !d.Enabled() {
		return
	}

	summary := d.Compose(ctx, identity)

	if d.api == nil {
		return
	}

	if _, err := d.api.Send(&telebot.Chat{ID: d.operatorChatID}, summary); err != nil {
		metrics.RecordNotification("error")
		d.log.Warn("operator notification failed",
			slog.Int64("user_id", identity.UserID),
			slog.Any("error", err),
		)
		return
	}

	metrics.RecordNotification("ok")
}

// Compose builds the fixed-shape summary text. Durable-store values win
// over cached values per individual field; the cache covers the store being
// slow, down, or not configured.
func (d *Dispatcher) Compose(ctx context.Context, identity Identity) string {
	status, frequency := d.resolve(ctx, identity.UserID)

	username := identity.Username
	display := "(без username)"
	if username != "" {
		display = "@" + username
	}

	statusLabel := "—"
	if status != nil {
		statusLabel = status.Label()
	}

	frequencyLabel := "—"
	if frequency != nil {
		frequencyLabel = frequency.Label()
	}

	var b strings.Builder
	b.WriteString("🔔 Новая запись на консультацию\n")
	fmt.Fprintf(&b, "Пользователь: %s (id %d)\n", display, identity.UserID)
	fmt.Fprintf(&b, "Состояние: %s\n", statusLabel)
	fmt.Fprintf(&b, "Частота: %s", frequencyLabel)
	if username != "" {
		fmt.Fprintf(&b, "\nПрофиль: https://t.me/%s", username)
	}

	return b.String()
}

func (d *Dispatcher) resolve(ctx context.Context, userID int64) (*domain.Status, *domain.Frequency) {
	var status *domain.Status
	var frequency *domain.Frequency

	if d.cache != nil {
		if entry, ok := d.cache.Get(ctx, userID); ok {
			status = entry.Status
			frequency = entry.Frequency
		}
	}

	if lead, ok := d.store.Get(ctx, userID); ok {
		if lead.Status != nil {
			status = lead.Status
		}
		if lead.Frequency != nil {
			frequency = lead.Frequency
		}
	}

	return status, frequency
}
