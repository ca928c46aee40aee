package bot

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/bot/handlers"
)

type routeContext struct {
	telebot.Context

	text     string
	callback *telebot.Callback
	sent     []string
}

func (r *routeContext) Text() string { return r.text }

func (r *routeContext) Callback() *telebot.Callback { return r.callback }

func (r *routeContext) Send(what interface{}, _ ...interface{}) error {
	r.sent = append(r.sent, what.(string))
	return nil
}

func routerForTest() *Router {
	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRouter_CallbackPrefixMatch(t *testing.T) {
	router := routerForTest()

	var got string
	router.RegisterCallback("state:", func(c telebot.Context) error {
		got = c.Callback().Data
		return nil
	})

	c := &routeContext{callback: &telebot.Callback{Data: "state:anxiety"}}
	require.NoError(t, router.Route(c))
	assert.Equal(t, "state:anxiety", got)
}

func TestRouter_CallbackExactMatch(t *testing.T) {
	router := routerForTest()

	called := false
	router.RegisterCallback("book", func(telebot.Context) error {
		called = true
		return nil
	})

	c := &routeContext{callback: &telebot.Callback{Data: "book"}}
	require.NoError(t, router.Route(c))
	assert.True(t, called)
}

func TestRouter_UnknownCallbackIgnored(t *testing.T) {
	router := routerForTest()
	router.RegisterCallback("state:", func(telebot.Context) error {
		t.Fatal("must not be called")
		return nil
	})

	c := &routeContext{callback: &telebot.Callback{Data: "weather:today"}}
	assert.NoError(t, router.Route(c))
}

func TestRouter_CallbackFramePrefixStripped(t *testing.T) {
	router := routerForTest()

	called := false
	router.RegisterCallback("done", func(telebot.Context) error {
		called = true
		return nil
	})

	c := &routeContext{callback: &telebot.Callback{Data: "\fdone"}}
	require.NoError(t, router.Route(c))
	assert.True(t, called)
}

func TestRouter_CommandMatch(t *testing.T) {
	router := routerForTest()

	called := false
	router.RegisterCommand("/start", func(telebot.Context) error {
		called = true
		return nil
	})

	require.NoError(t, router.Route(&routeContext{text: "/start"}))
	assert.True(t, called)
}

func TestRouter_CommandWithBotSuffix(t *testing.T) {
	router := routerForTest()

	called := false
	router.RegisterCommand("/start", func(telebot.Context) error {
		called = true
		return nil
	})

	require.NoError(t, router.Route(&routeContext{text: "/start@calma_bot"}))
	assert.True(t, called)
}

func TestRouter_DefaultHandlerForPlainText(t *testing.T) {
	router := routerForTest()

	called := false
	router.SetDefault(func(telebot.Context) error {
		called = true
		return nil
	})

	require.NoError(t, router.Route(&routeContext{text: "привет"}))
	assert.True(t, called)
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	router := routerForTest()

	var order []string
	router.Use(func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			order = append(order, "outer")
			return next(c)
		}
	})
	router.Use(func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			order = append(order, "inner")
			return next(c)
		}
	})
	router.RegisterCommand("/start", func(telebot.Context) error {
		order = append(order, "handler")
		return nil
	})

	require.NoError(t, router.Route(&routeContext{text: "/start"}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestErrorHandlingMiddleware_SwallowsAndApologizes(t *testing.T) {
	mw := ErrorHandlingMiddleware(nil)
	wrapped := mw(func(telebot.Context) error {
		return errors.New("boom")
	})

	c := &routeContext{}
	assert.NoError(t, wrapped(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "/start")
}

func TestRecoveryMiddleware_CatchesPanic(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := RecoveryMiddleware(log, nil)
	wrapped := mw(func(telebot.Context) error {
		panic("boom")
	})

	c := &routeContext{}
	assert.NoError(t, wrapped(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "/start")
}
