package handlers

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/calmaflow/calma-bot/internal/bot/keyboard"
	"github.com/calmaflow/calma-bot/internal/delivery"
	"github.com/calmaflow/calma-bot/internal/domain"
	"github.com/calmaflow/calma-bot/internal/flow"
	"github.com/calmaflow/calma-bot/internal/leadcache"
	"github.com/calmaflow/calma-bot/internal/notify"
	"github.com/calmaflow/calma-bot/internal/tasks"
)

const operatorChatID int64 = -200300

type sentMessage struct {
	text   string
	markup *telebot.ReplyMarkup
}

type fakeContext struct {
	telebot.Context

	sender   *telebot.User
	callback *telebot.Callback

	sent      []sentMessage
	edited    []sentMessage
	responded int
}

func (f *fakeContext) Sender() *telebot.User { return f.sender }

func (f *fakeContext) Callback() *telebot.Callback { return f.callback }

func (f *fakeContext) Chat() *telebot.Chat {
	if f.sender == nil {
		return nil
	}
	return &telebot.Chat{ID: f.sender.ID}
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, record(what, opts))
	return nil
}

func (f *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	f.edited = append(f.edited, record(what, opts))
	return nil
}

func (f *fakeContext) Respond(...*telebot.CallbackResponse) error {
	f.responded++
	return nil
}

func record(what interface{}, opts []interface{}) sentMessage {
	msg := sentMessage{text: what.(string)}
	for _, opt := range opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			msg.markup = markup
		}
	}
	return msg
}

type operatorAPI struct {
	texts []string
	to    []telebot.Recipient
}

func (o *operatorAPI) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	o.texts = append(o.texts, what.(string))
	o.to = append(o.to, to)
	return &telebot.Message{}, nil
}

type flowFixture struct {
	deps     Deps
	cache    *leadcache.Memory
	runner   *tasks.Runner
	operator *operatorAPI
}

func newFixture(t *testing.T) *flowFixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := leadcache.NewMemory()
	runner := tasks.NewRunner(log)
	operator := &operatorAPI{}

	deps := Deps{
		Cache:    cache,
		Store:    nil, // store credentials absent: cache-only mode
		Tasks:    runner,
		Keyboard: keyboard.NewBuilder(log),
		Sender:   delivery.NewSender(operator, log),
		Notifier: notify.NewDispatcher(operator, nil, cache, operatorChatID, log),
		Pause:    time.Millisecond,
		Log:      log,
	}

	return &flowFixture{deps: deps, cache: cache, runner: runner, operator: operator}
}

func user() *telebot.User {
	return &telebot.User{ID: 42, Username: "lena", FirstName: "Лена"}
}

func commandContext() *fakeContext {
	return &fakeContext{sender: user()}
}

func callbackContext(data string) *fakeContext {
	return &fakeContext{
		sender:   user(),
		callback: &telebot.Callback{Data: data, Message: &telebot.Message{ID: 5}},
	}
}

func buttonData(markup *telebot.ReplyMarkup) []string {
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.Data)
		}
	}
	return data
}

func TestStartHandler(t *testing.T) {
	fx := newFixture(t)
	c := commandContext()

	require.NoError(t, NewStartHandler(fx.deps)(c))
	require.Len(t, c.sent, 1)

	assert.Equal(t, flow.WelcomeText, c.sent[0].text)
	require.NotNil(t, c.sent[0].markup)
	assert.Equal(t, []string{"state:anxiety", "state:fatigue", "state:tension"}, buttonData(c.sent[0].markup))
}

func TestStateChoiceHandler(t *testing.T) {
	fx := newFixture(t)
	c := callbackContext("state:anxiety")

	require.NoError(t, NewStateChoiceHandler(fx.deps)(c))

	// Cache reflects the choice even with the store absent.
	entry, ok := fx.cache.Get(context.Background(), 42)
	require.True(t, ok)
	require.NotNil(t, entry.Status)
	assert.Equal(t, domain.StatusAnxiety, *entry.Status)

	// Explanation first, then the technique with the done button.
	require.Len(t, c.sent, 2)
	assert.Equal(t, flow.ExplanationFor(domain.StatusAnxiety), c.sent[0].text)
	assert.Nil(t, c.sent[0].markup)
	assert.Equal(t, flow.TechniqueFor(domain.StatusAnxiety), c.sent[1].text)
	require.NotNil(t, c.sent[1].markup)
	assert.Equal(t, []string{"done"}, buttonData(c.sent[1].markup))

	assert.Equal(t, 1, c.responded, "callback must be acknowledged")
}

func TestStateChoiceHandler_UnknownPayloadIgnored(t *testing.T) {
	fx := newFixture(t)
	c := callbackContext("state:rage")

	require.NoError(t, NewStateChoiceHandler(fx.deps)(c))

	assert.Empty(t, c.sent)
	_, ok := fx.cache.Get(context.Background(), 42)
	assert.False(t, ok)
}

func TestDoneHandler(t *testing.T) {
	fx := newFixture(t)
	c := callbackContext("done")

	require.NoError(t, NewDoneHandler(fx.deps)(c))
	require.Len(t, c.sent, 1)

	assert.Equal(t, flow.BridgeText, c.sent[0].text)
	require.NotNil(t, c.sent[0].markup)
	assert.Equal(t, []string{"freq:rare", "freq:weekly", "freq:daily"}, buttonData(c.sent[0].markup))
}

func TestFrequencyHandler_OfferSelection(t *testing.T) {
	testCases := []struct {
		data      string
		frequency domain.Frequency
		offer     string
	}{
		{data: "freq:rare", frequency: domain.FrequencyRare, offer: flow.SoftOfferText},
		{data: "freq:weekly", frequency: domain.FrequencyWeekly, offer: flow.RegularOfferText},
		{data: "freq:daily", frequency: domain.FrequencyDaily, offer: flow.RegularOfferText},
	}

	for _, tc := range testCases {
		t.Run(tc.data, func(t *testing.T) {
			fx := newFixture(t)
			c := callbackContext(tc.data)

			require.NoError(t, NewFrequencyHandler(fx.deps)(c))

			entry, ok := fx.cache.Get(context.Background(), 42)
			require.True(t, ok)
			require.NotNil(t, entry.Frequency)
			assert.Equal(t, tc.frequency, *entry.Frequency)

			require.Len(t, c.sent, 1)
			assert.Equal(t, tc.offer, c.sent[0].text)
			require.NotNil(t, c.sent[0].markup)
			assert.Equal(t, []string{"book"}, buttonData(c.sent[0].markup))
		})
	}
}

func TestFrequencyHandler_ReplayIsIdempotent(t *testing.T) {
	fx := newFixture(t)

	first := callbackContext("freq:daily")
	require.NoError(t, NewFrequencyHandler(fx.deps)(first))

	second := callbackContext("freq:daily")
	require.NoError(t, NewFrequencyHandler(fx.deps)(second))

	entry, ok := fx.cache.Get(context.Background(), 42)
	require.True(t, ok)
	assert.Equal(t, domain.FrequencyDaily, *entry.Frequency)

	// The duplicate event just produces a duplicate reply.
	assert.Len(t, second.sent, 1)
}

func TestBookHandler(t *testing.T) {
	fx := newFixture(t)

	// Walk the funnel so the notification has data to report.
	require.NoError(t, NewStateChoiceHandler(fx.deps)(callbackContext("state:anxiety")))
	require.NoError(t, NewFrequencyHandler(fx.deps)(callbackContext("freq:daily")))

	c := callbackContext("book")
	require.NoError(t, NewBookHandler(fx.deps)(c))

	// Confirmation is delivered by editing the triggering message.
	require.Len(t, c.edited, 1)
	assert.Equal(t, flow.BookedText, c.edited[0].text)
	assert.True(t, strings.HasPrefix(c.edited[0].text, "Принято ✅"))

	require.True(t, fx.runner.Wait(time.Second))

	// The operator summary carries the qualified answers.
	require.Len(t, fx.operator.texts, 1)
	summary := fx.operator.texts[0]
	assert.Contains(t, summary, "id 42")
	assert.Contains(t, summary, domain.StatusAnxiety.Label())
	assert.Contains(t, summary, domain.FrequencyDaily.Label())

	chat, ok := fx.operator.to[0].(*telebot.Chat)
	require.True(t, ok)
	assert.Equal(t, operatorChatID, chat.ID)
}

func TestBookHandler_ContactButton(t *testing.T) {
	fx := newFixture(t)
	fx.deps.ContactURL = "https://t.me/maria_calma"

	c := callbackContext("book")
	require.NoError(t, NewBookHandler(fx.deps)(c))

	require.Len(t, c.edited, 1)
	require.NotNil(t, c.edited[0].markup)
	assert.Equal(t, "https://t.me/maria_calma", c.edited[0].markup.InlineKeyboard[0][0].URL)

	require.True(t, fx.runner.Wait(time.Second))
}

func TestBookHandler_NoContactURLOmitsButton(t *testing.T) {
	fx := newFixture(t)

	c := callbackContext("book")
	require.NoError(t, NewBookHandler(fx.deps)(c))

	require.Len(t, c.edited, 1)
	assert.Nil(t, c.edited[0].markup)

	require.True(t, fx.runner.Wait(time.Second))
}
