package delivery

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"
)

var errSendFailed = errors.New("send failed")

type fakeContext struct {
	telebot.Context

	callback *telebot.Callback
	chat     *telebot.Chat

	editErr  error
	replyErr error

	edits   []string
	replies []string
}

func (f *fakeContext) Callback() *telebot.Callback { return f.callback }

func (f *fakeContext) Chat() *telebot.Chat { return f.chat }

func (f *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, what.(string))
	return nil
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if f.replyErr != nil {
		return f.replyErr
	}
	f.replies = append(f.replies, what.(string))
	return nil
}

type fakeAPI struct {
	err   error
	sends []string
	to    []telebot.Recipient
}

func (f *fakeAPI) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sends = append(f.sends, what.(string))
	f.to = append(f.to, to)
	return &telebot.Message{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func callbackContext() *fakeContext {
	return &fakeContext{
		callback: &telebot.Callback{Message: &telebot.Message{ID: 10}},
		chat:     &telebot.Chat{ID: 100},
	}
}

func TestDeliverFinal_EditWinsFirst(t *testing.T) {
	c := callbackContext()
	api := &fakeAPI{}
	sender := NewSender(api, testLogger())

	ok := sender.DeliverFinal(c, "confirmed", nil)

	require.True(t, ok)
	assert.Equal(t, []string{"confirmed"}, c.edits)
	assert.Empty(t, api.sends, "direct send must not run after a successful edit")
	assert.Empty(t, c.replies)
}

func TestDeliverFinal_FallsBackToDirectSend(t *testing.T) {
	c := callbackContext()
	c.editErr = errSendFailed
	api := &fakeAPI{}
	sender := NewSender(api, testLogger())

	ok := sender.DeliverFinal(c, "confirmed", nil)

	require.True(t, ok)
	assert.Equal(t, []string{"confirmed"}, api.sends)
	assert.Empty(t, c.replies)
}

func TestDeliverFinal_ReplyIsLastResort(t *testing.T) {
	c := callbackContext()
	c.editErr = errSendFailed
	api := &fakeAPI{err: errSendFailed}
	sender := NewSender(api, testLogger())

	ok := sender.DeliverFinal(c, "confirmed", nil)

	require.True(t, ok)
	assert.Equal(t, []string{"confirmed"}, c.replies)
}

func TestDeliverFinal_AllChannelsExhausted(t *testing.T) {
	c := callbackContext()
	c.editErr = errSendFailed
	c.replyErr = errSendFailed
	api := &fakeAPI{err: errSendFailed}
	sender := NewSender(api, testLogger())

	ok := sender.DeliverFinal(c, "confirmed", nil)

	assert.False(t, ok)
}

func TestDeliverFinal_NoCallbackSkipsEdit(t *testing.T) {
	c := &fakeContext{chat: &telebot.Chat{ID: 100}}
	api := &fakeAPI{}
	sender := NewSender(api, testLogger())

	ok := sender.DeliverFinal(c, "confirmed", nil)

	require.True(t, ok)
	assert.Empty(t, c.edits)
	assert.Equal(t, []string{"confirmed"}, api.sends)
}
