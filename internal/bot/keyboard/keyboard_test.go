package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"
)

func flatten(markup *telebot.ReplyMarkup) []telebot.InlineButton {
	var buttons []telebot.InlineButton
	for _, row := range markup.InlineKeyboard {
		buttons = append(buttons, row...)
	}
	return buttons
}

func TestStateMenu(t *testing.T) {
	markup := NewBuilder(nil).StateMenu()

	buttons := flatten(markup)
	require.Len(t, buttons, 3)
	assert.Equal(t, "state:anxiety", buttons[0].Data)
	assert.Equal(t, "state:fatigue", buttons[1].Data)
	assert.Equal(t, "state:tension", buttons[2].Data)

	for _, btn := range buttons {
		assert.NotEmpty(t, btn.Text)
	}
}

func TestFrequencyMenu(t *testing.T) {
	markup := NewBuilder(nil).FrequencyMenu()

	buttons := flatten(markup)
	require.Len(t, buttons, 3)
	assert.Equal(t, "freq:rare", buttons[0].Data)
	assert.Equal(t, "freq:weekly", buttons[1].Data)
	assert.Equal(t, "freq:daily", buttons[2].Data)
}

func TestDoneButton(t *testing.T) {
	buttons := flatten(NewBuilder(nil).DoneButton())
	require.Len(t, buttons, 1)
	assert.Equal(t, "done", buttons[0].Data)
}

func TestBookButton(t *testing.T) {
	buttons := flatten(NewBuilder(nil).BookButton())
	require.Len(t, buttons, 1)
	assert.Equal(t, "book", buttons[0].Data)
}

func TestContactButton(t *testing.T) {
	b := NewBuilder(nil)

	assert.Nil(t, b.ContactButton(""))

	markup := b.ContactButton("https://t.me/maria_calma")
	buttons := flatten(markup)
	require.Len(t, buttons, 1)
	assert.Equal(t, "https://t.me/maria_calma", buttons[0].URL)
	assert.Empty(t, buttons[0].Data, "link buttons carry no callback payload")
}
