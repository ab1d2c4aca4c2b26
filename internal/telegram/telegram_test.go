package telegram

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessagePrivateChat(t *testing.T) {
	t.Parallel()

	update := &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   42,
			Date: int(time.Date(2025, 3, 6, 22, 30, 0, 0, time.UTC).Unix()),
			Chat: models.Chat{ID: 123456789, Type: models.ChatTypePrivate},
			From: &models.User{ID: 123456789, FirstName: "Maria", LastName: "Souza"},
			Text: "Olá",
		},
	}

	got, ok := toMessage(update, 999)
	require.True(t, ok)
	assert.Equal(t, "123456789@private", got.From)
	assert.Equal(t, "Olá", got.Body)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "Maria Souza", got.PushName)
	assert.False(t, got.FromMe)
	assert.Equal(t, time.Date(2025, 3, 6, 22, 30, 0, 0, time.UTC), got.Timestamp)
}

func TestToMessageGroupAndSelf(t *testing.T) {
	t.Parallel()

	group := &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: -1001234567890, Type: models.ChatTypeSupergroup},
		From: &models.User{ID: 7, FirstName: "Ana"},
		Text: "menu",
	}}
	got, ok := toMessage(group, 999)
	require.True(t, ok)
	assert.Equal(t, "-1001234567890@group", got.From)
	assert.NotContains(t, got.From, DirectSuffix)

	self := &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: 5, Type: models.ChatTypePrivate},
		From: &models.User{ID: 999, IsBot: true, FirstName: "Villani"},
		Text: "2",
	}}
	got, ok = toMessage(self, 999)
	require.True(t, ok)
	assert.True(t, got.FromMe)
}

func TestToMessageSkipsEmptyUpdates(t *testing.T) {
	t.Parallel()

	_, ok := toMessage(nil, 0)
	assert.False(t, ok)
	_, ok = toMessage(&models.Update{}, 0)
	assert.False(t, ok)
	_, ok = toMessage(&models.Update{Message: &models.Message{Chat: models.Chat{ID: 1, Type: models.ChatTypePrivate}}}, 0)
	assert.False(t, ok)

	got, ok := toMessage(&models.Update{Message: &models.Message{
		Chat:    models.Chat{ID: 1, Type: models.ChatTypePrivate},
		Caption: "3",
	}}, 0)
	require.True(t, ok)
	assert.Equal(t, "3", got.Body)
}

func TestParseChatRef(t *testing.T) {
	t.Parallel()

	id, err := parseChatRef("123456789@private")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)

	id, err = parseChatRef("-1001234567890@group")
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), id)

	_, err = parseChatRef("123456789")
	assert.Error(t, err)
	_, err = parseChatRef("abc@private")
	assert.Error(t, err)
}

func TestTokenPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12345678...", tokenPrefix("123456789:AAE-secret"))
	assert.Equal(t, "...", tokenPrefix("short"))
}
