package telegram

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
)

func TestToUser(t *testing.T) {
	u := toUser(&models.User{
		ID:           42,
		FirstName:    "Jane",
		LastName:     "Doe",
		Username:     "jane",
		LanguageCode: "en",
		IsPremium:    true,
	})
	require.EqualValues(t, 42, u.ID)
	require.Equal(t, "Jane Doe", u.FullName)
	require.Equal(t, "jane", u.Username)
	require.True(t, u.IsPremium)

	// Single-name accounts do not get a trailing space
	u = toUser(&models.User{ID: 1, FirstName: "Madonna"})
	require.Equal(t, "Madonna", u.FullName)

	require.Zero(t, toUser(nil).ID)
}

func TestToMessage(t *testing.T) {
	sent := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	m := toMessage(&models.Message{
		ID:              10,
		Chat:            models.Chat{ID: -100},
		MessageThreadID: 5,
		From:            &models.User{ID: 7, FirstName: "Op"},
		Text:            "hello",
		Date:            int(sent.Unix()),
		ReplyToMessage: &models.Message{
			ID:   9,
			Chat: models.Chat{ID: -100},
			From: &models.User{ID: 99, IsBot: true},
			Text: "original",
		},
	})

	require.Equal(t, 10, m.ID)
	require.EqualValues(t, -100, m.ChatID)
	require.Equal(t, 5, m.ThreadID)
	require.Equal(t, "hello", m.Text)
	require.Equal(t, sent, m.Date)
	require.EqualValues(t, 7, m.From.ID)

	require.NotNil(t, m.ReplyTo)
	require.Equal(t, 9, m.ReplyTo.ID)
	require.True(t, m.ReplyTo.FromBot)
}
