package chat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-guide/internal/chat"
)

func TestHistory_PreservesInsertionOrder(t *testing.T) {
	h := chat.NewHistory()
	h.Add(chat.SenderUser, "first")
	h.Add(chat.SenderAssistant, "second")
	h.Add(chat.SenderUser, "third")

	msgs := h.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
}

func TestHistory_AddAtKeepsCallerTimestamp(t *testing.T) {
	h := chat.NewHistory()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	msg := h.AddAt(chat.SenderUser, "hello", ts)
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, ts, h.Messages()[0].Timestamp)
}

func TestHistory_MessagesIsACopy(t *testing.T) {
	h := chat.NewHistory()
	h.Add(chat.SenderUser, "original")

	msgs := h.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "original", h.Messages()[0].Text)
}

func TestHistory_Clear(t *testing.T) {
	h := chat.NewHistory()
	h.Add(chat.SenderUser, "a")
	h.Add(chat.SenderUser, "b")

	h.Clear()
	assert.Zero(t, h.Len())
	assert.Empty(t, h.Messages())
}
