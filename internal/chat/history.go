package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry of the chat history.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// History is an append-only, session-scoped message log. Entries are never
// edited or removed individually; Clear drops them all.
type History struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Add appends a message stamped with the current time.
func (h *History) Add(sender Sender, text string) Message {
	return h.AddAt(sender, text, h.now())
}

// AddAt appends a message with a caller-assigned timestamp.
func (h *History) AddAt(sender Sender, text string, ts time.Time) Message {
	msg := Message{
		ID:        uuid.New(),
		Sender:    sender,
		Text:      text,
		Timestamp: ts,
	}

	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()

	return msg
}

func (h *History) addIfEmpty(sender Sender, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.messages) == 0 {
		h.messages = append(h.messages, Message{ID: uuid.New(), Sender: sender, Text: text, Timestamp: h.now()})
	}
}

// Messages returns a copy of the history in insertion order.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message{}, h.messages...)
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear drops every message.
func (h *History) Clear() {
	h.mu.Lock()
	h.messages = nil
	h.mu.Unlock()
}
