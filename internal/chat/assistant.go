package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/neexbeast/travel-guide/internal/latency"
)

const (
	WelcomeMessage = "Hello! I'm your local travel guide. I can help you with:\n\n" +
		"• One-day itineraries\n" +
		"• Best local food spots\n" +
		"• Hidden gems and secret places\n" +
		"• Budget-friendly tips\n" +
		"• Family-friendly activities\n" +
		"• Safety advice\n\n" +
		"What would you like to know?"

	ApologyMessage = "I'm sorry, I'm having trouble connecting right now. Please try again!"
)

// ErrEmptyMessage is returned by Ask for blank input.
var ErrEmptyMessage = errors.New("message is empty")

var suggestions = []string{
	"What should I do in one day?",
	"Best local food nearby?",
	"Hidden gems tourists miss?",
	"Budget-friendly tips?",
}

// ReplyObserver is notified of every reply the assistant produces.
type ReplyObserver interface {
	ObserveReply(rule string)
}

// Assistant drives a chat session: it records the user's message, resolves
// a reply behind the simulated backend call and records that too.
type Assistant struct {
	resolver *Resolver
	history  *History
	wait     latency.Waiter
	observer ReplyObserver
	log      *slog.Logger
}

// NewAssistant wires an Assistant. observer may be nil.
func NewAssistant(resolver *Resolver, history *History, wait latency.Waiter, observer ReplyObserver, log *slog.Logger) *Assistant {
	if wait == nil {
		wait = latency.None()
	}
	return &Assistant{
		resolver: resolver,
		history:  history,
		wait:     wait,
		observer: observer,
		log:      log,
	}
}

// Ask records text as a user message and returns the assistant's reply,
// which is also appended to the history. A failed backend call degrades to
// the apology reply; it is never returned as an error.
func (a *Assistant) Ask(ctx context.Context, text, destinationID string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	a.history.Add(SenderUser, text)

	reply := a.answer(ctx, text, destinationID)
	if a.observer != nil {
		a.observer.ObserveReply(string(reply.Rule))
	}

	return a.history.Add(SenderAssistant, reply.Text), nil
}

func (a *Assistant) answer(ctx context.Context, text, destinationID string) Reply {
	if err := a.wait.Wait(ctx, latency.OpChat); err != nil {
		a.log.Warn("chat backend call failed", "destination", destinationID, "err", err)
		return Reply{Rule: RuleError, Text: ApologyMessage}
	}
	return a.resolver.Match(text, destinationID)
}

// Welcome seeds the greeting shown on a fresh session. It is a no-op once the
// history has any message.
func (a *Assistant) Welcome() {
	a.history.addIfEmpty(SenderAssistant, WelcomeMessage)
}

// History returns the session's messages in display order.
func (a *Assistant) History() []Message {
	return a.history.Messages()
}

// Clear empties the session history.
func (a *Assistant) Clear() {
	a.history.Clear()
}

// Suggestions returns starter questions for an empty conversation.
func (a *Assistant) Suggestions() []string {
	return append([]string(nil), suggestions...)
}
