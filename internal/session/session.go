// Package session defines the surface the bot consumes from a messaging
// client: inbound message events plus send, typing and contact lookups.
// Pairing, transport and auth stay inside the client implementations.
package session

import (
	"context"
	"time"
)

// Message is one inbound message event.
type Message struct {
	ID        string
	From      string // conversation id; direct chats end with one of the session's DirectSuffixes
	Body      string
	FromMe    bool
	PushName  string // display name carried by the event, if any
	Timestamp time.Time
}

// HandlerFunc processes one inbound message.
type HandlerFunc func(ctx context.Context, msg Message)

// Session is a connected messaging client.
type Session interface {
	// Start pairs or resumes the session and delivers inbound messages to
	// handler until ctx is cancelled. Each message is handled on its own
	// goroutine so a slow reply never stalls event delivery.
	Start(ctx context.Context, handler HandlerFunc) error

	SendMessage(ctx context.Context, to, text string) error
	SendTyping(ctx context.Context, to string) error

	// ContactName returns the display name known for from, or "" if none.
	ContactName(ctx context.Context, from string) (string, error)

	// DirectSuffixes lists the markers that end one-to-one conversation ids.
	DirectSuffixes() []string

	// Close disconnects and waits for in-flight handlers.
	Close() error
}
