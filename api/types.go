package api

import (
	"context"
	"time"

	"boardd/domain"
	"boardd/relay"
)

// BoardStore abstracts board persistence for handlers.
type BoardStore interface {
	// Read returns (nil, zero, nil) when no document exists yet.
	Read() (*domain.Board, time.Time, error)
	Write(*domain.Board) (time.Time, error)
	Path() string
}

// BriefCreator writes a brief document for a card and returns its wiki link.
type BriefCreator interface {
	Create(card domain.Card, labelFor func(string) string) (string, error)
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// ChatRelay streams completion text for a forwarded conversation.
type ChatRelay interface {
	Stream(ctx context.Context, messages []relay.Message, onDelta func(string) error) error
}

// ChangeFeed announces board document changes to subscribers.
type ChangeFeed interface {
	Subscribe() chan time.Time
	Unsubscribe(chan time.Time)
}
