package domain

import (
	"context"
	"time"
)

// Result is one generated horoscope message.
type Result struct {
	Message string
	Image   []byte
	// Spoiler hides the message text behind Telegram's spoiler markup.
	Spoiler bool
}

// FormattedMessage renders the message for sending.
func (r Result) FormattedMessage() string {
	if r.Spoiler {
		return "<tg-spoiler>" + r.Message + "</tg-spoiler>"
	}
	return r.Message
}

// Request identifies the roll a horoscope is generated for.
type Request struct {
	Dice           int
	ConversationID int64
	UserID         int64
	MessageID      int
	MessageTime    time.Time
}

// Provider turns a slot machine roll into horoscope messages. An empty
// result with a nil error means the provider chose not to respond.
type Provider interface {
	ProvideHoroscope(ctx context.Context, req Request) ([]Result, error)
}
