package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"

	"kalimerabot/internal/notify"
)

// Transport sends messages through the Telegram Bot API and translates
// its failures into the delivery errors the dispatch worker understands.
type Transport struct {
	b *bot.Bot
}

func NewTransport(b *bot.Bot) *Transport {
	return &Transport{b: b}
}

// Send implements notify.Sender.
func (t *Transport) Send(ctx context.Context, chatID int64, text string) error {
	_, err := t.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return ClassifySendError(err)
}

// ClassifySendError maps Telegram API errors onto the worker's error
// vocabulary: 429 becomes RateLimitedError with the server's retry-after
// hint, 403 becomes ErrPermanentlyDenied, anything else passes through
// as transient.
func ClassifySendError(err error) error {
	if err == nil {
		return nil
	}

	var tooMany *bot.TooManyRequestsError
	if errors.As(err, &tooMany) {
		return &notify.RateLimitedError{Wait: time.Duration(tooMany.RetryAfter) * time.Second}
	}

	if errors.Is(err, bot.ErrorForbidden) {
		return fmt.Errorf("%w: %s", notify.ErrPermanentlyDenied, err)
	}

	return err
}
