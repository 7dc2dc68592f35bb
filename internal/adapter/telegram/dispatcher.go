// Package telegram adapts the bot API: update routing to handler
// workers and outbound message transport.
package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxUpdate struct {
	ctx context.Context
	upd *models.Update
}

// HandlerFunc processes a single update.
type HandlerFunc func(ctx context.Context, b *bot.Bot, upd *models.Update)

// Dispatcher fans updates out to worker goroutines. Updates from the
// same chat always land on the same worker, so per-chat order is
// preserved.
type Dispatcher struct {
	bot     *bot.Bot
	handler HandlerFunc
	chans   []chan ctxUpdate
}

// NewDispatcher creates a dispatcher with the given worker count.
func NewDispatcher(b *bot.Bot, workers int, h HandlerFunc) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &Dispatcher{bot: b, handler: h, chans: make([]chan ctxUpdate, workers)}
	for i := range d.chans {
		d.chans[i] = make(chan ctxUpdate, 100)
		go d.worker(d.chans[i])
	}
	return d
}

// Dispatch hands the update to the worker owning its chat.
func (d *Dispatcher) Dispatch(ctx context.Context, upd *models.Update) {
	idx := 0
	if chatID := extractChatID(upd); chatID != 0 {
		idx = int(abs(chatID)) % len(d.chans)
	}
	d.chans[idx] <- ctxUpdate{ctx: ctx, upd: upd}
}

// Close stops the workers after draining queued updates.
func (d *Dispatcher) Close() {
	for _, ch := range d.chans {
		close(ch)
	}
}

func (d *Dispatcher) worker(in <-chan ctxUpdate) {
	for item := range in {
		d.handler(item.ctx, d.bot, item.upd)
	}
}

func extractChatID(u *models.Update) int64 {
	if u.Message != nil {
		return u.Message.Chat.ID
	}
	if u.CallbackQuery != nil && u.CallbackQuery.Message.Message != nil {
		return u.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}

func abs(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}
