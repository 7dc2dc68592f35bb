// Package handlers implements the bot's command surface: schedule
// commands for everyone, broadcast and log inspection for admins.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"kalimerabot/internal/adapter/telegram/middleware"
	"kalimerabot/internal/domain"
)

// ScheduleStore is the slice of the store the handlers need.
type ScheduleStore interface {
	UpsertEnabled(ctx context.Context, chatID int64, enabled bool) error
	UpsertSchedule(ctx context.Context, chatID int64, day, hour, minute int) error
	GetSchedule(ctx context.Context, chatID int64) (domain.ScheduleRecord, error)
	ListEnabled(ctx context.Context) ([]int64, error)
	Counts(ctx context.Context) (enabled, total int, err error)
}

// Broadcaster delivers a message to many chats with pacing and retry,
// reporting how many sends succeeded and failed.
type Broadcaster interface {
	Dispatch(ctx context.Context, ids []int64, text string) (sent, failed int)
}

// Config wires a Handler.
type Config struct {
	Store       ScheduleStore
	Broadcaster Broadcaster
	Admins      *middleware.ACL
	Logger      *slog.Logger

	// ActivityLogPath and ErrorLogPath are the files served by the
	// /logs, /errors and /logsearch commands.
	ActivityLogPath string
	ErrorLogPath    string
}

// Handler routes updates to the command implementations.
type Handler struct {
	store       ScheduleStore
	broadcaster Broadcaster
	admins      *middleware.ACL
	log         *slog.Logger

	activityLog string
	errorLog    string
}

func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		store:       cfg.Store,
		broadcaster: cfg.Broadcaster,
		admins:      cfg.Admins,
		log:         log,
		activityLog: cfg.ActivityLogPath,
		errorLog:    cfg.ErrorLogPath,
	}
}

// Handle is the update entry point.
func (h *Handler) Handle(ctx context.Context, b *bot.Bot, upd *models.Update) {
	if cb := upd.CallbackQuery; cb != nil {
		h.handleCallback(ctx, b, cb)
		return
	}

	msg := upd.Message
	if msg == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if !strings.HasPrefix(text, "/") {
		h.FreeText(ctx, b, msg, text)
		return
	}

	cmd, args := splitCommand(text)
	switch cmd {
	case "start":
		h.Start(ctx, b, msg)
	case "stop":
		h.Stop(ctx, b, msg)
	case "set":
		h.Set(ctx, b, msg, args)
	case "when":
		h.When(ctx, b, msg)
	case "help":
		h.Help(ctx, b, msg)
	case "sendnow":
		h.SendNow(ctx, b, msg, args)
	case "stats":
		h.Stats(ctx, b, msg)
	case "logs":
		h.Logs(ctx, b, msg, args)
	case "errors":
		h.Errors(ctx, b, msg, args)
	case "logsearch":
		h.LogSearch(ctx, b, msg, args)
	}
}

// splitCommand separates "/set@botname Δευτέρα 08:00" into "set" and
// "Δευτέρα 08:00".
func splitCommand(text string) (cmd, args string) {
	parts := strings.SplitN(text, " ", 2)
	cmd = strings.TrimPrefix(parts[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return strings.ToLower(cmd), args
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		h.log.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) replyMarkdown(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.log.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func scheduleLine(format string, rec domain.ScheduleRecord) string {
	return fmt.Sprintf(format, domain.DayNames[rec.Day], rec.Hour, rec.Minute)
}
