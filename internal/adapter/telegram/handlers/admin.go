package handlers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"kalimerabot/pkg/logtail"
)

// maxReplyChars keeps log excerpts under Telegram's message size limit.
const maxReplyChars = 3500

// SendNow broadcasts a custom message to every enabled chat
// immediately, with the same pacing and retry behavior as scheduled
// deliveries, and reports the sent/failed counts back to the admin.
func (h *Handler) SendNow(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	if !h.isAdmin(ctx, b, chatID) {
		return
	}

	if args == "" {
		h.reply(ctx, b, chatID, msgSendNowUsage)
		return
	}

	ids, err := h.store.ListEnabled(ctx)
	if err != nil {
		h.log.Error("sendnow", "error", err)
		return
	}
	if len(ids) == 0 {
		h.reply(ctx, b, chatID, msgSendNowNobody)
		return
	}

	h.log.Info("ADMIN sendnow", "chat_id", chatID, "recipients", len(ids))
	sent, failed := h.broadcaster.Dispatch(ctx, ids, args)
	h.reply(ctx, b, chatID, fmt.Sprintf(msgSendNowDoneFmt, sent, failed))
}

// Stats reports how many chats exist and how many are enabled.
func (h *Handler) Stats(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	if !h.isAdmin(ctx, b, chatID) {
		return
	}

	enabled, total, err := h.store.Counts(ctx)
	if err != nil {
		h.log.Error("stats", "error", err)
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf(msgStatsFmt, enabled, total))
}

// Logs shows the tail of the activity log: "/logs 80".
func (h *Handler) Logs(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	if !h.isAdmin(ctx, b, chatID) {
		return
	}
	h.replyTail(ctx, b, chatID, h.activityLog, argCount(args, 80))
}

// Errors shows the tail of the error log: "/errors 120".
func (h *Handler) Errors(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	if !h.isAdmin(ctx, b, chatID) {
		return
	}
	h.replyTail(ctx, b, chatID, h.errorLog, argCount(args, 120))
}

// LogSearch filters recent activity log lines: "/logsearch set 500".
func (h *Handler) LogSearch(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	if !h.isAdmin(ctx, b, chatID) {
		return
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.reply(ctx, b, chatID, msgLogSearchUsage)
		return
	}
	needle := fields[0]
	n := 500
	if len(fields) >= 2 {
		if v, err := strconv.Atoi(fields[1]); err == nil {
			n = v
		}
	}

	hits, err := logtail.Grep(h.activityLog, needle, n, 200)
	if err != nil {
		h.replyCode(ctx, b, chatID, logReadError(h.activityLog, err))
		return
	}
	out := strings.Join(hits, "\n")
	if out == "" {
		out = msgLogNoMatch
	}
	h.replyCode(ctx, b, chatID, out)
}

func (h *Handler) replyTail(ctx context.Context, b *bot.Bot, chatID int64, path string, n int) {
	text, err := logtail.Tail(path, n)
	if err != nil {
		h.replyCode(ctx, b, chatID, logReadError(path, err))
		return
	}
	if text == "" {
		text = msgLogEmpty
	}
	h.replyCode(ctx, b, chatID, text)
}

// replyCode sends text as a monospace block, keeping the most recent
// part when it is too long for one Telegram message.
func (h *Handler) replyCode(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	text = truncateTail(text, maxReplyChars)
	h.replyMarkdown(ctx, b, chatID, "```text\n"+text+"\n```", nil)
}

// truncateTail keeps the last max characters, marking the cut.
func truncateTail(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := text[len(text)-max:]
	// do not start mid-way through a multi-byte character
	for len(cut) > 0 && !utf8.RuneStart(cut[0]) {
		cut = cut[1:]
	}
	return msgTruncatedMark + cut
}

func (h *Handler) isAdmin(ctx context.Context, b *bot.Bot, chatID int64) bool {
	if h.admins.IsAllowed(chatID) {
		return true
	}
	h.reply(ctx, b, chatID, msgDenied)
	return false
}

// argCount parses an optional numeric argument like "/logs 80".
func argCount(args string, fallback int) int {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func logReadError(path string, err error) string {
	if os.IsNotExist(err) {
		return fmt.Sprintf(msgLogMissingFmt, path)
	}
	return fmt.Sprintf(msgLogReadErrFmt, err)
}
