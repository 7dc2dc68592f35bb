package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"kalimerabot/internal/domain"
	"kalimerabot/internal/store"
)

// handleCallback routes inline keyboard presses: "action:*" from the
// main menu and "setday:N" from the day picker.
func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	// always acknowledge, otherwise the client keeps the spinner
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})
	if err != nil {
		h.log.Error("answer callback", "error", err)
	}

	if cb.Message.Message == nil {
		return
	}
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID

	if day, ok := strings.CutPrefix(cb.Data, "setday:"); ok {
		h.setDayCallback(ctx, b, chatID, messageID, day)
		return
	}

	h.log.Info("USER button", "chat_id", chatID, "action", cb.Data)
	switch cb.Data {
	case "action:start":
		h.menuStart(ctx, b, chatID, messageID)
	case "action:stop":
		h.menuStop(ctx, b, chatID, messageID)
	case "action:set":
		h.edit(ctx, b, chatID, messageID, msgMenuPickDay, "", dayPickerKeyboard())
	case "action:when":
		h.menuWhen(ctx, b, chatID, messageID)
	case "action:help":
		h.edit(ctx, b, chatID, messageID, helpText, models.ParseModeMarkdown, mainMenuKeyboard())
	}
}

func (h *Handler) menuStart(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	rec, err := h.ensureSchedule(ctx, chatID)
	if err != nil {
		h.log.Error("menu start", "chat_id", chatID, "error", err)
		return
	}
	if err := h.store.UpsertEnabled(ctx, chatID, true); err != nil {
		h.log.Error("menu start", "chat_id", chatID, "error", err)
		return
	}
	h.edit(ctx, b, chatID, messageID, scheduleLine(msgMenuStartedFmt, rec), "", mainMenuKeyboard())
}

func (h *Handler) menuStop(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	if err := h.store.UpsertEnabled(ctx, chatID, false); err != nil {
		h.log.Error("menu stop", "chat_id", chatID, "error", err)
		return
	}
	h.edit(ctx, b, chatID, messageID, msgMenuStopped, "", mainMenuKeyboard())
}

func (h *Handler) menuWhen(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	rec, err := h.store.GetSchedule(ctx, chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.edit(ctx, b, chatID, messageID, msgMenuWhenNone, "", mainMenuKeyboard())
			return
		}
		h.log.Error("menu when", "chat_id", chatID, "error", err)
		return
	}
	h.edit(ctx, b, chatID, messageID, scheduleLine(msgMenuWhenFmt, rec), "", mainMenuKeyboard())
}

// setDayCallback applies a day picked from the keyboard, keeping the
// stored time (or the 08:00 default for new chats).
func (h *Handler) setDayCallback(ctx context.Context, b *bot.Bot, chatID int64, messageID int, dayArg string) {
	day, err := strconv.Atoi(dayArg)
	if err != nil || day < domain.Monday || day > domain.Sunday {
		return
	}

	hour, minute := domain.DefaultHour, domain.DefaultMinute
	if current, gerr := h.store.GetSchedule(ctx, chatID); gerr == nil {
		hour, minute = current.Hour, current.Minute
	}

	if err := h.store.UpsertSchedule(ctx, chatID, day, hour, minute); err != nil {
		h.log.Error("set day", "chat_id", chatID, "error", err)
		return
	}
	h.log.Info("USER set_day", "chat_id", chatID, "day", domain.DayNames[day])

	text := fmt.Sprintf(msgMenuDaySetFmt, domain.DayNames[day])
	h.edit(ctx, b, chatID, messageID, text, models.ParseModeMarkdown, mainMenuKeyboard())
}

func (h *Handler) edit(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, parseMode models.ParseMode, kb *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if parseMode != "" {
		params.ParseMode = parseMode
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.log.Error("edit message", "chat_id", chatID, "error", err)
	}
}
