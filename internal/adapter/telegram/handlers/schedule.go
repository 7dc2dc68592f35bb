package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"kalimerabot/internal/domain"
	"kalimerabot/internal/store"
)

// Start enables deliveries, creating the default schedule (Monday
// 08:00) for chats seen for the first time. The existing day and time
// are never changed.
func (h *Handler) Start(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	h.log.Info("USER start", "chat_id", chatID, "user_id", userID(msg))

	rec, err := h.ensureSchedule(ctx, chatID)
	if err != nil {
		h.log.Error("start", "chat_id", chatID, "error", err)
		return
	}
	if err := h.store.UpsertEnabled(ctx, chatID, true); err != nil {
		h.log.Error("start", "chat_id", chatID, "error", err)
		return
	}

	h.replyMarkdown(ctx, b, chatID, scheduleLine(msgStartedFmt, rec), mainMenuKeyboard())
}

// Stop pauses deliveries. The schedule is kept for the next /start.
func (h *Handler) Stop(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	h.log.Info("USER stop", "chat_id", chatID, "user_id", userID(msg))

	if err := h.store.UpsertEnabled(ctx, chatID, false); err != nil {
		h.log.Error("stop", "chat_id", chatID, "error", err)
		return
	}
	h.reply(ctx, b, chatID, msgStopped)
}

// Set updates the schedule from the command arguments, e.g.
// "/set Κυριακή 23:58" or "/set 21:15" (time only keeps the day).
func (h *Handler) Set(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	chatID := msg.Chat.ID

	if args == "" {
		h.replyMarkdown(ctx, b, chatID, msgSetUsage, nil)
		return
	}

	rec, ok := h.applySchedule(ctx, b, chatID, args)
	if !ok {
		return
	}
	h.log.Info("USER set", "chat_id", chatID, "day", domain.DayNames[rec.Day], "hour", rec.Hour, "minute", rec.Minute)
	h.reply(ctx, b, chatID, scheduleLine(msgSetOKFmt, rec))
}

// When shows the chat's current schedule.
func (h *Handler) When(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID

	rec, err := h.store.GetSchedule(ctx, chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.reply(ctx, b, chatID, msgWhenNone)
			return
		}
		h.log.Error("when", "chat_id", chatID, "error", err)
		return
	}
	h.reply(ctx, b, chatID, scheduleLine(msgWhenFmt, rec))
}

// Help shows usage instructions with the main menu.
func (h *Handler) Help(ctx context.Context, b *bot.Bot, msg *models.Message) {
	h.replyMarkdown(ctx, b, msg.Chat.ID, helpText, mainMenuKeyboard())
}

// FreeText treats a plain message like "Τετάρτη 18:30" as a schedule
// change. Text that does not parse is ignored silently, so ordinary
// conversation does not trigger error replies.
func (h *Handler) FreeText(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	day, hour, minute, err := domain.ParseDayTime(text)
	if err != nil {
		return
	}

	rec, ok := h.storeSchedule(ctx, b, chatID, day, hour, minute)
	if !ok {
		return
	}
	h.log.Info("USER set_text", "chat_id", chatID, "day", domain.DayNames[rec.Day], "hour", rec.Hour, "minute", rec.Minute)
	h.reply(ctx, b, chatID, scheduleLine(msgSetTextFmt, rec))
}

// applySchedule parses text and persists the result, answering the user
// when the text cannot be understood.
func (h *Handler) applySchedule(ctx context.Context, b *bot.Bot, chatID int64, text string) (domain.ScheduleRecord, bool) {
	day, hour, minute, err := domain.ParseDayTime(text)
	if err != nil {
		h.reply(ctx, b, chatID, msgSetUnparsable)
		return domain.ScheduleRecord{}, false
	}
	return h.storeSchedule(ctx, b, chatID, day, hour, minute)
}

// storeSchedule resolves an unspecified day against the stored one and
// persists the schedule, enabling the chat.
func (h *Handler) storeSchedule(ctx context.Context, b *bot.Bot, chatID int64, day, hour, minute int) (domain.ScheduleRecord, bool) {
	if day == domain.DayUnspecified {
		day = domain.DefaultDay
		if current, err := h.store.GetSchedule(ctx, chatID); err == nil {
			day = current.Day
		}
	}

	if err := h.store.UpsertSchedule(ctx, chatID, day, hour, minute); err != nil {
		h.log.Error("set schedule", "chat_id", chatID, "error", err)
		return domain.ScheduleRecord{}, false
	}
	return domain.ScheduleRecord{ChatID: chatID, Enabled: true, Day: day, Hour: hour, Minute: minute}, true
}

// ensureSchedule returns the chat's schedule, inserting the default one
// when the chat is new.
func (h *Handler) ensureSchedule(ctx context.Context, chatID int64) (domain.ScheduleRecord, error) {
	rec, err := h.store.GetSchedule(ctx, chatID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.ScheduleRecord{}, err
	}

	rec = domain.ScheduleRecord{
		ChatID:  chatID,
		Enabled: true,
		Day:     domain.DefaultDay,
		Hour:    domain.DefaultHour,
		Minute:  domain.DefaultMinute,
	}
	if err := h.store.UpsertSchedule(ctx, chatID, rec.Day, rec.Hour, rec.Minute); err != nil {
		return domain.ScheduleRecord{}, err
	}
	return rec, nil
}

func userID(msg *models.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return 0
}
