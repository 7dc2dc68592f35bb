package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestDispatcherPreservesPerChatOrder(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[int64][]int{}
		wg   sync.WaitGroup
	)

	d := NewDispatcher(nil, 4, func(_ context.Context, _ *bot.Bot, upd *models.Update) {
		defer wg.Done()
		mu.Lock()
		seen[upd.Message.Chat.ID] = append(seen[upd.Message.Chat.ID], upd.Message.ID)
		mu.Unlock()
	})
	defer d.Close()

	const perChat = 20
	chats := []int64{-100, 7, 8}
	wg.Add(perChat * len(chats))
	for i := 1; i <= perChat; i++ {
		for _, chat := range chats {
			d.Dispatch(context.Background(), &models.Update{
				Message: &models.Message{ID: i, Chat: models.Chat{ID: chat}},
			})
		}
	}
	wg.Wait()

	for _, chat := range chats {
		mu.Lock()
		got := seen[chat]
		mu.Unlock()
		assert.Len(t, got, perChat)
		assert.IsIncreasing(t, got, "chat %d updates out of order", chat)
	}
}

func TestDispatcherHandlesUpdateWithoutChat(t *testing.T) {
	done := make(chan struct{})
	d := NewDispatcher(nil, 2, func(context.Context, *bot.Bot, *models.Update) {
		close(done)
	})
	defer d.Close()

	d.Dispatch(context.Background(), &models.Update{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("update was never handled")
	}
}
