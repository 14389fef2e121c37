package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// dispatcher handles updates of different chats concurrently and updates of
// the same chat in arrival order. A chat's worker exits once its queue is
// empty.
type dispatcher struct {
	handle func(ctx context.Context, upd tgbotapi.Update)

	mu     sync.Mutex
	queues map[int64][]tgbotapi.Update
	wg     sync.WaitGroup
}

func newDispatcher(handle func(ctx context.Context, upd tgbotapi.Update)) *dispatcher {
	return &dispatcher{
		handle: handle,
		queues: make(map[int64][]tgbotapi.Update),
	}
}

func updateChatID(upd tgbotapi.Update) int64 {
	if upd.Message != nil && upd.Message.Chat != nil {
		return upd.Message.Chat.ID
	}
	return 0
}

func (d *dispatcher) dispatch(ctx context.Context, upd tgbotapi.Update) {
	chatID := updateChatID(upd)

	d.mu.Lock()
	queue, running := d.queues[chatID]
	d.queues[chatID] = append(queue, upd)
	d.mu.Unlock()

	if running {
		return
	}
	d.wg.Add(1)
	go d.drain(ctx, chatID)
}

func (d *dispatcher) drain(ctx context.Context, chatID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.queues[chatID]
		if len(queue) == 0 {
			delete(d.queues, chatID)
			d.mu.Unlock()
			return
		}
		upd := queue[0]
		d.queues[chatID] = queue[1:]
		d.mu.Unlock()

		d.handle(ctx, upd)
	}
}

func (d *dispatcher) wait() {
	d.wg.Wait()
}

func (d *dispatcher) active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}
