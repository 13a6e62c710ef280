package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDispatcherHandlesAllUpdates(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}

	d := NewDispatcher(func(ctx context.Context, update tgbotapi.Update) {
		mu.Lock()
		seen[update.UpdateID] = true
		mu.Unlock()
	}, 3)

	updates := make(chan tgbotapi.Update, 10)
	for i := 0; i < 10; i++ {
		updates <- tgbotapi.Update{UpdateID: i}
	}
	close(updates)

	d.Run(context.Background(), updates)

	if len(seen) != 10 {
		t.Errorf("expected 10 handled updates, got %d", len(seen))
	}
}

func TestDispatcherStopsOnCancel(t *testing.T) {
	d := NewDispatcher(func(ctx context.Context, update tgbotapi.Update) {}, 2)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx, make(chan tgbotapi.Update))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
}
