package handlers

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nijaru/ytsum/middleware"
)

// Dispatcher fans updates out to a fixed pool of workers so one slow
// summary does not hold up other chats.
type Dispatcher struct {
	handler middleware.Handler
	workers int
}

func NewDispatcher(handler middleware.Handler, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{handler: handler, workers: workers}
}

// Run blocks until updates is closed or ctx is cancelled, then waits for
// in-flight updates to finish.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case update, ok := <-updates:
					if !ok {
						return
					}
					d.handler(ctx, update)
				}
			}
		}()
	}
	wg.Wait()
}
