package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// tasks runs background loops on a context of their own so run can stop
// them on any exit path, not only on a signal.
type tasks struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

func startTasks(ctx context.Context, logger *slog.Logger) *tasks {
	ctx, cancel := context.WithCancel(ctx)
	return &tasks{ctx: ctx, cancel: cancel, logger: logger}
}

func (t *tasks) Go(name string, fn func(context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := fn(t.ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.logger.Error("background task stopped", "task", name, "error", err)
		}
	}()
}

// Stop cancels every task and waits for them. Safe to call more than once.
func (t *tasks) Stop() {
	t.cancel()
	t.wg.Wait()
}
