package middleware

import (
	"context"
	"log/slog"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/outbox"
)

// OutboxFlush publishes what the command left in box. It sits outside
// Transaction, so the command has already committed and a failed flush is
// only logged; the records stay in box for the next flush.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				logger.WarnContext(ctx, "outbox flush failed", "command", cmd.Key(), "err", err)
			}
			return res, nil
		})
	}
}
