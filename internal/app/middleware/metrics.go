package middleware

import (
	"context"
	"time"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/queries"
)

// Recorder receives one observation per bus call.
type Recorder interface {
	ObserveCommand(key string, took time.Duration, err error)
	ObserveQuery(key string, took time.Duration, err error)
}

func CommandMetrics(r Recorder) CommandMiddleware {
	if r == nil {
		return nil
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			r.ObserveCommand(cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryMetrics(r Recorder) QueryMiddleware {
	if r == nil {
		return nil
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			r.ObserveQuery(q.Key(), time.Since(start), err)
			return res, err
		})
	}
}
