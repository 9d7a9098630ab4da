package middleware

import (
	"context"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/queries"
)

// Authorizer vets a command or query against the caller carried in ctx.
// It runs ahead of validation, so a locked-out caller learns nothing about
// the shape of its input.
type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// AuthorizerFunc adapts a plain check to Authorizer.
type AuthorizerFunc func(ctx context.Context, message any) error

func (f AuthorizerFunc) Authorize(ctx context.Context, message any) error {
	return f(ctx, message)
}

func Authorization(a Authorizer) CommandMiddleware {
	authorize := requireAuthorizer(a)
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	authorize := requireAuthorizer(a)
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := authorize(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

func requireAuthorizer(a Authorizer) func(context.Context, any) error {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return a.Authorize
}
