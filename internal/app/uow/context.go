package uow

import (
	"context"
	"errors"
	"sync"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok && unit != nil
}

// Begin starts a unit on factory and returns a context carrying it. Stores
// that need their own session in the context (mongo) get to inject it.
func Begin(ctx context.Context, factory UoWFactory, opts TxOptions) (UnitOfWork, context.Context, error) {
	if factory == nil {
		return nil, ctx, ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	return unit, ContextWithUnitOfWork(execCtx, unit), nil
}

// ReadOnly reuses the unit already in ctx or opens a read-only one. The
// returned release func is never nil.
func ReadOnly(ctx context.Context, factory UoWFactory) (UnitOfWork, context.Context, func(), error) {
	if unit, ok := FromContext(ctx); ok {
		return unit, ctx, func() {}, nil
	}
	unit, execCtx, err := Begin(ctx, factory, TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, func() {}, err
	}
	return unit, execCtx, func() { _ = unit.Rollback(execCtx) }, nil
}

type afterCommitKey struct{}

type afterCommit struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// CollectAfterCommit returns a context that gathers AfterCommit callbacks and
// the func that runs them. Call run only once the unit has committed; the
// callbacks are dropped otherwise.
func CollectAfterCommit(ctx context.Context) (context.Context, func(context.Context)) {
	c := &afterCommit{}
	run := func(ctx context.Context) {
		c.mu.Lock()
		fns := c.fns
		c.fns = nil
		c.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, afterCommitKey{}, c), run
}

// AfterCommit defers fn until the unit collecting callbacks in ctx commits.
// It reports false when nothing is collecting, leaving fn to the caller.
func AfterCommit(ctx context.Context, fn func(context.Context)) bool {
	c, ok := ctx.Value(afterCommitKey{}).(*afterCommit)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
	return true
}
