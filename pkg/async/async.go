package async

import (
	"context"
	"fmt"
	"sync"
)

// Group tracks detached goroutines so their owner can drain them later.
// The zero value is ready to use.
type Group struct {
	wg sync.WaitGroup
}

// Go runs fn in a new goroutine. A ctx that is already done skips fn and
// reports ctx.Err(). When done is not nil it receives fn's error, or an error
// wrapping ErrPanic if fn panicked, before the task counts as finished.
func (g *Group) Go(ctx context.Context, fn func(context.Context) error, done func(error)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		err := run(ctx, fn)
		if done != nil {
			done(err)
		}
	}()
}

// Wait blocks until every task started with Go has finished or ctx is done.
func (g *Group) Wait(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
