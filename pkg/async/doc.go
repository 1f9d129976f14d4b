// Package async runs work off the caller's goroutine.
//
// The agent never blocks the host on network I/O, so the HTTP fallback of the
// transport runs in a Group. Panics inside a task are recovered and reported
// as an error wrapping ErrPanic.
//
// # Usage
//
//	var tasks async.Group
//	tasks.Go(ctx, func(ctx context.Context) error {
//	    return post(ctx, body)
//	}, func(err error) {
//	    if err != nil {
//	        log.Warn("post failed", logger.Error(err))
//	    }
//	})
//
//	// later, e.g. before the process exits
//	_ = tasks.Wait(shutdownCtx)
package async
