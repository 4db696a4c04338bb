package logging

import (
	"context"
	"time"
)

// Span emits a start log line for a named operation and returns a context
// carrying the span-scoped logger plus a cleanup function that records the
// outcome. Provider drivers and CLI commands share this shape.
//
// Usage:
//
//	ctx, end := logging.Span(ctx, "EKS", "ClusterCreate")
//	defer func() { end(err) }()
//
// Log message format:
// - Start:   <component>:<op>/S
// - Success: <component>:<op>/EOK   (err, elapsed in attributes)
// - Failure: <component>:<op>/EFAIL (err, elapsed in attributes)
func Span(ctx context.Context, component, op string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := FromContext(ctx).With("span", component+"."+op)
	ctx = WithLogger(ctx, logger)

	logger.Info(ctx, component+":"+op+"/S")

	end := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, component+":"+op+"/EOK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 64 {
			errStr = errStr[:64] + "..."
		}
		logger.Warn(ctx, component+":"+op+"/EFAIL", "err", errStr, "elapsed", elapsed)
	}

	return ctx, end
}
