package eks

import (
	"context"
	"time"

	"github.com/stratokube/strato/internal/logging"
)

// withMethodLogger implements the Span pattern for EKS driver logging.
// It emits a START log line and returns a context with logger attributes
// attached, plus a cleanup function to emit the END:OK or END:FAILED line.
//
// Usage:
//
//	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
//	defer func() { cleanup(err) }()
func (d *driver) withMethodLogger(ctx context.Context, method string) (context.Context, func(err error)) {
	startAt := time.Now()

	driverName := "EKS." + method
	logger := logging.FromContext(ctx).With("driver", driverName)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "EKS:"+method+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "EKS:"+method+":END:OK", "err", "", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, "EKS:"+method+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}
