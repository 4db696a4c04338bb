package gke

import (
	"context"
	"time"

	"github.com/stratokube/strato/internal/logging"
)

// withMethodLogger implements the Span pattern for GKE driver logging,
// emitting START and END:OK / END:FAILED lines around each driver method.
func (d *driver) withMethodLogger(ctx context.Context, method string) (context.Context, func(err error)) {
	startAt := time.Now()

	driverName := "GKE." + method
	logger := logging.FromContext(ctx).With("driver", driverName)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "GKE:"+method+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "GKE:"+method+":END:OK", "err", "", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, "GKE:"+method+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}
