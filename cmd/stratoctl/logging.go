package main

import (
	"context"

	"github.com/stratokube/strato/internal/logging"
)

// withCmdRunLogger wraps a command execution in the CMD span shape.
// It attaches the resource identifier to the logger, emits CMD:<op>/S and
// returns a cleanup function that records CMD:<op>/EOK or /EFAIL.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "cluster.create", name)
//	defer func() { cleanup(err) }()
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	if resourceID != "" {
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("resourceId", resourceID))
	}
	return logging.Span(ctx, "CMD", operation)
}
