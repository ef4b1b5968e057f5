// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports whether the context is done.
// It returns context.Canceled or context.DeadlineExceeded once the context
// is finished and nil otherwise. Long-running operations call it on entry.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
