package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithTermination returns a copy of ctx that is cancelled when the
// process receives SIGINT or SIGTERM.
func WithTermination(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
