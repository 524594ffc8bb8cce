package platform

import (
	"context"
	"os/signal"
)

// NewShutdownContext creates a context that is canceled when the process
// receives one of the platform's shutdown signals.
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals()...)
}
