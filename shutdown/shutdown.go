// Package shutdown ties a context's lifetime to SIGINT and SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/amp-snippets/logger"
)

// SetupHandler returns a child of parent that is canceled when the process receives
// SIGINT or SIGTERM, or when stop is called. Call stop once the context is no longer
// needed to release the signal subscription. Each call subscribes independently, so
// handlers may be set up and stopped any number of times in one process.
func SetupHandler(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	var once sync.Once

	stop = func() {
		once.Do(func() {
			signal.Stop(signals)
			cancel()
		})
	}

	go func() {
		select {
		case sig := <-signals:
			logger.Get(ctx).Warn("received " + sig.String() + ", shutting down")
			stop()
		case <-ctx.Done():
			stop()
		}
	}()

	return ctx, stop
}
