package ledger

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// RunSweeper calls l.Sweep every interval until ctx is cancelled. A failed
// sweep is logged and retried on the next tick.
func RunSweeper(ctx context.Context, l Ledger, interval time.Duration, logger logging.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := l.Sweep(ctx, now)
			if err != nil {
				logger.Warn(ctx, "ledger sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug(ctx, "ledger sweep", "purged", n)
			}
		}
	}
}
