package chat

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunStatsLogger starts a background loop that periodically logs room
// occupancy and history usage until ctx is cancelled.
func RunStatsLogger(ctx context.Context, interval time.Duration, registry *Registry, history *History) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				zap.L().Info("room stats",
					zap.Int("clients", registry.Len()),
					zap.Int("history", history.Len()))
			}
		}
	}()
}
