package calculator

import (
	"context"
	"sync"
	"time"

	"square-area-client/internal/observability"

	"go.uber.org/zap"
)

// Run reloads the history every refresh interval until ctx is done. A tick
// does not wait for a load still running from an earlier tick. Run returns
// once ctx is done and every load it started has finished.
func (c *Client) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	observability.Logger.Info("history refresher started", zap.Duration("interval", c.interval))

	for {
		select {
		case <-ctx.Done():
			observability.Logger.Info("history refresher stopped")
			return
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.LoadHistory(ctx)
			}()
		}
	}
}
