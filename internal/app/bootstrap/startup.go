// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/jobboard/internal/app/resources"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// Shared templates are registered here. The outbound timeout follows
// ticker_timeout, and the refresher starts prefetching so the first page
// render normally finds a cached quote.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	timeouts.Configure(timeouts.Config{Upstream: appCfg.TickerTimeout})

	if deps.Refresher != nil {
		// The refresher outlives startup; only Shutdown stops it.
		if err := deps.Refresher.Start(context.WithoutCancel(ctx)); err != nil {
			logger.Error("ticker refresher failed to start", zap.Error(err))
			return err
		}
	}
	return nil
}
