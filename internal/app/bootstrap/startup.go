// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("operation timeouts overridden from environment",
			zap.Int("count", n),
			zap.Duration("ping", cur.Ping),
			zap.Duration("read", cur.Read),
			zap.Duration("write", cur.Write),
			zap.Duration("reorder", cur.Reorder))
	}
	return nil
}
