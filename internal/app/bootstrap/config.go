// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/features/assignments"
	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LessonHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, reorder_max_batch, etc.
//   - Environment variables: LESSONHUB_MONGO_URI, LESSONHUB_REORDER_MAX_BATCH, etc.
//   - Command-line flags: --mongo_uri, --reorder_max_batch, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lessonhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and initial ping timeout"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Ledger event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_catalog", Default: "log", Desc: "Catalog event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Assignment ledgers
	{Name: "reorder_max_batch", Default: assignments.DefaultMaxBatch, Desc: "Maximum items in one reorder request"},
	{Name: "priority_retry_attempts", Default: ledger.DefaultRetryAttempts, Desc: "Retries when a concurrent write takes the resolved priority"},

	// HTTP
	{Name: "request_timeout", Default: "30s", Desc: "Per-request handler timeout"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
}

var auditModes = map[string]bool{"all": true, "db": true, "log": true, "off": true}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, LESSONHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LESSONHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectWait: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		// Audit logging
		AuditLogAdmin:   appValues.String("audit_log_admin"),
		AuditLogCatalog: appValues.String("audit_log_catalog"),

		// Ledgers
		ReorderMaxBatch:       appValues.Int("reorder_max_batch"),
		PriorityRetryAttempts: appValues.Int("priority_retry_attempts"),

		// HTTP
		RequestTimeout: appValues.Duration("request_timeout", 30*time.Second),
		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.ReorderMaxBatch < 1 {
		return fmt.Errorf("reorder_max_batch must be at least 1, got %d", appCfg.ReorderMaxBatch)
	}
	if appCfg.PriorityRetryAttempts < 1 {
		return fmt.Errorf("priority_retry_attempts must be at least 1, got %d", appCfg.PriorityRetryAttempts)
	}
	for key, v := range map[string]string{
		"audit_log_admin":   appCfg.AuditLogAdmin,
		"audit_log_catalog": appCfg.AuditLogCatalog,
	} {
		if !auditModes[v] {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}
	return nil
}
