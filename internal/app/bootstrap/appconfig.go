// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits); this
// struct carries what LessonHub itself needs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64
	MongoConnectWait time.Duration // connect + initial ping budget

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAdmin   string // ledger mutations
	AuditLogCatalog string // catalog and label creation

	// Assignment ledgers
	ReorderMaxBatch       int // items accepted by one reorder request
	PriorityRetryAttempts int // resolver retries when a concurrent write takes the slot

	// HTTP surface
	RequestTimeout time.Duration
	MetricsEnabled bool // serve Prometheus metrics at /metrics
}
