// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	assignmentsfeature "github.com/dalemusser/lessonhub/internal/app/features/assignments"
	catalogfeature "github.com/dalemusser/lessonhub/internal/app/features/catalog"
	healthfeature "github.com/dalemusser/lessonhub/internal/app/features/health"
	"github.com/dalemusser/lessonhub/internal/app/store/audit"
	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/app/system/auditlog"
	"github.com/dalemusser/lessonhub/internal/app/system/metrics"
	"github.com/dalemusser/lessonhub/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// LessonHub mounts the health check, the catalog (courses, PDFs, classes and
// their label tree) and one set of assignment routes per ledger. Ledger
// routes share the /courses prefix with the catalog, so everything is
// registered on the root router rather than mounted.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.LessonHubMongoDatabase

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Admin:   appCfg.AuditLogAdmin,
		Catalog: appCfg.AuditLogCatalog,
	})

	r := chi.NewRouter()
	r.Use(reqlog.Middleware(logger))
	if appCfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(appCfg.RequestTimeout))
	}

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.LessonHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	// Catalog and labels
	catalogHandler := catalogfeature.NewHandler(db, auditLog, logger)
	catalogfeature.MountRoutes(r, catalogHandler)

	// Assignment ledgers
	for _, b := range ledger.All {
		store := ledger.New(db, b).
			WithRetryAttempts(appCfg.PriorityRetryAttempts).
			WithLogger(logger)
		h := assignmentsfeature.NewHandler(db, store, auditLog, logger, appCfg.ReorderMaxBatch)
		assignmentsfeature.MountRoutes(r, h)
	}

	return r, nil
}
