// internal/app/features/assignments/handler.go
package assignments

import (
	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxBatch caps the items accepted by one reorder request.
const DefaultMaxBatch = 500

// courseParam is the chi URL parameter naming the container course.
const courseParam = "courseID"

// Handler serves the HTTP surface of one assignment ledger. bootstrap
// builds one Handler per ledger.Binding and mounts them side by side.
type Handler struct {
	DB       *mongo.Database
	Ledger   *ledger.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	MaxBatch int
}

// NewHandler constructs a Handler for the ledger served by store.
func NewHandler(db *mongo.Database, store *ledger.Store, audit *auditlog.Logger, logger *zap.Logger, maxBatch int) *Handler {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &Handler{
		DB:       db,
		Ledger:   store,
		AuditLog: audit,
		Log:      logger.With(zap.String("ledger", store.Binding().Name)),
		MaxBatch: maxBatch,
	}
}

func (h *Handler) binding() ledger.Binding { return h.Ledger.Binding() }
