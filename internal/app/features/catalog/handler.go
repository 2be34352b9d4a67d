// internal/app/features/catalog/handler.go
package catalog

import (
	classstore "github.com/dalemusser/lessonhub/internal/app/store/classes"
	coursestore "github.com/dalemusser/lessonhub/internal/app/store/courses"
	pdfstore "github.com/dalemusser/lessonhub/internal/app/store/pdfs"
	taxonomystore "github.com/dalemusser/lessonhub/internal/app/store/taxonomy"
	"github.com/dalemusser/lessonhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves create/get/list for courses, pdfs, classes and the
// label tree.
type Handler struct {
	DB       *mongo.Database
	Courses  *coursestore.Store
	Pdfs     *pdfstore.Store
	Classes  *classstore.Store
	Taxonomy *taxonomystore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Handler with stores bound to db.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Courses:  coursestore.New(db),
		Pdfs:     pdfstore.New(db),
		Classes:  classstore.New(db),
		Taxonomy: taxonomystore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}
