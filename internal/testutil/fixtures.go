package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it again on the returned request keeps earlier parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc interface{}) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateCourse creates an active course with the given title.
func (f *Fixtures) CreateCourse(ctx context.Context, title string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "courses", c)
	return c
}

// CreatePdf creates an unlabelled PDF.
func (f *Fixtures) CreatePdf(ctx context.Context, title string) models.Pdf {
	f.t.Helper()
	return f.CreatePdfWithTopic(ctx, title, nil)
}

// CreatePdfWithTopic creates a PDF labelled with topic. A nil topic leaves
// every label unset.
func (f *Fixtures) CreatePdfWithTopic(ctx context.Context, title string, topic *models.Topic) models.Pdf {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Pdf{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		FileURL:   "https://files.example.com/" + primitive.NewObjectID().Hex() + ".pdf",
		FileName:  title + ".pdf",
		FileSize:  1024,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if topic != nil {
		tid := topic.ID
		sid := topic.SectionID
		p.TopicID = &tid
		p.SectionID = &sid
	}
	f.insert(ctx, "pdfs", p)
	return p
}

// CreateClass creates an unlabelled class.
func (f *Fixtures) CreateClass(ctx context.Context, title string) models.Class {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Class{
		ID:              primitive.NewObjectID(),
		Title:           title,
		TitleCI:         text.Fold(title),
		VideoURL:        "https://video.example.com/" + primitive.NewObjectID().Hex(),
		DurationSeconds: 600,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, "classes", c)
	return c
}

// CreateCategory creates a category.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()

	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "categories", c)
	return c
}

// CreateSection creates a section under categoryID.
func (f *Fixtures) CreateSection(ctx context.Context, categoryID primitive.ObjectID, name string) models.Section {
	f.t.Helper()

	s := models.Section{
		ID:         primitive.NewObjectID(),
		CategoryID: categoryID,
		Name:       name,
		NameCI:     text.Fold(name),
		CreatedAt:  time.Now().UTC(),
	}
	f.insert(ctx, "sections", s)
	return s
}

// CreateTopic creates a topic under sectionID.
func (f *Fixtures) CreateTopic(ctx context.Context, sectionID primitive.ObjectID, name string) models.Topic {
	f.t.Helper()

	tp := models.Topic{
		ID:        primitive.NewObjectID(),
		SectionID: sectionID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "topics", tp)
	return tp
}
