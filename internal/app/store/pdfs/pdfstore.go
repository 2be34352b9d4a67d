// internal/app/store/pdfs/pdfstore.go
package pdfstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("pdf not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pdfs")}
}

// Create inserts a PDF record. The file itself is stored elsewhere; FileURL
// points at it.
func (s *Store) Create(ctx context.Context, p models.Pdf) (models.Pdf, error) {
	now := time.Now().UTC()

	p.ID = primitive.NewObjectID()
	p.Title = normalize.Name(p.Title)
	p.TitleCI = text.Fold(p.Title)
	p.FileURL = normalize.URL(p.FileURL)
	p.Status = normalize.StatusOrActive(p.Status)
	p.CreatedAt = now
	p.UpdatedAt = now

	if strings.TrimSpace(p.Title) == "" {
		return models.Pdf{}, mongo.CommandError{Message: "title is required"}
	}
	if p.FileURL == "" {
		return models.Pdf{}, mongo.CommandError{Message: "file_url is required"}
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Pdf{}, err
	}
	return p, nil
}

// GetByID returns ErrNotFound when no PDF has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Pdf, error) {
	var p models.Pdf
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Pdf{}, ErrNotFound
	}
	if err != nil {
		return models.Pdf{}, err
	}
	return p, nil
}

// Find returns PDFs matching filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Pdf, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	pdfs := []models.Pdf{}
	if err := cur.All(ctx, &pdfs); err != nil {
		return nil, err
	}
	return pdfs, nil
}
