// internal/app/store/classes/classstore.go
package classstore

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

var ErrNotFound = errors.New("class not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("classes")}
}

// Create inserts a class (recorded lesson).
func (s *Store) Create(ctx context.Context, cl models.Class) (models.Class, error) {
	now := time.Now().UTC()

	cl.ID = primitive.NewObjectID()
	cl.Title = normalize.Name(cl.Title)
	cl.TitleCI = text.Fold(cl.Title)
	cl.VideoURL = normalize.URL(cl.VideoURL)
	cl.Status = normalize.StatusOrActive(cl.Status)
	cl.CreatedAt = now
	cl.UpdatedAt = now

	if strings.TrimSpace(cl.Title) == "" {
		return models.Class{}, mongo.CommandError{Message: "title is required"}
	}
	if cl.DurationSeconds < 0 {
		return models.Class{}, mongo.CommandError{Message: "duration_seconds must not be negative"}
	}

	if _, err := s.c.InsertOne(ctx, cl); err != nil {
		return models.Class{}, err
	}
	return cl, nil
}

// GetByID returns ErrNotFound when no class has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Class, error) {
	var cl models.Class
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Class{}, ErrNotFound
	}
	if err != nil {
		return models.Class{}, err
	}
	return cl, nil
}

// Find returns classes matching filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Class, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	classes := []models.Class{}
	if err := cur.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}
