// internal/app/store/courses/coursestore.go
package coursestore

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

var ErrNotFound = errors.New("course not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// Create inserts a course, setting TitleCI, status and timestamps.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	now := time.Now().UTC()

	c.ID = primitive.NewObjectID()
	c.Title = normalize.Name(c.Title)
	c.TitleCI = text.Fold(c.Title)
	c.Status = normalize.StatusOrActive(c.Status)
	c.CreatedAt = now
	c.UpdatedAt = now

	if strings.TrimSpace(c.Title) == "" {
		return models.Course{}, mongo.CommandError{Message: "title is required"}
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// GetByID returns ErrNotFound when no course has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Course{}, ErrNotFound
	}
	if err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// Find returns courses matching filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Course, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	courses := []models.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Count returns the number of courses matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
