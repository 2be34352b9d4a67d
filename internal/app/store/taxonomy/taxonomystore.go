// internal/app/store/taxonomy/taxonomystore.go
package taxonomystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateName  = errors.New("a label with this name already exists here")
	ErrParentNotFound = errors.New("parent label not found")
	ErrNotFound       = errors.New("label not found")
	ErrBlankName      = errors.New("name is required")
)

// Store manages the Category → Section → Topic tree. Names are unique
// (case-insensitively) among siblings.
type Store struct {
	categories *mongo.Collection
	sections   *mongo.Collection
	topics     *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		categories: db.Collection("categories"),
		sections:   db.Collection("sections"),
		topics:     db.Collection("topics"),
	}
}

func insert(ctx context.Context, c *mongo.Collection, doc interface{}) error {
	if _, err := c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func exists(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (bool, error) {
	n, err := c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

func byName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M) ([]T, error) {
	cur, err := c.Find(ctx, filter, byName())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (T, error) {
	var out T
	err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, ErrNotFound
	}
	return out, err
}

// CreateCategory adds a top-level category.
func (s *Store) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Category{}, ErrBlankName
	}
	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := insert(ctx, s.categories, c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// CreateSection adds a section under categoryID.
func (s *Store) CreateSection(ctx context.Context, categoryID primitive.ObjectID, name string) (models.Section, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Section{}, ErrBlankName
	}
	ok, err := exists(ctx, s.categories, categoryID)
	if err != nil {
		return models.Section{}, err
	}
	if !ok {
		return models.Section{}, ErrParentNotFound
	}
	sec := models.Section{
		ID:         primitive.NewObjectID(),
		CategoryID: categoryID,
		Name:       name,
		NameCI:     text.Fold(name),
		CreatedAt:  time.Now().UTC(),
	}
	if err := insert(ctx, s.sections, sec); err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

// CreateTopic adds a topic under sectionID.
func (s *Store) CreateTopic(ctx context.Context, sectionID primitive.ObjectID, name string) (models.Topic, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Topic{}, ErrBlankName
	}
	ok, err := exists(ctx, s.sections, sectionID)
	if err != nil {
		return models.Topic{}, err
	}
	if !ok {
		return models.Topic{}, ErrParentNotFound
	}
	tp := models.Topic{
		ID:        primitive.NewObjectID(),
		SectionID: sectionID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := insert(ctx, s.topics, tp); err != nil {
		return models.Topic{}, err
	}
	return tp, nil
}

// ListCategories returns every category by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return findAll[models.Category](ctx, s.categories, bson.M{})
}

// ListSections returns the sections of categoryID by name.
func (s *Store) ListSections(ctx context.Context, categoryID primitive.ObjectID) ([]models.Section, error) {
	return findAll[models.Section](ctx, s.sections, bson.M{"category_id": categoryID})
}

// ListTopics returns the topics of sectionID by name.
func (s *Store) ListTopics(ctx context.Context, sectionID primitive.ObjectID) ([]models.Topic, error) {
	return findAll[models.Topic](ctx, s.topics, bson.M{"section_id": sectionID})
}

// GetTopic returns ErrNotFound when no topic has id.
func (s *Store) GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return findOne[models.Category](ctx, s.categories, id)
}

func (s *Store) GetTopic(ctx context.Context, id primitive.ObjectID) (models.Topic, error) {
	return findOne[models.Topic](ctx, s.topics, id)
}

// GetSection returns ErrNotFound when no section has id.
func (s *Store) GetSection(ctx context.Context, id primitive.ObjectID) (models.Section, error) {
	return findOne[models.Section](ctx, s.sections, id)
}
