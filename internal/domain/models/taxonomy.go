// internal/domain/models/taxonomy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the top level of the Category → Section → Topic labelling tree.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Section belongs to a Category.
type Section struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID primitive.ObjectID `bson:"category_id" json:"categoryId"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Topic belongs to a Section. Topic names drive the grouped list views.
type Topic struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectionID primitive.ObjectID `bson:"section_id" json:"sectionId"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
