// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the container side of every assignment ledger. PDFs and
// Classes are attached to a course through course_pdfs and course_classes.
type Course struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped

	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	Status      string              `bson:"status" json:"status"` // "active" or "disabled"

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
