// internal/domain/models/pdf.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pdf is a downloadable document that can be attached to courses.
// The file itself lives elsewhere; only its URL and metadata are stored.
type Pdf struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`
	FileURL     string `bson:"file_url" json:"fileUrl"`
	FileName    string `bson:"file_name,omitempty" json:"fileName,omitempty"`
	FileSize    int64  `bson:"file_size,omitempty" json:"fileSize,omitempty"` // bytes

	// Labels. Any of these may be unset or point at a deleted document.
	CategoryID *primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	SectionID  *primitive.ObjectID `bson:"section_id,omitempty" json:"sectionId,omitempty"`
	TopicID    *primitive.ObjectID `bson:"topic_id,omitempty" json:"topicId,omitempty"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
