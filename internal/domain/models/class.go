// internal/domain/models/class.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class is a recorded lesson (video) that can be attached to courses.
type Class struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"`

	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL        string `bson:"video_url" json:"videoUrl"`
	DurationSeconds int    `bson:"duration_seconds,omitempty" json:"durationSeconds,omitempty"`

	CategoryID *primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	SectionID  *primitive.ObjectID `bson:"section_id,omitempty" json:"sectionId,omitempty"`
	TopicID    *primitive.ObjectID `bson:"topic_id,omitempty" json:"topicId,omitempty"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
