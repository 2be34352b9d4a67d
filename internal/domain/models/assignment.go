// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment is one row of an assignment ledger: a member (PDF or Class)
// attached to a container (Course) at a display priority.
//
// A (ContainerID, MemberID) pair appears at most once, active or not.
// Among active rows of one container, no two share a Priority.
// Inactive rows keep their Priority but take no part in that rule.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContainerID primitive.ObjectID `bson:"container_id" json:"containerId"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"memberId"`

	Priority int  `bson:"priority" json:"priority"` // 1 is shown first
	IsActive bool `bson:"is_active" json:"isActive"`

	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
