// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAdmin   = "admin"
	CategoryCatalog = "catalog"
)

// Ledger event types
const (
	EventMemberAssigned        = "member_assigned"
	EventMemberUnassigned      = "member_unassigned"
	EventPriorityChanged       = "priority_changed"
	EventMembersReordered      = "members_reordered"
	EventAssignmentActivated   = "assignment_activated"
	EventAssignmentDeactivated = "assignment_deactivated"
	EventReorderAborted        = "reorder_aborted"
)

// Catalog event types
const (
	EventCourseCreated   = "course_created"
	EventPdfCreated      = "pdf_created"
	EventClassCreated    = "class_created"
	EventCategoryCreated = "category_created"
	EventSectionCreated  = "section_created"
	EventTopicCreated    = "topic_created"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`
	Ledger    string `bson:"ledger,omitempty"` // e.g. "course_pdfs"

	// What was touched
	ContainerID *primitive.ObjectID `bson:"container_id,omitempty"`
	MemberID    *primitive.ObjectID `bson:"member_id,omitempty"`

	// Context
	RequestID string `bson:"request_id,omitempty"`
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	ContainerID *primitive.ObjectID
	Ledger      string
	Category    string
	EventType   string
	StartTime   *time.Time
	EndTime     *time.Time
	Limit       int64
	Offset      int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	if f.ContainerID != nil {
		q["container_id"] = *f.ContainerID
	}
	if f.Ledger != "" {
		q["ledger"] = f.Ledger
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		tq := bson.M{}
		if f.StartTime != nil {
			tq["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			tq["$lte"] = *f.EndTime
		}
		q["timestamp"] = tq
	}
	return q
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetByContainer retrieves recent events for one container.
func (s *Store) GetByContainer(ctx context.Context, containerID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{ContainerID: &containerID, Limit: limit})
}
