// Package ledgerviews builds the read models served for an assignment
// ledger: the container's ordered member list, the members still available
// to it, and the containers a member belongs to.
//
// Every view joins labels (category, section, topic) onto the member. A
// label or member that no longer exists comes back as null rather than
// dropping the row.
package ledgerviews

import (
	"context"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Sort orders for FlatList.
const (
	SortPriority = "priority"
	SortRecent   = "recent"
)

// Label is the {id, name} pair shown for a category, section or topic.
type Label struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// MemberView is the member projection embedded in ledger rows. Fields that
// belong to only one member kind are omitted for the other.
type MemberView struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`

	FileURL  string `bson:"file_url,omitempty" json:"fileUrl,omitempty"`
	FileName string `bson:"file_name,omitempty" json:"fileName,omitempty"`
	FileSize int64  `bson:"file_size,omitempty" json:"fileSize,omitempty"`

	VideoURL        string `bson:"video_url,omitempty" json:"videoUrl,omitempty"`
	DurationSeconds int    `bson:"duration_seconds,omitempty" json:"durationSeconds,omitempty"`

	Category *Label `bson:"category,omitempty" json:"category"`
	Section  *Label `bson:"section,omitempty" json:"section"`
	Topic    *Label `bson:"topic,omitempty" json:"topic"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// AssignedMember is one ledger row with its member joined in.
type AssignedMember struct {
	ID          primitive.ObjectID `json:"id"`
	ContainerID primitive.ObjectID `json:"containerId"`
	MemberID    primitive.ObjectID `json:"memberId"`
	Priority    int                `json:"priority"`
	IsActive    bool               `json:"isActive"`
	AddedAt     time.Time          `json:"addedAt"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Member      *MemberView        `json:"member"`
}

// ContainerView is the course projection used by ContainersForMember.
type ContainerView struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
}

// MemberContainer is one ledger row seen from the member side.
type MemberContainer struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ContainerID primitive.ObjectID `bson:"container_id" json:"containerId"`
	Priority    int                `bson:"priority" json:"priority"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	AddedAt     time.Time          `bson:"added_at" json:"addedAt"`
	Container   *ContainerView     `bson:"container,omitempty" json:"container"`
}

// ListOptions controls FlatList.
type ListOptions struct {
	IncludeInactive bool
	SortBy          string // SortPriority (default) or SortRecent
}

// assignedRow is the aggregation output. Labels are joined at the top level
// and moved onto the member in Go so a missing member stays null.
type assignedRow struct {
	ID          primitive.ObjectID `bson:"_id"`
	ContainerID primitive.ObjectID `bson:"container_id"`
	MemberID    primitive.ObjectID `bson:"member_id"`
	Priority    int                `bson:"priority"`
	IsActive    bool               `bson:"is_active"`
	AddedAt     time.Time          `bson:"added_at"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	Member      *MemberView        `bson:"member,omitempty"`
	Category    *Label             `bson:"category,omitempty"`
	Section     *Label             `bson:"section,omitempty"`
	Topic       *Label             `bson:"topic,omitempty"`
}

func (r assignedRow) view() AssignedMember {
	out := AssignedMember{
		ID:          r.ID,
		ContainerID: r.ContainerID,
		MemberID:    r.MemberID,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
		AddedAt:     r.AddedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Member:      r.Member,
	}
	if out.Member != nil {
		out.Member.Category = r.Category
		out.Member.Section = r.Section
		out.Member.Topic = r.Topic
	}
	return out
}

// lookupOne joins at most one document from `from` into `as`, keeping the
// row when nothing matches.
func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + as,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// labelStages joins the three label collections using the id fields found
// under prefix ("" for a member document, "member." for a ledger row).
func labelStages(prefix string) []bson.D {
	var stages []bson.D
	stages = append(stages, lookupOne("categories", prefix+"category_id", "category")...)
	stages = append(stages, lookupOne("sections", prefix+"section_id", "section")...)
	stages = append(stages, lookupOne("topics", prefix+"topic_id", "topic")...)
	return stages
}

func assignedPipeline(b ledger.Binding, match bson.M, sort bson.D) mongo.Pipeline {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}
	if sort != nil {
		pipe = append(pipe, bson.D{{Key: "$sort", Value: sort}})
	}
	pipe = append(pipe, lookupOne(b.MemberCollection, "member_id", "member")...)
	pipe = append(pipe, labelStages("member.")...)
	return pipe
}

func runAssigned(ctx context.Context, db *mongo.Database, b ledger.Binding, pipe mongo.Pipeline) ([]AssignedMember, error) {
	cur, err := db.Collection(b.Collection).Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []assignedRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]AssignedMember, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}

// FlatList returns the container's ledger rows in display order: priority
// ascending with newest first among equal priorities, or newest first when
// opts.SortBy is SortRecent. Inactive rows are left out unless requested.
func FlatList(ctx context.Context, db *mongo.Database, b ledger.Binding, containerID primitive.ObjectID, opts ListOptions) ([]AssignedMember, error) {
	match := bson.M{"container_id": containerID}
	if !opts.IncludeInactive {
		match["is_active"] = true
	}

	sort := bson.D{
		{Key: "priority", Value: 1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: 1},
	}
	if opts.SortBy == SortRecent {
		sort = bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	}

	return runAssigned(ctx, db, b, assignedPipeline(b, match, sort))
}

// Row returns a single ledger row by _id with its member joined in.
// found is false when the row does not exist.
func Row(ctx context.Context, db *mongo.Database, b ledger.Binding, id primitive.ObjectID) (row AssignedMember, found bool, err error) {
	rows, err := runAssigned(ctx, db, b, assignedPipeline(b, bson.M{"_id": id}, nil))
	if err != nil || len(rows) == 0 {
		return AssignedMember{}, false, err
	}
	return rows[0], true, nil
}

// Available returns every member with no ledger row under containerID,
// sorted by title. A row of either state counts as assigned.
func Available(ctx context.Context, db *mongo.Database, b ledger.Binding, containerID primitive.ObjectID) ([]MemberView, error) {
	assigned, err := db.Collection(b.Collection).Distinct(ctx, "member_id", bson.M{"container_id": containerID})
	if err != nil {
		return nil, err
	}

	match := bson.M{}
	if len(assigned) > 0 {
		match["_id"] = bson.M{"$nin": assigned}
	}

	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	pipe = append(pipe, labelStages("")...)

	cur, err := db.Collection(b.MemberCollection).Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []MemberView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContainersForMember returns the ledger rows holding memberID, most
// recently added first, with the container joined in.
func ContainersForMember(ctx context.Context, db *mongo.Database, b ledger.Binding, memberID primitive.ObjectID, includeInactive bool) ([]MemberContainer, error) {
	match := bson.M{"member_id": memberID}
	if !includeInactive {
		match["is_active"] = true
	}

	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "added_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipe = append(pipe, lookupOne(b.ContainerCollection, "container_id", "container")...)

	cur, err := db.Collection(b.Collection).Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []MemberContainer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
