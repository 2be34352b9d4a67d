package ledger

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxActivePriority returns the highest priority held by an active row of
// the container, or 0 when it has none.
func (s *Store) maxActivePriority(ctx context.Context, containerID primitive.ObjectID) (int, error) {
	var row struct {
		Priority int `bson:"priority"`
	}
	err := s.c.FindOne(ctx,
		bson.M{"container_id": containerID, "is_active": true},
		options.FindOne().
			SetSort(bson.D{{Key: "priority", Value: -1}}).
			SetProjection(bson.M{"priority": 1}),
	).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Priority, nil
}

// nextPriority is the slot after every active row, starting at 1. It fails
// with ErrPriorityExhausted once the last row sits at MaxPriority.
func (s *Store) nextPriority(ctx context.Context, containerID primitive.ObjectID) (int, error) {
	max, err := s.maxActivePriority(ctx, containerID)
	if err != nil {
		return 0, err
	}
	if max < 1 {
		return 1, nil
	}
	if max >= MaxPriority {
		return 0, ErrPriorityExhausted
	}
	return max + 1, nil
}

// resolvePriority decides the priority an active row of containerID should
// store when candidate is requested. self is the row being written (zero for
// an insert) and never conflicts with itself.
//
// When no other active row holds candidate it is returned unchanged.
// Otherwise the incoming row goes to the end: max+1, or 1 for an empty
// container. bumped reports the second case.
func (s *Store) resolvePriority(ctx context.Context, containerID, self primitive.ObjectID, candidate int) (priority int, bumped bool, err error) {
	filter := bson.M{
		"container_id": containerID,
		"is_active":    true,
		"priority":     candidate,
	}
	if !self.IsZero() {
		filter["_id"] = bson.M{"$ne": self}
	}

	err = s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return candidate, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	next, err := s.nextPriority(ctx, containerID)
	if err != nil {
		return 0, false, err
	}
	return next, true, nil
}
