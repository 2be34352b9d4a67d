// internal/app/store/ledger/store.go
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/metrics"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DefaultRetryAttempts bounds how many times a write is re-resolved after
// losing a race on the priority index.
const DefaultRetryAttempts = 3

// MaxPriority is the highest priority a row may hold.
const MaxPriority = 1_000_000

var (
	// ErrDuplicateAssignment is returned when the member is already attached
	// to the container, whether that row is active or not.
	ErrDuplicateAssignment = errors.New("member is already assigned to this container")
	// ErrNotFound is returned when no row exists for the (container, member) pair.
	ErrNotFound = errors.New("assignment not found")
	// ErrInvalidPriority is returned for priorities outside 1..MaxPriority.
	ErrInvalidPriority = errors.New("priority must be between 1 and 1000000")
	// ErrPriorityExhausted is returned when a row would go after an active
	// row already at MaxPriority.
	ErrPriorityExhausted = errors.New("no priority left after the last row; reorder the course to compact priorities")
	// ErrPriorityContention is returned when every retry lost the race for a slot.
	ErrPriorityContention = errors.New("priority slot contended; retries exhausted")
)

// Store reads and writes the rows of one assignment ledger.
type Store struct {
	c       *mongo.Collection
	b       Binding
	retries int
	log     *zap.Logger
}

// New returns a Store for the ledger described by b.
func New(db *mongo.Database, b Binding) *Store {
	return &Store{
		c:       db.Collection(b.Collection),
		b:       b,
		retries: DefaultRetryAttempts,
		log:     zap.L(),
	}
}

// WithRetryAttempts sets the retry bound for priority races. Values below 1
// disable retrying.
func (s *Store) WithRetryAttempts(n int) *Store {
	if n < 0 {
		n = 0
	}
	s.retries = n
	return s
}

// WithLogger sets the logger used for transaction fallbacks.
func (s *Store) WithLogger(log *zap.Logger) *Store {
	if log != nil {
		s.log = log
	}
	return s
}

// Binding returns the ledger this store serves.
func (s *Store) Binding() Binding { return s.b }

func validPriority(p int) bool {
	return p >= 1 && p <= MaxPriority
}

func pairFilter(containerID, memberID primitive.ObjectID) bson.M {
	return bson.M{"container_id": containerID, "member_id": memberID}
}

// Create attaches memberID to containerID as an active row.
//
// A nil priority places the row after every active row of the container.
// A requested priority that another active row already holds is replaced
// by max+1. The stored priority is in the returned row.
func (s *Store) Create(ctx context.Context, containerID, memberID primitive.ObjectID, priority *int) (models.Assignment, error) {
	if priority != nil && !validPriority(*priority) {
		return models.Assignment{}, ErrInvalidPriority
	}

	// Checked up front so the common duplicate case never burns a retry.
	if err := s.c.FindOne(ctx, pairFilter(containerID, memberID)).Err(); err == nil {
		return models.Assignment{}, ErrDuplicateAssignment
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Assignment{}, err
	}

	now := time.Now().UTC()
	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		ContainerID: containerID,
		MemberID:    memberID,
		IsActive:    true,
		AddedAt:     now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 0; ; attempt++ {
		var (
			bumped bool
			err    error
		)
		if priority == nil {
			a.Priority, err = s.nextPriority(ctx, containerID)
		} else {
			a.Priority, bumped, err = s.resolvePriority(ctx, containerID, primitive.NilObjectID, *priority)
		}
		if err != nil {
			return models.Assignment{}, err
		}

		_, err = s.c.InsertOne(ctx, a)
		if err == nil {
			if bumped {
				metrics.PriorityBumps.WithLabelValues(s.b.Name).Inc()
			}
			metrics.LedgerWrites.WithLabelValues(s.b.Name, metrics.OpAssign).Inc()
			return a, nil
		}

		switch s.classifyDup(err) {
		case dupPair:
			return models.Assignment{}, ErrDuplicateAssignment
		case dupPriority:
			if attempt >= s.retries {
				return models.Assignment{}, ErrPriorityContention
			}
			metrics.PriorityRetries.WithLabelValues(s.b.Name).Inc()
			continue
		}
		return models.Assignment{}, err
	}
}

// GetByContainerAndMember returns the row for the pair or ErrNotFound.
func (s *Store) GetByContainerAndMember(ctx context.Context, containerID, memberID primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, pairFilter(containerID, memberID)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return a, ErrNotFound
	}
	return a, err
}

// GetByID returns a row by its _id or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return a, ErrNotFound
	}
	return a, err
}

// DeleteByContainerAndMember removes the row for the pair. Remaining rows
// keep their priorities; gaps are allowed.
func (s *Store) DeleteByContainerAndMember(ctx context.Context, containerID, memberID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, pairFilter(containerID, memberID))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	metrics.LedgerWrites.WithLabelValues(s.b.Name, metrics.OpUnassign).Inc()
	return nil
}

// SetPriority moves an existing row to priority. For an active row the
// resolver runs first, so the stored value may differ from the request.
func (s *Store) SetPriority(ctx context.Context, containerID, memberID primitive.ObjectID, priority int) (models.Assignment, error) {
	if !validPriority(priority) {
		return models.Assignment{}, ErrInvalidPriority
	}

	for attempt := 0; ; attempt++ {
		cur, err := s.GetByContainerAndMember(ctx, containerID, memberID)
		if err != nil {
			return cur, err
		}

		target, bumped := priority, false
		if cur.IsActive {
			target, bumped, err = s.resolvePriority(ctx, containerID, cur.ID, priority)
			if err != nil {
				return cur, err
			}
		}

		updated, err := s.update(ctx, cur.ID, bson.M{"priority": target})
		if err == nil {
			if bumped {
				metrics.PriorityBumps.WithLabelValues(s.b.Name).Inc()
			}
			metrics.LedgerWrites.WithLabelValues(s.b.Name, metrics.OpPriority).Inc()
			return updated, nil
		}
		if s.classifyDup(err) == dupPriority && attempt < s.retries {
			metrics.PriorityRetries.WithLabelValues(s.b.Name).Inc()
			continue
		}
		if s.classifyDup(err) == dupPriority {
			return cur, ErrPriorityContention
		}
		return cur, err
	}
}

// SetActive flips the row's soft-visibility flag. A row coming back into the
// active set has its priority re-resolved against the rows already active.
func (s *Store) SetActive(ctx context.Context, containerID, memberID primitive.ObjectID, active bool) (models.Assignment, error) {
	for attempt := 0; ; attempt++ {
		cur, err := s.GetByContainerAndMember(ctx, containerID, memberID)
		if err != nil {
			return cur, err
		}
		if cur.IsActive == active {
			return cur, nil
		}

		set := bson.M{"is_active": active}
		bumped := false
		if active {
			var p int
			p, bumped, err = s.resolvePriority(ctx, containerID, cur.ID, cur.Priority)
			if err != nil {
				return cur, err
			}
			set["priority"] = p
		}

		updated, err := s.update(ctx, cur.ID, set)
		if err == nil {
			if bumped {
				metrics.PriorityBumps.WithLabelValues(s.b.Name).Inc()
			}
			op := metrics.OpDisable
			if active {
				op = metrics.OpActivate
			}
			metrics.LedgerWrites.WithLabelValues(s.b.Name, op).Inc()
			return updated, nil
		}
		if s.classifyDup(err) != dupPriority {
			return cur, err
		}
		if attempt >= s.retries {
			return cur, ErrPriorityContention
		}
		metrics.PriorityRetries.WithLabelValues(s.b.Name).Inc()
	}
}

// Toggle inverts is_active for the pair.
func (s *Store) Toggle(ctx context.Context, containerID, memberID primitive.ObjectID) (models.Assignment, error) {
	cur, err := s.GetByContainerAndMember(ctx, containerID, memberID)
	if err != nil {
		return cur, err
	}
	return s.SetActive(ctx, containerID, memberID, !cur.IsActive)
}

// ListByContainer returns the container's rows in display order.
func (s *Store) ListByContainer(ctx context.Context, containerID primitive.ObjectID, includeInactive bool) ([]models.Assignment, error) {
	filter := bson.M{"container_id": containerID}
	if !includeInactive {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: 1},
		{Key: "created_at", Value: -1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByContainer returns how many rows (any state) the container has.
func (s *Store) CountByContainer(ctx context.Context, containerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"container_id": containerID})
}

// ContainerExists reports whether containerID names a stored container.
func (s *Store) ContainerExists(ctx context.Context, containerID primitive.ObjectID) (bool, error) {
	return exists(ctx, s.c.Database().Collection(s.b.ContainerCollection), containerID)
}

// MemberExists reports whether memberID names a stored member.
func (s *Store) MemberExists(ctx context.Context, memberID primitive.ObjectID) (bool, error) {
	return exists(ctx, s.c.Database().Collection(s.b.MemberCollection), memberID)
}

func exists(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (bool, error) {
	n, err := c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Assignment, error) {
	set["updated_at"] = time.Now().UTC()
	var out models.Assignment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, ErrNotFound
	}
	return out, err
}

type dupKind int

const (
	dupNone dupKind = iota
	dupPair
	dupPriority
)

// classifyDup tells which unique index rejected a write. Server messages
// name the index ("... index: uniq_course_pdfs_container_priority_active ...").
func (s *Store) classifyDup(err error) dupKind {
	if err == nil || !wafflemongo.IsDup(err) {
		return dupNone
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, s.b.PriorityIndexName()):
		return dupPriority
	case strings.Contains(msg, s.b.PairIndexName()), strings.Contains(msg, "member_id"):
		return dupPair
	case strings.Contains(msg, "priority"):
		return dupPriority
	}
	return dupPair
}
