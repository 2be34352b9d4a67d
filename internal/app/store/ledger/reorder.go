package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/metrics"
	"github.com/dalemusser/lessonhub/internal/app/system/txn"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrTransactionAborted is returned when a reorder batch was rolled back.
// No row of the batch changed.
var ErrTransactionAborted = errors.New("reorder aborted; no priorities changed")

// OrderItem is one (member, requested priority) pair of a reorder batch.
type OrderItem struct {
	MemberID primitive.ObjectID
	Priority int
}

// Reorder applies every item of the batch to containerID or none of them.
//
// Each item follows the same conflict rule as SetPriority, applied in batch
// order. When a member appears twice the later item wins. A member with no
// row under containerID aborts the whole batch.
//
// Rows of the batch first move to distinct negative slots so that swapping
// priorities between batch members never collides on the priority index.
// When a write fails after that point the batch rows are put back on their
// original priorities, so a deployment without transactions is left as it was.
func (s *Store) Reorder(ctx context.Context, containerID primitive.ObjectID, items []OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		if !validPriority(it.Priority) {
			return ErrInvalidPriority
		}
	}

	var bumps int
	err := txn.Run(ctx, s.c.Database(), s.log, func(ctx context.Context) error {
		bumps = 0

		rows, err := s.loadBatch(ctx, containerID, items)
		if err != nil {
			return err
		}

		if err := s.applyBatch(ctx, containerID, items, rows, &bumps); err != nil {
			if rerr := s.restoreBatch(ctx, rows, len(items)); rerr != nil {
				s.log.Error("reorder: restore after failed batch",
					zap.String("container_id", containerID.Hex()),
					zap.Error(rerr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		metrics.ReorderAborts.WithLabelValues(s.b.Name).Inc()
		if errors.Is(err, ErrTransactionAborted) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	if bumps > 0 {
		metrics.PriorityBumps.WithLabelValues(s.b.Name).Add(float64(bumps))
	}
	metrics.LedgerWrites.WithLabelValues(s.b.Name, metrics.OpReorder).Inc()
	return nil
}

// applyBatch parks every batch row on a negative slot and then writes each
// item in order.
func (s *Store) applyBatch(ctx context.Context, containerID primitive.ObjectID, items []OrderItem, rows map[primitive.ObjectID]models.Assignment, bumps *int) error {
	now := time.Now().UTC()
	for i, it := range items {
		parked := -(i + 1)
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": rows[it.MemberID].ID},
			bson.M{"$set": bson.M{"priority": parked, "updated_at": now}},
		); err != nil {
			return err
		}
	}

	for _, it := range items {
		row := rows[it.MemberID]
		target := it.Priority
		if row.IsActive {
			p, bumped, err := s.resolvePriority(ctx, containerID, row.ID, it.Priority)
			if err != nil {
				return err
			}
			if bumped {
				*bumps++
			}
			target = p
		}
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": row.ID},
			bson.M{"$set": bson.M{"priority": target, "updated_at": now}},
		); err != nil {
			return err
		}
	}
	return nil
}

// restoreBatch puts the batch rows back on the priorities they held when
// loaded. Rows move through a second set of negative slots below the parked
// ones first because a partly applied batch may hold another row's original
// priority.
func (s *Store) restoreBatch(ctx context.Context, rows map[primitive.ObjectID]models.Assignment, parked int) error {
	now := time.Now().UTC()
	slot := -(parked + 1)
	for _, r := range rows {
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": r.ID},
			bson.M{"$set": bson.M{"priority": slot, "updated_at": now}},
		); err != nil {
			return err
		}
		slot--
	}
	for _, r := range rows {
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": r.ID},
			bson.M{"$set": bson.M{"priority": r.Priority, "updated_at": r.UpdatedAt}},
		); err != nil {
			return err
		}
	}
	return nil
}

// loadBatch fetches the rows the batch touches, keyed by member id. It fails
// with ErrTransactionAborted before any write when a target is missing.
func (s *Store) loadBatch(ctx context.Context, containerID primitive.ObjectID, items []OrderItem) (map[primitive.ObjectID]models.Assignment, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool, len(items))
	for _, it := range items {
		if !seen[it.MemberID] {
			seen[it.MemberID] = true
			ids = append(ids, it.MemberID)
		}
	}

	cur, err := s.c.Find(ctx, bson.M{
		"container_id": containerID,
		"member_id":    bson.M{"$in": ids},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var found []models.Assignment
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	rows := make(map[primitive.ObjectID]models.Assignment, len(found))
	for _, a := range found {
		rows[a.MemberID] = a
	}
	for _, id := range ids {
		if _, ok := rows[id]; !ok {
			return nil, fmt.Errorf("%w: member %s is not assigned to container %s",
				ErrTransactionAborted, id.Hex(), containerID.Hex())
		}
	}
	return rows, nil
}
