// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem shows up in one startup failure.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureCourses(ctx, db); err != nil {
		problems = append(problems, "courses: "+err.Error())
	}
	if err := ensureMembers(ctx, db, "pdfs"); err != nil {
		problems = append(problems, "pdfs: "+err.Error())
	}
	if err := ensureMembers(ctx, db, "classes"); err != nil {
		problems = append(problems, "classes: "+err.Error())
	}
	if err := ensureTaxonomy(ctx, db); err != nil {
		problems = append(problems, "taxonomy: "+err.Error())
	}
	for _, b := range ledger.All {
		if err := ensureLedger(ctx, db, b); err != nil {
			problems = append(problems, b.Collection+": "+err.Error())
		}
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Partial bson.D `bson:"partialFilterExpression,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// partialSig renders a partial filter for comparison. Numeric and bool
// values print the same whether they came from Go or from the server.
func partialSig(filter interface{}) string {
	if filter == nil {
		return ""
	}
	b, err := bson.MarshalExtJSON(bson.M{"f": filter}, false, false)
	if err != nil {
		return fmt.Sprintf("%v", filter)
	}
	return string(b)
}

type desiredIndex struct {
	model   mongo.IndexModel
	name    string
	unique  bool
	partial string
	sig     string
}

func describe(m mongo.IndexModel) desiredIndex {
	d := desiredIndex{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		if m.Options.Unique != nil {
			d.unique = *m.Options.Unique
		}
		if m.Options.PartialFilterExpression != nil {
			d.partial = partialSig(m.Options.PartialFilterExpression)
		}
	}
	return d
}

func (d desiredIndex) matches(ex existingIndex) bool {
	exUnique := ex.Unique != nil && *ex.Unique
	exPartial := ""
	if len(ex.Partial) > 0 {
		exPartial = partialSig(ex.Partial)
	}
	return d.unique == exUnique && d.partial == exPartial && (d.name == "" || d.name == ex.Name)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet.
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// ensureIndexSet creates missing indexes and replaces any index whose key
// pattern matches but whose name, uniqueness or partial filter differs.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		d := describe(m)
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.unique),
		}
		if d.partial != "" {
			fields = append(fields, zap.String("partial", d.partial))
		}

		if ex, ok := existing[d.sig]; ok {
			if d.matches(ex) {
				zap.L().Debug("reusing existing index", fields...)
				continue
			}
			zap.L().Info("replacing index with different options",
				append(fields, zap.String("existing_name", ex.Name))...)
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), d.name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && d.unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), d.name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err))
			}
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		zap.L().Info("index ensured",
			append(fields, zap.String("took", time.Since(start).String()))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureCourses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("courses"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_courses_titleci_id"),
		},
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}},
			Options: options.Index().SetName("idx_courses_category"),
		},
	})
}

// ensureMembers covers pdfs and classes, which share their label fields.
func ensureMembers(ctx context.Context, db *mongo.Database, coll string) error {
	return ensureIndexSet(ctx, db.Collection(coll), []mongo.IndexModel{
		// Available view sorts the whole collection by title.
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_" + coll + "_titleci_id"),
		},
		{
			Keys:    bson.D{{Key: "topic_id", Value: 1}},
			Options: options.Index().SetName("idx_" + coll + "_topic"),
		},
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}, {Key: "section_id", Value: 1}},
			Options: options.Index().SetName("idx_" + coll + "_category_section"),
		},
	})
}

func ensureTaxonomy(ctx context.Context, db *mongo.Database) error {
	var errs []string
	if err := ensureIndexSet(ctx, db.Collection("categories"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_categories_nameci"),
		},
	}); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ensureIndexSet(ctx, db.Collection("sections"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_sections_category_nameci"),
		},
	}); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ensureIndexSet(ctx, db.Collection("topics"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "section_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_topics_section_nameci"),
		},
	}); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ensureLedger installs the two unique indexes every assignment ledger
// relies on, plus its read paths.
func ensureLedger(ctx context.Context, db *mongo.Database, b ledger.Binding) error {
	return ensureIndexSet(ctx, db.Collection(b.Collection), []mongo.IndexModel{
		// One row per (container, member), active or not.
		{
			Keys: bson.D{
				{Key: "container_id", Value: 1},
				{Key: "member_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName(b.PairIndexName()),
		},
		// Active rows of a container never share a priority.
		{
			Keys: bson.D{
				{Key: "container_id", Value: 1},
				{Key: "priority", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}}).
				SetName(b.PriorityIndexName()),
		},
		// Flat list: filter by container (+active), sort priority asc, created desc.
		{
			Keys: bson.D{
				{Key: "container_id", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "priority", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_" + b.Collection + "_container_active_priority"),
		},
		// Reverse view: courses holding a member.
		{
			Keys: bson.D{
				{Key: "member_id", Value: 1},
				{Key: "added_at", Value: -1},
			},
			Options: options.Index().SetName("idx_" + b.Collection + "_member_added"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "container_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_container_timestamp"),
		},
	})
}
