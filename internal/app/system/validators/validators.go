// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	existing := existingCollections(ctx, db)

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll, existing); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Catalog
	ensure("courses", titledSchema(nil, nil))
	ensure("pdfs", titledSchema(bson.A{"file_url"}, bson.M{
		"file_url":  bson.M{"bsonType": "string", "minLength": 1},
		"file_name": bson.M{"bsonType": "string"},
		"file_size": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
	}))
	ensure("classes", titledSchema(nil, bson.M{
		"video_url":        bson.M{"bsonType": "string"},
		"duration_seconds": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
	}))

	// Label tree
	ensure("categories", labelSchema(""))
	ensure("sections", labelSchema("category_id"))
	ensure("topics", labelSchema("section_id"))

	// Assignment ledgers
	for _, b := range ledger.All {
		ensure(b.Collection, ledgerSchema())
	}

	// Audit events are written by one store only; no validator.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// existingCollections returns the collection names already in db. A listing
// error yields an empty set; ensureCollection then relies on create-and-race.
func existingCollections(ctx context.Context, db *mongo.Database) map[string]bool {
	out := make(map[string]bool)
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		zap.L().Warn("listCollections failed", zap.Error(err))
		return out
	}
	for _, n := range names {
		out[n] = true
	}
	return out
}

// ensureCollection makes sure name exists, logging only what actually happened.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, existing map[string]bool) error {
	if existing[name] {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return nil
	}
	err := db.CreateCollection(ctx, name)
	switch {
	case err == nil:
		zap.L().Info("created collection", zap.String("collection", name))
	case isNamespaceExistsErr(err):
		// lost a race with another instance
		err = nil
	default:
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
	}
	return err
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

// commandErr reports whether err is a server command error with one of codes,
// or whose text mentions one of phrases (some proxies drop the code).
func commandErr(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, []int32{48}, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, []int32{59}, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, []int32{115}, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

// titledSchema covers courses, pdfs and classes: title/title_ci/status plus
// optional label references and any kind-specific fields in extra.
func titledSchema(required bson.A, extra bson.M) bson.M {
	req := bson.A{"title", "title_ci", "status", "created_at"}
	req = append(req, required...)

	props := bson.M{
		"title":       nonBlank,
		"title_ci":    nonBlank,
		"description": bson.M{"bsonType": "string"},
		"status":      bson.M{"enum": bson.A{"active", "disabled"}},
		"category_id": bson.M{"bsonType": "objectId"},
		"section_id":  bson.M{"bsonType": "objectId"},
		"topic_id":    bson.M{"bsonType": "objectId"},
		"created_at":  bson.M{"bsonType": "date"},
		"updated_at":  bson.M{"bsonType": "date"},
	}
	for k, v := range extra {
		props[k] = v
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   req,
			"properties": props,
		},
	}
}

// labelSchema covers categories, sections and topics. parentField is the
// reference to the parent label, or "" for categories.
func labelSchema(parentField string) bson.M {
	req := bson.A{"name", "name_ci"}
	props := bson.M{
		"name":       nonBlank,
		"name_ci":    nonBlank,
		"created_at": bson.M{"bsonType": "date"},
	}
	if parentField != "" {
		req = append(req, parentField)
		props[parentField] = bson.M{"bsonType": "objectId"}
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   req,
			"properties": props,
		},
	}
}

// ledgerSchema covers every assignment ledger. priority has no lower bound
// here: reorder parks rows on negative values inside its transaction.
func ledgerSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"container_id", "member_id", "priority", "is_active", "created_at"},
			"properties": bson.M{
				"container_id": bson.M{"bsonType": "objectId"},
				"member_id":    bson.M{"bsonType": "objectId"},
				"priority":     bson.M{"bsonType": bson.A{"int", "long"}},
				"is_active":    bson.M{"bsonType": "bool"},
				"added_at":     bson.M{"bsonType": "date"},
				"created_at":   bson.M{"bsonType": "date"},
				"updated_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}
