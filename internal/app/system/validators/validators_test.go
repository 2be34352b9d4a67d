package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/app/system/validators"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := []string{
		"courses",
		"pdfs",
		"classes",
		"categories",
		"sections",
		"topics",
		"audit_events",
	}
	for _, b := range ledger.All {
		expected = append(expected, b.Collection)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}
	for _, want := range expected {
		if !collMap[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestValidators_RejectAndAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	now := time.Now().UTC()
	ledgerRow := func() bson.M {
		return bson.M{
			"container_id": primitive.NewObjectID(),
			"member_id":    primitive.NewObjectID(),
			"priority":     1,
			"is_active":    true,
			"added_at":     now,
			"created_at":   now,
			"updated_at":   now,
		}
	}

	tests := []struct {
		name    string
		coll    string
		doc     func() bson.M
		wantErr bool
	}{
		{
			name: "valid course",
			coll: "courses",
			doc: func() bson.M {
				return bson.M{"title": "Algebra", "title_ci": "algebra", "status": "active", "created_at": now}
			},
		},
		{
			name: "course with unknown status",
			coll: "courses",
			doc: func() bson.M {
				return bson.M{"title": "Algebra", "title_ci": "algebra", "status": "archived", "created_at": now}
			},
			wantErr: true,
		},
		{
			name: "course with blank title",
			coll: "courses",
			doc: func() bson.M {
				return bson.M{"title": "   ", "title_ci": "x", "status": "active", "created_at": now}
			},
			wantErr: true,
		},
		{
			name: "pdf without file url",
			coll: "pdfs",
			doc: func() bson.M {
				return bson.M{"title": "Intro", "title_ci": "intro", "status": "active", "created_at": now}
			},
			wantErr: true,
		},
		{
			name: "section without category",
			coll: "sections",
			doc: func() bson.M {
				return bson.M{"name": "Numbers", "name_ci": "numbers", "created_at": now}
			},
			wantErr: true,
		},
		{
			name: "valid ledger row",
			coll: ledger.CoursePdfs.Collection,
			doc:  ledgerRow,
		},
		{
			name: "ledger row without priority",
			coll: ledger.CoursePdfs.Collection,
			doc: func() bson.M {
				d := ledgerRow()
				delete(d, "priority")
				return d
			},
			wantErr: true,
		},
		{
			name: "ledger row with string is_active",
			coll: ledger.CourseClasses.Collection,
			doc: func() bson.M {
				d := ledgerRow()
				d["is_active"] = "yes"
				return d
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc())
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("insert failed: %v", err)
			}
		})
	}
}

func TestValidators_AllowReorderParking(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)

	course := fixtures.CreateCourse(ctx, "Algebra")
	pdfs := []models.Pdf{fixtures.CreatePdf(ctx, "A"), fixtures.CreatePdf(ctx, "B")}
	for _, p := range pdfs {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	err := store.Reorder(ctx, course.ID, []ledger.OrderItem{
		{MemberID: pdfs[1].ID, Priority: 1},
		{MemberID: pdfs[0].ID, Priority: 2},
	})
	if err != nil {
		t.Fatalf("Reorder under validators failed: %v", err)
	}
}
