package coursestore_test

import (
	"errors"
	"testing"

	coursestore "github.com/dalemusser/lessonhub/internal/app/store/courses"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Course{Title: "  Algebra   One "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID.IsZero() {
		t.Error("expected ID to be set")
	}
	if c.Title != "Algebra One" {
		t.Errorf("Title: got %q", c.Title)
	}
	if c.TitleCI != "algebra one" {
		t.Errorf("TitleCI: got %q, want %q", c.TitleCI, "algebra one")
	}
	if c.Status != "active" {
		t.Errorf("Status: got %q, want active", c.Status)
	}

	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != c.Title {
		t.Errorf("round trip title: got %q", got.Title)
	}
}

func TestStore_Create_BlankTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Course{Title: "   "}); err == nil {
		t.Error("expected error for blank title")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, coursestore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_FindAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, title := range []string{"Geometry", "algebra", "Calculus"} {
		if _, err := store.Create(ctx, models.Course{Title: title}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	rows, err := store.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}}))
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(rows) != 3 || rows[0].Title != "algebra" || rows[2].Title != "Geometry" {
		t.Errorf("Find order: got %+v", rows)
	}

	n, err := store.Count(ctx, bson.M{"status": "active"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}
