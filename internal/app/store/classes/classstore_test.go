package classstore_test

import (
	"errors"
	"testing"

	classstore "github.com/dalemusser/lessonhub/internal/app/store/classes"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := classstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cl, err := store.Create(ctx, models.Class{
		Title:           "Lecture 1",
		VideoURL:        "https://video.example.com/1",
		DurationSeconds: 600,
		Status:          "Disabled",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cl.Status != "disabled" {
		t.Errorf("Status: got %q, want disabled", cl.Status)
	}

	got, err := store.GetByID(ctx, cl.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.DurationSeconds != 600 {
		t.Errorf("DurationSeconds: got %d", got.DurationSeconds)
	}

	rows, err := store.Find(ctx, bson.M{"status": "disabled"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Find: got %d rows, want 1", len(rows))
	}
}

func TestStore_Create_NegativeDuration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := classstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Class{Title: "X", DurationSeconds: -1}); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := classstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, classstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
