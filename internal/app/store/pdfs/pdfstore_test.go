package pdfstore_test

import (
	"errors"
	"testing"

	pdfstore "github.com/dalemusser/lessonhub/internal/app/store/pdfs"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pdfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	topic := primitive.NewObjectID()
	p, err := store.Create(ctx, models.Pdf{
		Title:   "Worksheet",
		FileURL: " https://files.example.com/w.pdf ",
		TopicID: &topic,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.FileURL != "https://files.example.com/w.pdf" {
		t.Errorf("FileURL not trimmed: %q", p.FileURL)
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TopicID == nil || *got.TopicID != topic {
		t.Errorf("TopicID: got %v, want %s", got.TopicID, topic.Hex())
	}
	if got.CategoryID != nil {
		t.Errorf("CategoryID should be unset, got %v", got.CategoryID)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pdfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name string
		pdf  models.Pdf
	}{
		{"blank title", models.Pdf{Title: " ", FileURL: "https://x.example/a.pdf"}},
		{"missing url", models.Pdf{Title: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.pdf); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pdfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, pdfstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
