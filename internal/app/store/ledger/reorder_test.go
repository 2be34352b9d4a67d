package ledger_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func priorities(t *testing.T, rows []models.Assignment) map[primitive.ObjectID]int {
	t.Helper()
	out := make(map[primitive.ObjectID]int, len(rows))
	for _, r := range rows {
		out[r.MemberID] = r.Priority
	}
	return out
}

func TestStore_Reorder_Permutation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	m1 := fixtures.CreatePdf(ctx, "M1")
	m2 := fixtures.CreatePdf(ctx, "M2")
	m3 := fixtures.CreatePdf(ctx, "M3")
	for _, p := range []models.Pdf{m1, m2, m3} {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	err := store.Reorder(ctx, course.ID, []ledger.OrderItem{
		{MemberID: m3.ID, Priority: 1},
		{MemberID: m1.ID, Priority: 2},
		{MemberID: m2.ID, Priority: 3},
	})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	rows, err := store.ListByContainer(ctx, course.ID, false)
	if err != nil {
		t.Fatalf("ListByContainer failed: %v", err)
	}
	want := []primitive.ObjectID{m3.ID, m1.ID, m2.ID}
	if len(rows) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i].MemberID != id || rows[i].Priority != i+1 {
			t.Errorf("row %d: got member %s priority %d, want member %s priority %d",
				i, rows[i].MemberID.Hex(), rows[i].Priority, id.Hex(), i+1)
		}
	}
}

func TestStore_Reorder_MissingTargetChangesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	a := fixtures.CreatePdf(ctx, "A")
	b := fixtures.CreatePdf(ctx, "B")
	for _, p := range []models.Pdf{a, b} {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	before, err := store.ListByContainer(ctx, course.ID, true)
	if err != nil {
		t.Fatalf("ListByContainer failed: %v", err)
	}

	err = store.Reorder(ctx, course.ID, []ledger.OrderItem{
		{MemberID: b.ID, Priority: 1},
		{MemberID: primitive.NewObjectID(), Priority: 2},
		{MemberID: a.ID, Priority: 3},
	})
	if !errors.Is(err, ledger.ErrTransactionAborted) {
		t.Fatalf("Reorder: got %v, want ErrTransactionAborted", err)
	}

	after, err := store.ListByContainer(ctx, course.ID, true)
	if err != nil {
		t.Fatalf("ListByContainer failed: %v", err)
	}
	wantP := priorities(t, before)
	gotP := priorities(t, after)
	for id, p := range wantP {
		if gotP[id] != p {
			t.Errorf("member %s: priority %d after failed reorder, want %d", id.Hex(), gotP[id], p)
		}
	}
}

func TestStore_Reorder_ConflictWithRowOutsideBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	a := fixtures.CreatePdf(ctx, "A")
	b := fixtures.CreatePdf(ctx, "B")
	c := fixtures.CreatePdf(ctx, "C")
	for _, p := range []models.Pdf{a, b, c} {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// C keeps 3; A asks for it and goes to the end instead.
	if err := store.Reorder(ctx, course.ID, []ledger.OrderItem{{MemberID: a.ID, Priority: 3}}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	rows, err := store.ListByContainer(ctx, course.ID, true)
	if err != nil {
		t.Fatalf("ListByContainer failed: %v", err)
	}
	got := priorities(t, rows)
	if got[a.ID] != 4 || got[b.ID] != 2 || got[c.ID] != 3 {
		t.Errorf("priorities: got A=%d B=%d C=%d, want A=4 B=2 C=3", got[a.ID], got[b.ID], got[c.ID])
	}
}

func TestStore_Reorder_InactiveRowsTakeRequestedSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	a := fixtures.CreatePdf(ctx, "A")
	b := fixtures.CreatePdf(ctx, "B")
	for _, p := range []models.Pdf{a, b} {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.SetActive(ctx, course.ID, b.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	if err := store.Reorder(ctx, course.ID, []ledger.OrderItem{{MemberID: b.ID, Priority: 1}}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	row, err := store.GetByContainerAndMember(ctx, course.ID, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if row.Priority != 1 || row.IsActive {
		t.Errorf("inactive row: got priority=%d active=%v, want 1/false", row.Priority, row.IsActive)
	}
}

func TestStore_Reorder_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Reorder(ctx, primitive.NewObjectID(), nil); err != nil {
		t.Errorf("empty batch: got %v, want nil", err)
	}
	err := store.Reorder(ctx, primitive.NewObjectID(), []ledger.OrderItem{{MemberID: primitive.NewObjectID(), Priority: 0}})
	if !errors.Is(err, ledger.ErrInvalidPriority) {
		t.Errorf("zero priority: got %v, want ErrInvalidPriority", err)
	}
}

func TestStore_Reorder_FailedBatchRestoresPriorities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	a := fixtures.CreatePdf(ctx, "A")
	b := fixtures.CreatePdf(ctx, "B")
	last := fixtures.CreatePdf(ctx, "Last")
	for _, p := range []models.Pdf{a, b} {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	top := ledger.MaxPriority
	if _, err := store.Create(ctx, course.ID, last.ID, &top); err != nil {
		t.Fatalf("Create at MaxPriority failed: %v", err)
	}

	// a lands on 2 before b collides with the row at MaxPriority and has no
	// slot left to bump to.
	err := store.Reorder(ctx, course.ID, []ledger.OrderItem{
		{MemberID: a.ID, Priority: 2},
		{MemberID: b.ID, Priority: ledger.MaxPriority},
	})
	if !errors.Is(err, ledger.ErrTransactionAborted) {
		t.Fatalf("Reorder: got %v, want ErrTransactionAborted", err)
	}

	rows, err := store.ListByContainer(ctx, course.ID, true)
	if err != nil {
		t.Fatalf("ListByContainer failed: %v", err)
	}
	got := priorities(t, rows)
	want := map[primitive.ObjectID]int{a.ID: 1, b.ID: 2, last.ID: ledger.MaxPriority}
	for id, p := range want {
		if got[id] != p {
			t.Errorf("member %s: priority %d, want %d", id.Hex(), got[id], p)
		}
	}
}
