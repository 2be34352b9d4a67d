package ledgerviews_test

import (
	"testing"

	"github.com/dalemusser/lessonhub/internal/app/store/ledger"
	"github.com/dalemusser/lessonhub/internal/app/store/queries/ledgerviews"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFlatList_OrderAndLabels(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cat := fixtures.CreateCategory(ctx, "Math")
	sec := fixtures.CreateSection(ctx, cat.ID, "Numbers")
	topic := fixtures.CreateTopic(ctx, sec.ID, "Fractions")

	course := fixtures.CreateCourse(ctx, "Algebra")
	labelled := fixtures.CreatePdfWithTopic(ctx, "Halves", &topic)
	plain := fixtures.CreatePdf(ctx, "Plain")

	if _, err := store.Create(ctx, course.ID, plain.ID, nil); err != nil { // 1
		t.Fatalf("Create failed: %v", err)
	}
	one := 1
	if _, err := store.Create(ctx, course.ID, labelled.ID, &one); err != nil { // bumped to 2
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.SetPriority(ctx, course.ID, plain.ID, 3); err != nil {
		t.Fatalf("SetPriority failed: %v", err)
	}

	rows, err := ledgerviews.FlatList(ctx, db, ledger.CoursePdfs, course.ID, ledgerviews.ListOptions{})
	if err != nil {
		t.Fatalf("FlatList failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].MemberID != labelled.ID || rows[1].MemberID != plain.ID {
		t.Errorf("order: got %s,%s want labelled,plain", rows[0].MemberID.Hex(), rows[1].MemberID.Hex())
	}

	m := rows[0].Member
	if m == nil {
		t.Fatal("expected joined member")
	}
	if m.Title != "Halves" || m.FileURL == "" {
		t.Errorf("member projection: got title=%q fileUrl=%q", m.Title, m.FileURL)
	}
	if m.Topic == nil || m.Topic.Name != "Fractions" {
		t.Errorf("topic label: got %+v, want Fractions", m.Topic)
	}
	if m.Section == nil || m.Section.Name != "Numbers" {
		t.Errorf("section label: got %+v, want Numbers", m.Section)
	}
	if m.Category != nil {
		t.Errorf("unset category should be nil, got %+v", m.Category)
	}
	if rows[1].Member == nil || rows[1].Member.Topic != nil {
		t.Errorf("plain member should have no topic: %+v", rows[1].Member)
	}
}

func TestFlatList_InactiveAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CourseClasses)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	classes := []models.Class{
		fixtures.CreateClass(ctx, "One"),
		fixtures.CreateClass(ctx, "Two"),
		fixtures.CreateClass(ctx, "Three"),
	}
	for _, c := range classes {
		if _, err := store.Create(ctx, course.ID, c.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.SetActive(ctx, course.ID, classes[1].ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	active, err := ledgerviews.FlatList(ctx, db, ledger.CourseClasses, course.ID, ledgerviews.ListOptions{})
	if err != nil {
		t.Fatalf("FlatList failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active rows: got %d, want 2", len(active))
	}

	all, err := ledgerviews.FlatList(ctx, db, ledger.CourseClasses, course.ID, ledgerviews.ListOptions{IncludeInactive: true})
	if err != nil {
		t.Fatalf("FlatList failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all rows: got %d, want 3", len(all))
	}

	recent, err := ledgerviews.FlatList(ctx, db, ledger.CourseClasses, course.ID,
		ledgerviews.ListOptions{IncludeInactive: true, SortBy: ledgerviews.SortRecent})
	if err != nil {
		t.Fatalf("FlatList failed: %v", err)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Errorf("recent order broken at %d", i)
		}
	}
}

func TestFlatList_DanglingMemberIsNull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	pdf := fixtures.CreatePdf(ctx, "Gone soon")
	if _, err := store.Create(ctx, course.ID, pdf.ID, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := db.Collection("pdfs").DeleteOne(ctx, bson.M{"_id": pdf.ID}); err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}

	rows, err := ledgerviews.FlatList(ctx, db, ledger.CoursePdfs, course.ID, ledgerviews.ListOptions{})
	if err != nil {
		t.Fatalf("FlatList failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0].Member != nil {
		t.Errorf("member: got %+v, want nil", rows[0].Member)
	}
}

func TestRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	pdf := fixtures.CreatePdf(ctx, "Intro")
	a, err := store.Create(ctx, course.ID, pdf.ID, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	row, found, err := ledgerviews.Row(ctx, db, ledger.CoursePdfs, a.ID)
	if err != nil || !found {
		t.Fatalf("Row: found=%v err=%v", found, err)
	}
	if row.Member == nil || row.Member.ID != pdf.ID {
		t.Errorf("joined member: got %+v", row.Member)
	}

	_, found, err = ledgerviews.Row(ctx, db, ledger.CoursePdfs, primitive.NewObjectID())
	if err != nil || found {
		t.Errorf("missing row: found=%v err=%v, want false/nil", found, err)
	}
}

func TestAvailable_ComplementsAssigned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Algebra")
	other := fixtures.CreateCourse(ctx, "Geometry")
	pdfs := []models.Pdf{
		fixtures.CreatePdf(ctx, "A"),
		fixtures.CreatePdf(ctx, "B"),
		fixtures.CreatePdf(ctx, "C"),
		fixtures.CreatePdf(ctx, "D"),
	}

	for _, p := range pdfs[:2] {
		if _, err := store.Create(ctx, course.ID, p.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// Inactive rows still count as assigned.
	if _, err := store.SetActive(ctx, course.ID, pdfs[1].ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	// Rows of another course do not.
	if _, err := store.Create(ctx, other.ID, pdfs[2].ID, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	avail, err := ledgerviews.Available(ctx, db, ledger.CoursePdfs, course.ID)
	if err != nil {
		t.Fatalf("Available failed: %v", err)
	}
	assigned, err := store.ListByContainer(ctx, course.ID, true)
	if err != nil {
		t.Fatalf("ListByContainer failed: %v", err)
	}

	seen := make(map[primitive.ObjectID]int)
	for _, m := range avail {
		seen[m.ID]++
	}
	for _, a := range assigned {
		seen[a.MemberID]++
	}
	for _, p := range pdfs {
		if seen[p.ID] != 1 {
			t.Errorf("pdf %s appears %d times across assigned and available, want 1", p.Title, seen[p.ID])
		}
	}
	if len(avail) != 2 || avail[0].Title != "C" || avail[1].Title != "D" {
		t.Errorf("available: got %+v, want C, D", avail)
	}
}

func TestContainersForMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledger.New(db, ledger.CoursePdfs)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c1 := fixtures.CreateCourse(ctx, "Algebra")
	c2 := fixtures.CreateCourse(ctx, "Geometry")
	pdf := fixtures.CreatePdf(ctx, "Shared")
	for _, c := range []models.Course{c1, c2} {
		if _, err := store.Create(ctx, c.ID, pdf.ID, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.SetActive(ctx, c1.ID, pdf.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	active, err := ledgerviews.ContainersForMember(ctx, db, ledger.CoursePdfs, pdf.ID, false)
	if err != nil {
		t.Fatalf("ContainersForMember failed: %v", err)
	}
	if len(active) != 1 || active[0].ContainerID != c2.ID {
		t.Fatalf("active containers: got %+v, want only Geometry", active)
	}
	if active[0].Container == nil || active[0].Container.Title != "Geometry" {
		t.Errorf("joined container: got %+v", active[0].Container)
	}

	all, err := ledgerviews.ContainersForMember(ctx, db, ledger.CoursePdfs, pdf.ID, true)
	if err != nil {
		t.Fatalf("ContainersForMember failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all containers: got %d, want 2", len(all))
	}
}
