package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursework-backend/internal/domain"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	c := &types.Course{Title: "course", Status: "draft"}
	if _, err := repo.Create(ctx, tx, []*types.Course{c}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
}

func TestCourseModuleAndLessonRepoOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	modules := NewCourseModuleRepo(db, testutil.Logger(t))
	lessons := NewLessonRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx)
	m2 := testutil.SeedCourseModule(t, ctx, tx, c.ID, 2)
	m1 := testutil.SeedCourseModule(t, ctx, tx, c.ID, 1)

	rows, err := modules.GetByCourseIDs(ctx, tx, []uuid.UUID{c.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByCourseIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != m1.ID || rows[1].ID != m2.ID {
		t.Fatalf("GetByCourseIDs: want index order")
	}

	l1 := testutil.SeedLesson(t, ctx, tx, m1.ID, 0)
	l2 := testutil.SeedLesson(t, ctx, tx, m1.ID, 1)
	l3 := testutil.SeedLesson(t, ctx, tx, m2.ID, 0)

	ids, err := lessons.GetIDsByModuleIDs(ctx, tx, []uuid.UUID{m1.ID})
	if err != nil || len(ids) != 2 {
		t.Fatalf("GetIDsByModuleIDs: err=%v len=%d", err, len(ids))
	}
	all, err := lessons.GetIDsByModuleIDs(ctx, tx, []uuid.UUID{m1.ID, m2.ID})
	if err != nil || len(all) != 3 {
		t.Fatalf("GetIDsByModuleIDs(all): err=%v len=%d", err, len(all))
	}
	got, err := lessons.GetByModuleIDs(ctx, tx, []uuid.UUID{m1.ID})
	if err != nil || len(got) != 2 || got[0].ID != l1.ID || got[1].ID != l2.ID {
		t.Fatalf("GetByModuleIDs: err=%v rows=%v", err, got)
	}

	if err := lessons.SoftDeleteByIDs(ctx, tx, []uuid.UUID{l3.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if ids, err := lessons.GetIDsByModuleIDs(ctx, tx, []uuid.UUID{m2.ID}); err != nil || len(ids) != 0 {
		t.Fatalf("after SoftDeleteByIDs: err=%v len=%d", err, len(ids))
	}
}

func TestLessonRepoGetIDsByCourseID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	lessons := NewLessonRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx)
	other := testutil.SeedCourse(t, ctx, tx)
	m1 := testutil.SeedCourseModule(t, ctx, tx, c.ID, 1)
	m0 := testutil.SeedCourseModule(t, ctx, tx, c.ID, 0)
	gone := testutil.SeedCourseModule(t, ctx, tx, c.ID, 2)
	om := testutil.SeedCourseModule(t, ctx, tx, other.ID, 0)

	a := testutil.SeedLesson(t, ctx, tx, m0.ID, 0)
	b := testutil.SeedLesson(t, ctx, tx, m0.ID, 1)
	d := testutil.SeedLesson(t, ctx, tx, m1.ID, 0)
	testutil.SeedLesson(t, ctx, tx, gone.ID, 0)
	testutil.SeedLesson(t, ctx, tx, om.ID, 0)

	if err := tx.WithContext(ctx).Delete(&types.CourseModule{}, "id = ?", gone.ID).Error; err != nil {
		t.Fatalf("delete module: %v", err)
	}

	ids, err := lessons.GetIDsByCourseID(ctx, tx, c.ID)
	if err != nil {
		t.Fatalf("GetIDsByCourseID: %v", err)
	}
	want := []uuid.UUID{a.ID, b.ID, d.ID}
	if len(ids) != len(want) {
		t.Fatalf("GetIDsByCourseID: want=%d got=%d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("GetIDsByCourseID[%d]: want=%s got=%s", i, want[i], ids[i])
		}
	}

	if empty, err := lessons.GetIDsByCourseID(ctx, tx, uuid.New()); err != nil || len(empty) != 0 {
		t.Fatalf("unknown course: err=%v len=%d", err, len(empty))
	}
}

func TestCourseRepoPoolAndTransaction(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	kept := &types.Course{Title: "kept", Status: "published"}
	if _, err := repo.Create(ctx, nil, []*types.Course{kept}); err != nil {
		t.Fatalf("Create on pool: %v", err)
	}

	tx := db.Begin()
	dropped := &types.Course{Title: "dropped", Status: "draft"}
	if _, err := repo.Create(ctx, tx, []*types.Course{dropped}); err != nil {
		t.Fatalf("Create in tx: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{dropped.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs in tx: err=%v len=%d", err, len(rows))
	}
	if err := tx.Rollback().Error; err != nil {
		t.Fatalf("rollback: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, nil, []uuid.UUID{kept.ID, dropped.ID})
	if err != nil {
		t.Fatalf("GetByIDs on pool: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != kept.ID {
		t.Fatalf("after rollback: want only kept course got=%d rows", len(rows))
	}
}
