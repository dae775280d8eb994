package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursework-backend/internal/domain"
)

func TestQuizAndQuestionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	quizzes := NewQuizRepo(db, testutil.Logger(t))
	questions := NewQuizQuestionRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx)
	m := testutil.SeedCourseModule(t, ctx, tx, c.ID, 0)
	l := testutil.SeedLesson(t, ctx, tx, m.ID, 0)
	q := testutil.SeedQuiz(t, ctx, tx, l.ID, 2, 70, false)

	q2 := testutil.SeedQuestion(t, ctx, tx, q.ID, 2, types.QuestionTypeTrueFalse, true, 1)
	q1 := testutil.SeedQuestion(t, ctx, tx, q.ID, 1, types.QuestionTypeMultipleChoice, "4", 1)

	rows, err := questions.GetByQuizID(ctx, tx, q.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByQuizID: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != q1.ID || rows[1].ID != q2.ID {
		t.Fatalf("GetByQuizID: want order_index order")
	}
	if n, err := questions.CountByQuizID(ctx, tx, q.ID); err != nil || n != 2 {
		t.Fatalf("CountByQuizID: err=%v n=%d", err, n)
	}

	if err := quizzes.SetPublished(ctx, tx, q.ID, true); err != nil {
		t.Fatalf("SetPublished: %v", err)
	}
	got, err := quizzes.GetByIDs(ctx, tx, []uuid.UUID{q.ID})
	if err != nil || len(got) != 1 || !got[0].IsPublished {
		t.Fatalf("GetByIDs after publish: err=%v rows=%v", err, got)
	}
	if got[0].PassingScore == nil || *got[0].PassingScore != 70 {
		t.Fatalf("PassingScore: want=70 got=%v", got[0].PassingScore)
	}
	if err := quizzes.SetPublished(ctx, tx, uuid.New(), true); err == nil {
		t.Fatalf("SetPublished(unknown): expected error")
	}
}

func TestQuizAttemptRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	attempts := NewQuizAttemptRepo(db, testutil.Logger(t))
	answers := NewQuestionAnswerRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx)
	m := testutil.SeedCourseModule(t, ctx, tx, c.ID, 0)
	l := testutil.SeedLesson(t, ctx, tx, m.ID, 0)
	q := testutil.SeedQuiz(t, ctx, tx, l.ID, 3, -1, true)
	qq := testutil.SeedQuestion(t, ctx, tx, q.ID, 0, types.QuestionTypeShortAnswer, "paris", 2)
	userID := uuid.New()

	now := time.Now().UTC()
	older := &types.QuizAttempt{QuizID: q.ID, UserID: userID, StartedAt: now.Add(-2 * time.Hour), CompletedAt: now.Add(-time.Hour), TotalPoints: 2}
	newer := &types.QuizAttempt{QuizID: q.ID, UserID: userID, StartedAt: now.Add(-time.Minute), CompletedAt: now, TotalPoints: 2, EarnedPoints: 2, Score: 100, Passed: true}
	if _, err := attempts.Create(ctx, tx, []*types.QuizAttempt{older, newer}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := answers.Create(ctx, tx, []*types.QuestionAnswer{{
		AttemptID:       newer.ID,
		QuestionID:      qq.ID,
		SubmittedAnswer: types.JSONValue(`"Paris"`),
		IsCorrect:       true,
		PointsEarned:    2,
	}}); err != nil {
		t.Fatalf("answers.Create: %v", err)
	}

	if n, err := attempts.CountByUserAndQuiz(ctx, tx, userID, q.ID); err != nil || n != 2 {
		t.Fatalf("CountByUserAndQuiz: err=%v n=%d", err, n)
	}
	list, err := attempts.GetByUserAndQuiz(ctx, tx, userID, q.ID)
	if err != nil || len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("GetByUserAndQuiz: want newest first, err=%v", err)
	}

	full, err := attempts.GetByIDWithAnswers(ctx, tx, newer.ID)
	if err != nil || full == nil {
		t.Fatalf("GetByIDWithAnswers: err=%v row=%v", err, full)
	}
	if len(full.Answers) != 1 || string(full.Answers[0].SubmittedAnswer) != `"Paris"` {
		t.Fatalf("GetByIDWithAnswers: answers=%v", full.Answers)
	}
	if missing, err := attempts.GetByIDWithAnswers(ctx, tx, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByIDWithAnswers(unknown): err=%v row=%v", err, missing)
	}

	dup := &types.QuestionAnswer{AttemptID: newer.ID, QuestionID: qq.ID, SubmittedAnswer: types.JSONValue("null")}
	if _, err := answers.Create(ctx, tx, []*types.QuestionAnswer{dup}); err == nil {
		t.Fatalf("answers.Create duplicate: expected unique violation")
	}
}
