package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/modules/learning/grading"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
)

type quizFixture struct {
	tree      courseTree
	quiz      *types.Quiz
	questions []*types.QuizQuestion
	userID    uuid.UUID
}

func (h *harness) seedQuiz(t *testing.T, attemptsAllowed, passingScore int, published bool) quizFixture {
	t.Helper()
	ctx := context.Background()
	tree := h.seedCourse(t, 1)
	quiz := repotest.SeedQuiz(t, ctx, h.db, tree.lessons[0][0].ID, attemptsAllowed, passingScore, published)
	q1 := repotest.SeedQuestion(t, ctx, h.db, quiz.ID, 0, types.QuestionTypeMultipleChoice, "4", 1)
	q2 := repotest.SeedQuestion(t, ctx, h.db, quiz.ID, 1, types.QuestionTypeFillInBlank, "Paris", 1)
	userID := uuid.New()
	repotest.SeedEnrollment(t, ctx, h.db, userID, tree.course.ID)
	return quizFixture{tree: tree, quiz: quiz, questions: []*types.QuizQuestion{q1, q2}, userID: userID}
}

func TestSubmitAttemptScenario(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 2, 70, true)
	ctx := asUser(f.userID, ctxutil.RoleStudent)

	first, err := h.attempts.SubmitAttempt(ctx, SubmitAttemptInput{
		QuizID: f.quiz.ID,
		Answers: map[uuid.UUID]grading.AnswerValue{
			f.questions[0].ID: grading.TextAnswer("4"),
			f.questions[1].ID: grading.TextAnswer("  paris "),
		},
		TimeSpentSeconds: 42,
	})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if first.Score != 100 || !first.Passed || first.EarnedPoints != 2 || first.TotalPoints != 2 {
		t.Fatalf("first attempt: want=(100,passed,2/2) got=(%v,%v,%d/%d)", first.Score, first.Passed, first.EarnedPoints, first.TotalPoints)
	}
	if len(first.Answers) != 2 {
		t.Fatalf("answers: want=2 got=%d", len(first.Answers))
	}

	// A third question worth one point, left unanswered on the retry.
	q3 := repotest.SeedQuestion(t, context.Background(), h.db, f.quiz.ID, 2, types.QuestionTypeTrueFalse, true, 1)
	second, err := h.attempts.SubmitAttempt(ctx, SubmitAttemptInput{
		QuizID: f.quiz.ID,
		Answers: map[uuid.UUID]grading.AnswerValue{
			f.questions[0].ID: grading.TextAnswer("4"),
			f.questions[1].ID: grading.TextAnswer("Paris"),
		},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt retry: %v", err)
	}
	if second.Score != 66.67 || second.Passed {
		t.Fatalf("second attempt: want=(66.67,false) got=(%v,%v)", second.Score, second.Passed)
	}

	stored, err := h.attemptRepo.GetByIDWithAnswers(context.Background(), nil, second.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetByIDWithAnswers: %v", err)
	}
	if len(stored.Answers) != 3 {
		t.Fatalf("stored answers: want=3 got=%d", len(stored.Answers))
	}
	for _, a := range stored.Answers {
		if a.QuestionID != q3.ID {
			continue
		}
		if a.IsCorrect || a.PointsEarned != 0 || string(a.SubmittedAnswer) != "null" {
			t.Fatalf("unanswered: want=(false,0,null) got=(%v,%d,%s)", a.IsCorrect, a.PointsEarned, a.SubmittedAnswer)
		}
	}
}

func TestSubmitAttemptEnforcesLimit(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 1, -1, true)
	ctx := asUser(f.userID, ctxutil.RoleStudent)

	in := SubmitAttemptInput{QuizID: f.quiz.ID, Answers: map[uuid.UUID]grading.AnswerValue{}}
	if _, err := h.attempts.SubmitAttempt(ctx, in); err != nil {
		t.Fatalf("first SubmitAttempt: %v", err)
	}
	_, err := h.attempts.SubmitAttempt(ctx, in)
	if !domainagg.IsCode(err, domainagg.CodeState) {
		t.Fatalf("second SubmitAttempt: want state error got=%v", err)
	}
	if msg := domainagg.MessageOf(err); msg != "attempt limit exceeded" {
		t.Fatalf("message: want=%q got=%q", "attempt limit exceeded", msg)
	}
	n, err := h.attemptRepo.CountByUserAndQuiz(context.Background(), nil, f.userID, f.quiz.ID)
	if err != nil {
		t.Fatalf("CountByUserAndQuiz: %v", err)
	}
	if n != 1 {
		t.Fatalf("attempt rows: want=1 got=%d", n)
	}
}

func TestSubmitAttemptNoPassingScorePasses(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 1, -1, true)
	got, err := h.attempts.SubmitAttempt(asUser(f.userID, ctxutil.RoleStudent), SubmitAttemptInput{QuizID: f.quiz.ID})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if got.Score != 0 || !got.Passed {
		t.Fatalf("want=(0,passed) got=(%v,%v)", got.Score, got.Passed)
	}
}

func TestSubmitAttemptPreconditions(t *testing.T) {
	h := newHarness(t)
	published := h.seedQuiz(t, 3, -1, true)
	draft := h.seedQuiz(t, 3, -1, false)
	stranger := uuid.New()

	cases := []struct {
		name string
		ctx  context.Context
		quiz uuid.UUID
		code domainagg.ErrorCode
	}{
		{"no user", context.Background(), published.quiz.ID, domainagg.CodeUnauthorized},
		{"missing quiz", asUser(published.userID, ctxutil.RoleStudent), uuid.New(), domainagg.CodeNotFound},
		{"unpublished", asUser(draft.userID, ctxutil.RoleStudent), draft.quiz.ID, domainagg.CodeState},
		{"not enrolled", asUser(stranger, ctxutil.RoleStudent), published.quiz.ID, domainagg.CodeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.attempts.SubmitAttempt(tc.ctx, SubmitAttemptInput{QuizID: tc.quiz})
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("want code=%s got=%v", tc.code, err)
			}
			if _, err := h.attempts.StartAttempt(tc.ctx, tc.quiz); !domainagg.IsCode(err, tc.code) {
				t.Fatalf("StartAttempt: want code=%s got=%v", tc.code, err)
			}
		})
	}
}

func TestStartAttemptHidesAnswersAndConsumesNothing(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 2, -1, true)
	ctx := asUser(f.userID, ctxutil.RoleStudent)

	for i := 0; i < 3; i++ {
		sess, err := h.attempts.StartAttempt(ctx, f.quiz.ID)
		if err != nil {
			t.Fatalf("StartAttempt: %v", err)
		}
		if sess.AttemptsUsed != 0 || sess.AttemptsRemaining != 2 {
			t.Fatalf("attempts: want=(0,2) got=(%d,%d)", sess.AttemptsUsed, sess.AttemptsRemaining)
		}
		for _, q := range sess.Questions {
			if len(q.CorrectAnswer) != 0 {
				t.Fatalf("question %s leaked correct answer", q.ID)
			}
		}
	}
	for _, q := range f.questions {
		if len(q.CorrectAnswer) == 0 {
			t.Fatalf("fixture question mutated")
		}
	}
}

func TestStartAttemptShuffles(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 1, -1, true)
	if err := h.db.Model(&types.Quiz{}).Where("id = ?", f.quiz.ID).Update("shuffle_questions", true).Error; err != nil {
		t.Fatalf("update quiz: %v", err)
	}
	reversed := false
	h.attempts.shuffle = func(n int, swap func(i, j int)) {
		reversed = true
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	sess, err := h.attempts.StartAttempt(asUser(f.userID, ctxutil.RoleStudent), f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if !reversed || sess.Questions[0].ID != f.questions[1].ID {
		t.Fatalf("want shuffled order got first=%s", sess.Questions[0].ID)
	}
}

func TestListAndGetAttempt(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 3, -1, true)
	ctx := asUser(f.userID, ctxutil.RoleStudent)

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		a, err := h.attempts.SubmitAttempt(ctx, SubmitAttemptInput{QuizID: f.quiz.ID})
		if err != nil {
			t.Fatalf("SubmitAttempt: %v", err)
		}
		ids = append(ids, a.ID)
		h.clock.Advance(time.Minute)
	}

	list, err := h.attempts.ListAttempts(ctx, f.quiz.ID)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(list) != 2 || list[0].ID != ids[1] {
		t.Fatalf("ListAttempts: want newest first got=%v", list)
	}

	got, quiz, err := h.attempts.GetAttempt(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if got.ID != ids[0] || quiz.ID != f.quiz.ID || len(got.Answers) != 2 {
		t.Fatalf("GetAttempt: unexpected result %+v", got)
	}

	_, _, err = h.attempts.GetAttempt(asUser(uuid.New(), ctxutil.RoleStudent), ids[0])
	if !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("foreign GetAttempt: want unauthorized got=%v", err)
	}
	_, _, err = h.attempts.GetAttempt(ctx, uuid.New())
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing GetAttempt: want not_found got=%v", err)
	}
}

func TestPublishQuiz(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	tree := h.seedCourse(t, 1)
	empty := repotest.SeedQuiz(t, ctx, h.db, tree.lessons[0][0].ID, 1, -1, false)
	full := repotest.SeedQuiz(t, ctx, h.db, tree.lessons[0][0].ID, 1, -1, false)
	repotest.SeedQuestion(t, ctx, h.db, full.ID, 0, types.QuestionTypeTrueFalse, true, 1)

	instructor := asUser(uuid.New(), ctxutil.RoleInstructor)
	if _, err := h.attempts.PublishQuiz(asUser(uuid.New(), ctxutil.RoleStudent), full.ID); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("student publish: want unauthorized got=%v", err)
	}
	if _, err := h.attempts.PublishQuiz(instructor, empty.ID); !domainagg.IsCode(err, domainagg.CodeState) {
		t.Fatalf("empty publish: want state got=%v", err)
	}
	got, err := h.attempts.PublishQuiz(instructor, full.ID)
	if err != nil || !got.IsPublished {
		t.Fatalf("publish: want published got=%v err=%v", got, err)
	}
	rows, err := h.attempts.quizzes.GetByIDs(ctx, nil, []uuid.UUID{full.ID})
	if err != nil || len(rows) != 1 || !rows[0].IsPublished {
		t.Fatalf("stored quiz not published: %v", err)
	}
}

func TestSubmittedAnswerRoundTrip(t *testing.T) {
	h := newHarness(t)
	f := h.seedQuiz(t, 1, -1, true)
	a, err := h.attempts.SubmitAttempt(asUser(f.userID, ctxutil.RoleStudent), SubmitAttemptInput{
		QuizID:  f.quiz.ID,
		Answers: map[uuid.UUID]grading.AnswerValue{f.questions[0].ID: grading.NumberAnswer(4)},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	stored, err := h.answerRepo.GetByAttemptIDs(context.Background(), nil, []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("GetByAttemptIDs: %v", err)
	}
	for _, row := range stored {
		if row.QuestionID != f.questions[0].ID {
			continue
		}
		var v grading.AnswerValue
		if err := json.Unmarshal(row.SubmittedAnswer, &v); err != nil {
			t.Fatalf("decode stored answer: %v", err)
		}
		if v != grading.NumberAnswer(4) {
			t.Fatalf("stored answer: want=4 got=%+v", v)
		}
		// A number never matches a text multiple-choice answer.
		if row.IsCorrect {
			t.Fatalf("number vs text: want incorrect")
		}
	}

	got, _, err := h.attempts.GetAttempt(asUser(f.userID, ctxutil.RoleStudent), a.ID)
	if err != nil {
		t.Fatalf("GetAttempt with numeric answer: %v", err)
	}
	for _, ans := range got.Answers {
		want := "null"
		if ans.QuestionID == f.questions[0].ID {
			want = "4"
		}
		if string(ans.SubmittedAnswer) != want {
			t.Fatalf("read back answer %s: want=%s got=%s", ans.QuestionID, want, ans.SubmittedAnswer)
		}
	}
}
