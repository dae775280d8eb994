package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/modules/learning/grading"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type SubmitAttemptInput struct {
	QuizID uuid.UUID
	// Answers is keyed by question id; questions without an entry are graded
	// as unanswered.
	Answers          map[uuid.UUID]grading.AnswerValue
	StartedAt        *time.Time
	TimeSpentSeconds int
}

// AttemptSession is what a learner sees when opening a quiz. Correct answers
// are never included.
type AttemptSession struct {
	Quiz              *types.Quiz           `json:"quiz"`
	Questions         []*types.QuizQuestion `json:"questions"`
	AttemptsUsed      int                   `json:"attempts_used"`
	AttemptsRemaining int                   `json:"attempts_remaining"`
	StartedAt         time.Time             `json:"started_at"`
}

type AttemptService interface {
	StartAttempt(ctx context.Context, quizID uuid.UUID) (*AttemptSession, error)
	SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*types.QuizAttempt, error)
	ListAttempts(ctx context.Context, quizID uuid.UUID) ([]*types.QuizAttempt, error)
	GetAttempt(ctx context.Context, attemptID uuid.UUID) (*types.QuizAttempt, *types.Quiz, error)
	PublishQuiz(ctx context.Context, quizID uuid.UUID) (*types.Quiz, error)
}

type attemptService struct {
	db          *gorm.DB
	log         *logger.Logger
	quizzes     repos.QuizRepo
	questions   repos.QuizQuestionRepo
	attempts    repos.QuizAttemptRepo
	enrollments repos.EnrollmentRepo
	lookup      courseLookup
	aggregate   domainagg.QuizAttemptAggregate
	metrics     *observability.Metrics
	now         func() time.Time
	shuffle     func(n int, swap func(i, j int))
}

func NewAttemptService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	moduleRepo repos.CourseModuleRepo,
	lessonRepo repos.LessonRepo,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	attemptRepo repos.QuizAttemptRepo,
	enrollmentRepo repos.EnrollmentRepo,
	aggregate domainagg.QuizAttemptAggregate,
	metrics *observability.Metrics,
) AttemptService {
	return &attemptService{
		db:          db,
		log:         baseLog.With("service", "AttemptService"),
		quizzes:     quizRepo,
		questions:   questionRepo,
		attempts:    attemptRepo,
		enrollments: enrollmentRepo,
		lookup:      courseLookup{courses: courseRepo, modules: moduleRepo, lessons: lessonRepo},
		aggregate:   aggregate,
		metrics:     metrics,
		now:         time.Now,
		shuffle:     rand.Shuffle,
	}
}

type eligibility struct {
	user     *ctxutil.RequestData
	quiz     *types.Quiz
	courseID uuid.UUID
	used     int
}

// checkEligibility runs the precondition chain shared by start and submit:
// caller, published quiz, enrollment, remaining attempts.
func (s *attemptService) checkEligibility(ctx context.Context, op string, quizID uuid.UUID) (*eligibility, error) {
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	quiz, err := s.getQuiz(ctx, op, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, domainagg.StateError(op, "quiz is unpublished")
	}
	_, courseID, err := s.lookup.parentsOfLesson(ctx, op, quiz.LessonID)
	if err != nil {
		return nil, err
	}
	if _, err := requireEnrollment(ctx, s.enrollments, op, rd.UserID, courseID); err != nil {
		return nil, err
	}
	used, err := s.attempts.CountByUserAndQuiz(ctx, nil, rd.UserID, quiz.ID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if used >= int64(quiz.MaxAttempts()) {
		return nil, domainagg.StateError(op, "attempt limit exceeded")
	}
	return &eligibility{user: rd, quiz: quiz, courseID: courseID, used: int(used)}, nil
}

func (s *attemptService) getQuiz(ctx context.Context, op string, quizID uuid.UUID) (*types.Quiz, error) {
	rows, err := s.quizzes.GetByIDs(ctx, nil, []uuid.UUID{quizID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, domainagg.NotFoundError(op, "quiz not found")
	}
	return rows[0], nil
}

func (s *attemptService) StartAttempt(ctx context.Context, quizID uuid.UUID) (*AttemptSession, error) {
	const op = "Learning.Attempt.Start"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("quiz_id", quizID.String()))
	var err error
	defer func() { observability.EndSpan(span, err) }()

	el, err := s.checkEligibility(ctx, op, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.GetByQuizID(ctx, nil, quizID)
	if err != nil {
		err = domainagg.PersistenceError(op, err)
		return nil, err
	}

	view := make([]*types.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if q == nil {
			continue
		}
		cp := *q
		cp.CorrectAnswer = nil
		cp.ExplanationMD = ""
		view = append(view, &cp)
	}
	if el.quiz.ShuffleQuestions && len(view) > 1 {
		s.shuffle(len(view), func(i, j int) { view[i], view[j] = view[j], view[i] })
	}

	return &AttemptSession{
		Quiz:              el.quiz,
		Questions:         view,
		AttemptsUsed:      el.used,
		AttemptsRemaining: el.quiz.MaxAttempts() - el.used,
		StartedAt:         s.now().UTC(),
	}, nil
}

func (s *attemptService) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*types.QuizAttempt, error) {
	const op = "Learning.Attempt.Submit"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("quiz_id", in.QuizID.String()))
	var err error
	defer func() { observability.EndSpan(span, err) }()

	if in.TimeSpentSeconds < 0 {
		err = domainagg.ValidationError(op, "time_spent_seconds must not be negative")
		return nil, err
	}
	el, err := s.checkEligibility(ctx, op, in.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.GetByQuizID(ctx, nil, in.QuizID)
	if err != nil {
		err = domainagg.PersistenceError(op, err)
		return nil, err
	}

	now := s.now().UTC()
	startedAt := now
	if in.StartedAt != nil && !in.StartedAt.IsZero() && !in.StartedAt.After(now) {
		startedAt = in.StartedAt.UTC()
	}

	totalPoints, earnedPoints := 0, 0
	answers := make([]*types.QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		if q == nil {
			continue
		}
		submitted, ok := in.Answers[q.ID]
		if !ok {
			submitted = grading.MissingAnswer()
		}
		res := grading.Grade(grading.FromModel(q), submitted)
		totalPoints += q.Points
		earnedPoints += res.PointsEarned

		raw, mErr := json.Marshal(submitted)
		if mErr != nil {
			err = domainagg.NewError(domainagg.CodeInternal, op, "encode answer", mErr)
			return nil, err
		}
		answers = append(answers, &types.QuestionAnswer{
			QuestionID:      q.ID,
			SubmittedAnswer: types.JSONValue(raw),
			IsCorrect:       res.IsCorrect,
			PointsEarned:    res.PointsEarned,
		})
	}

	score := grading.Score(earnedPoints, totalPoints)
	attempt := &types.QuizAttempt{
		QuizID:           el.quiz.ID,
		UserID:           el.user.UserID,
		StartedAt:        startedAt,
		CompletedAt:      now,
		Score:            score,
		TotalPoints:      totalPoints,
		EarnedPoints:     earnedPoints,
		Passed:           grading.Passed(score, el.quiz.PassingScore),
		TimeSpentSeconds: in.TimeSpentSeconds,
	}

	saved, err := s.aggregate.RecordAttempt(ctx, domainagg.RecordAttemptInput{
		Attempt:         attempt,
		Answers:         answers,
		AttemptsAllowed: el.quiz.MaxAttempts(),
	})
	if err != nil {
		return nil, err
	}
	saved.Quiz = el.quiz
	s.metrics.ObserveAttemptGraded(saved.Passed, saved.Score)
	s.log.Info("quiz attempt graded",
		"user_id", el.user.UserID,
		"quiz_id", el.quiz.ID,
		"attempt_id", saved.ID,
		"score", saved.Score,
		"passed", saved.Passed,
	)
	return saved, nil
}

func (s *attemptService) ListAttempts(ctx context.Context, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	const op = "Learning.Attempt.List"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if _, err := s.getQuiz(ctx, op, quizID); err != nil {
		return nil, err
	}
	rows, err := s.attempts.GetByUserAndQuiz(ctx, nil, rd.UserID, quizID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	return rows, nil
}

// GetAttempt returns an attempt with its answers. Only the owner may read it.
func (s *attemptService) GetAttempt(ctx context.Context, attemptID uuid.UUID) (*types.QuizAttempt, *types.Quiz, error) {
	const op = "Learning.Attempt.Get"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, nil, err
	}
	attempt, err := s.attempts.GetByIDWithAnswers(ctx, nil, attemptID)
	if err != nil {
		return nil, nil, domainagg.PersistenceError(op, err)
	}
	if attempt == nil {
		return nil, nil, domainagg.NotFoundError(op, "attempt not found")
	}
	if attempt.UserID != rd.UserID {
		return nil, nil, domainagg.AuthorizationError(op, "attempt belongs to another user")
	}
	quiz, err := s.getQuiz(ctx, op, attempt.QuizID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, quiz, nil
}

func (s *attemptService) PublishQuiz(ctx context.Context, quizID uuid.UUID) (*types.Quiz, error) {
	const op = "Learning.Quiz.Publish"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if !rd.HasRole(ctxutil.RoleInstructor, ctxutil.RoleAdmin) {
		return nil, domainagg.AuthorizationError(op, "instructor role required")
	}
	quiz, err := s.getQuiz(ctx, op, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.IsPublished {
		return quiz, nil
	}
	n, err := s.questions.CountByQuizID(ctx, nil, quizID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if n == 0 {
		return nil, domainagg.StateError(op, "quiz has no questions")
	}
	if err := s.quizzes.SetPublished(ctx, nil, quizID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainagg.NotFoundError(op, "quiz not found")
		}
		return nil, domainagg.PersistenceError(op, err)
	}
	quiz.IsPublished = true
	s.log.Info("quiz published", "quiz_id", quizID, "questions", n)
	return quiz, nil
}
