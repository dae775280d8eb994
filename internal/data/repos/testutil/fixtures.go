package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:     uuid.New(),
		Title:  "course",
		Status: "published",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCourseModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, index int) *types.CourseModule {
	tb.Helper()
	m := &types.CourseModule{
		ID:       uuid.New(),
		CourseID: courseID,
		Index:    index,
		Title:    "module",
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed course module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, index int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:       uuid.New(),
		ModuleID: moduleID,
		Index:    index,
		Title:    "lesson",
		Kind:     "reading",
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedQuiz creates a quiz on lessonID. passingScore < 0 leaves it unset.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, attemptsAllowed int, passingScore int, published bool) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:              uuid.New(),
		LessonID:        lessonID,
		Title:           "quiz",
		AttemptsAllowed: attemptsAllowed,
		ShowResults:     true,
		IsPublished:     published,
	}
	if passingScore >= 0 {
		q.PassingScore = PtrInt(passingScore)
	}
	if err := tx.WithContext(ctx).Omit("Questions").Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

// SeedQuestion creates a question whose correct answer is the JSON encoding of correct.
func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, quizID uuid.UUID, order int, qt types.QuestionType, correct interface{}, points int) *types.QuizQuestion {
	tb.Helper()
	raw, err := json.Marshal(correct)
	if err != nil {
		tb.Fatalf("marshal correct answer: %v", err)
	}
	q := &types.QuizQuestion{
		ID:            uuid.New(),
		QuizID:        quizID,
		Type:          qt,
		Prompt:        "prompt",
		CorrectAnswer: types.JSONValue(raw),
		Points:        points,
		Order:         order,
	}
	if qt == types.QuestionTypeMultipleChoice {
		q.Options = datatypes.JSON([]byte(`["2","3","4","5"]`))
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, key, category string, criteria string) *types.Achievement {
	tb.Helper()
	a := &types.Achievement{
		ID:       uuid.New(),
		Key:      key,
		Name:     key,
		Category: category,
		Criteria: datatypes.JSON([]byte(criteria)),
		Points:   10,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrInt(v int) *int { return &v }
