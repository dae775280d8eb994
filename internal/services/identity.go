package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
)

// currentUser returns the authenticated caller or an authorization error.
func currentUser(ctx context.Context, op string) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, domainagg.AuthorizationError(op, "authentication required")
	}
	return rd, nil
}

// courseLookup walks lesson -> module -> course ownership.
type courseLookup struct {
	courses repos.CourseRepo
	modules repos.CourseModuleRepo
	lessons repos.LessonRepo
}

func (l courseLookup) lesson(ctx context.Context, op string, lessonID uuid.UUID) (*types.Lesson, error) {
	rows, err := l.lessons.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, domainagg.NotFoundError(op, "lesson not found")
	}
	return rows[0], nil
}

func (l courseLookup) module(ctx context.Context, op string, moduleID uuid.UUID) (*types.CourseModule, error) {
	rows, err := l.modules.GetByIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, domainagg.NotFoundError(op, "module not found")
	}
	return rows[0], nil
}

func (l courseLookup) course(ctx context.Context, op string, courseID uuid.UUID) (*types.Course, error) {
	rows, err := l.courses.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, domainagg.NotFoundError(op, "course not found")
	}
	return rows[0], nil
}

// parentsOfLesson resolves the module and course a lesson belongs to.
func (l courseLookup) parentsOfLesson(ctx context.Context, op string, lessonID uuid.UUID) (moduleID, courseID uuid.UUID, err error) {
	lesson, err := l.lesson(ctx, op, lessonID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	mod, err := l.module(ctx, op, lesson.ModuleID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return mod.ID, mod.CourseID, nil
}

// lessonIDsForCourse lists every live lesson under the course's live modules.
func (l courseLookup) lessonIDsForCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	return l.lessons.GetIDsByCourseID(ctx, nil, courseID)
}

func requireEnrollment(ctx context.Context, enrollments repos.EnrollmentRepo, op string, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	row, err := enrollments.Get(ctx, nil, userID, courseID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if row == nil {
		return nil, domainagg.AuthorizationError(op, "not enrolled in course")
	}
	return row, nil
}
