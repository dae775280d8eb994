package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/coursework-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/platform/dbctx"
)

type EnrollmentAggregateDeps struct {
	Base BaseDeps

	Enrollments    repos.EnrollmentRepo
	Modules        repos.CourseModuleRepo
	Lessons        repos.LessonRepo
	LessonProgress repos.LessonProgressRepo
}

type enrollmentAggregate struct {
	deps EnrollmentAggregateDeps
}

func NewEnrollmentAggregate(deps EnrollmentAggregateDeps) domainagg.EnrollmentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &enrollmentAggregate{deps: deps}
}

func (a *enrollmentAggregate) Contract() domainagg.Contract {
	return domainagg.EnrollmentAggregateContract
}

func (a *enrollmentAggregate) Unenroll(ctx context.Context, in domainagg.UnenrollInput) (domainagg.UnenrollResult, error) {
	const op = "Learning.Enrollment.Unenroll"
	out := domainagg.UnenrollResult{CourseID: in.CourseID}

	if in.UserID == uuid.Nil || in.CourseID == uuid.Nil {
		return out, domainagg.ValidationError(op, "unenroll requires user_id and course_id")
	}
	if a.deps.Enrollments == nil || a.deps.Modules == nil || a.deps.Lessons == nil || a.deps.LessonProgress == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "enrollment aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		removed, err := a.deps.Enrollments.DeleteByUserAndCourse(dbc.Ctx, dbc.Tx, in.UserID, in.CourseID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return domainagg.NotFoundError(op, "not enrolled in course")
		}

		modules, err := a.deps.Modules.GetByCourseIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{in.CourseID})
		if err != nil {
			return err
		}
		moduleIDs := make([]uuid.UUID, 0, len(modules))
		for _, m := range modules {
			moduleIDs = append(moduleIDs, m.ID)
		}
		lessonIDs, err := a.deps.Lessons.GetIDsByModuleIDs(dbc.Ctx, dbc.Tx, moduleIDs)
		if err != nil {
			return err
		}
		rows, err := a.deps.LessonProgress.GetByUserAndLessonIDs(dbc.Ctx, dbc.Tx, in.UserID, lessonIDs)
		if err != nil {
			return err
		}
		if err := a.deps.LessonProgress.DeleteByUserAndLessonIDs(dbc.Ctx, dbc.Tx, in.UserID, lessonIDs); err != nil {
			return err
		}
		out.RemovedLessonRows = len(rows)
		return nil
	})
	return out, err
}
