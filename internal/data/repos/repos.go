package repos

import (
	"github.com/yungbote/coursework-backend/internal/data/repos/learning"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseRepo = learning.CourseRepo
type CourseModuleRepo = learning.CourseModuleRepo
type LessonRepo = learning.LessonRepo

type QuizRepo = learning.QuizRepo
type QuizQuestionRepo = learning.QuizQuestionRepo
type QuizAttemptRepo = learning.QuizAttemptRepo
type QuestionAnswerRepo = learning.QuestionAnswerRepo

type EnrollmentRepo = learning.EnrollmentRepo
type LessonProgressRepo = learning.LessonProgressRepo
type LearningSessionRepo = learning.LearningSessionRepo
type LearningStreakRepo = learning.LearningStreakRepo

type AchievementRepo = learning.AchievementRepo
type UserAchievementRepo = learning.UserAchievementRepo

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return learning.NewCourseModuleRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return learning.NewQuizRepo(db, baseLog)
}
func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return learning.NewQuizQuestionRepo(db, baseLog)
}
func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return learning.NewQuizAttemptRepo(db, baseLog)
}
func NewQuestionAnswerRepo(db *gorm.DB, baseLog *logger.Logger) QuestionAnswerRepo {
	return learning.NewQuestionAnswerRepo(db, baseLog)
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}
func NewLearningSessionRepo(db *gorm.DB, baseLog *logger.Logger) LearningSessionRepo {
	return learning.NewLearningSessionRepo(db, baseLog)
}
func NewLearningStreakRepo(db *gorm.DB, baseLog *logger.Logger) LearningStreakRepo {
	return learning.NewLearningStreakRepo(db, baseLog)
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return learning.NewAchievementRepo(db, baseLog)
}
func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return learning.NewUserAchievementRepo(db, baseLog)
}
