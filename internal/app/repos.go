package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type Repos struct {
	Course       repos.CourseRepo
	CourseModule repos.CourseModuleRepo
	Lesson       repos.LessonRepo

	Quiz           repos.QuizRepo
	QuizQuestion   repos.QuizQuestionRepo
	QuizAttempt    repos.QuizAttemptRepo
	QuestionAnswer repos.QuestionAnswerRepo

	Enrollment      repos.EnrollmentRepo
	LessonProgress  repos.LessonProgressRepo
	LearningSession repos.LearningSessionRepo
	LearningStreak  repos.LearningStreakRepo

	Achievement     repos.AchievementRepo
	UserAchievement repos.UserAchievementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:          repos.NewCourseRepo(db, log),
		CourseModule:    repos.NewCourseModuleRepo(db, log),
		Lesson:          repos.NewLessonRepo(db, log),
		Quiz:            repos.NewQuizRepo(db, log),
		QuizQuestion:    repos.NewQuizQuestionRepo(db, log),
		QuizAttempt:     repos.NewQuizAttemptRepo(db, log),
		QuestionAnswer:  repos.NewQuestionAnswerRepo(db, log),
		Enrollment:      repos.NewEnrollmentRepo(db, log),
		LessonProgress:  repos.NewLessonProgressRepo(db, log),
		LearningSession: repos.NewLearningSessionRepo(db, log),
		LearningStreak:  repos.NewLearningStreakRepo(db, log),
		Achievement:     repos.NewAchievementRepo(db, log),
		UserAchievement: repos.NewUserAchievementRepo(db, log),
	}
}
