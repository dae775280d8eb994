package domain

import "github.com/yungbote/coursework-backend/internal/domain/learning"

type Course = learning.Course
type CourseModule = learning.CourseModule
type Lesson = learning.Lesson

type Quiz = learning.Quiz
type QuizQuestion = learning.QuizQuestion
type QuestionType = learning.QuestionType
type QuizAttempt = learning.QuizAttempt
type QuestionAnswer = learning.QuestionAnswer
type JSONValue = learning.JSONValue

type Enrollment = learning.Enrollment
type LessonProgress = learning.LessonProgress
type LearningSession = learning.LearningSession
type LearningStreak = learning.LearningStreak

type Achievement = learning.Achievement
type AchievementCriteria = learning.AchievementCriteria
type UserAchievement = learning.UserAchievement

const (
	QuestionTypeMultipleChoice = learning.QuestionTypeMultipleChoice
	QuestionTypeTrueFalse      = learning.QuestionTypeTrueFalse
	QuestionTypeFillInBlank    = learning.QuestionTypeFillInBlank
	QuestionTypeShortAnswer    = learning.QuestionTypeShortAnswer
	QuestionTypeEssay          = learning.QuestionTypeEssay

	AchievementCategoryStreak     = learning.AchievementCategoryStreak
	AchievementCategoryCompletion = learning.AchievementCategoryCompletion
)

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Course{},
		&CourseModule{},
		&Lesson{},
		&Quiz{},
		&QuizQuestion{},
		&QuizAttempt{},
		&QuestionAnswer{},
		&Enrollment{},
		&LessonProgress{},
		&LearningSession{},
		&LearningStreak{},
		&Achievement{},
		&UserAchievement{},
	}
}
