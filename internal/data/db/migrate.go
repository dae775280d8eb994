package db

import (
	"fmt"

	types "github.com/yungbote/coursework-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureLearningIndexes adds Postgres-only indexes AutoMigrate cannot express.
// It is a no-op on other dialects.
func EnsureLearningIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	// Attempt history reads are newest-first per (user, quiz).
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quiz_attempt_history
		ON quiz_attempt(user_id, quiz_id, completed_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_quiz_attempt_history: %w", err)
	}
	// Streak qualification only ever looks at completed sessions.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_learning_session_completed_day
		ON learning_session(user_id, activity_date)
		WHERE completed;
	`).Error; err != nil {
		return fmt.Errorf("create idx_learning_session_completed_day: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_progress_user_completed
		ON lesson_progress(user_id)
		WHERE completed;
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_progress_user_completed: %w", err)
	}
	return nil
}
