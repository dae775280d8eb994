package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

var (
	StreakMilestones     = []int{3, 7, 14, 30, 60, 100}
	CompletionMilestones = []int{1, 10, 25, 50, 100}
)

//go:embed achievement_catalog.yaml
var achievementCatalogYAML []byte

type catalogFile struct {
	Achievements []catalogEntry `yaml:"achievements"`
}

type catalogEntry struct {
	Key         string                    `yaml:"key"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Icon        string                    `yaml:"icon"`
	Category    string                    `yaml:"category"`
	Criteria    types.AchievementCriteria `yaml:"criteria"`
	Points      int                       `yaml:"points"`
}

// ParseAchievementCatalog decodes a YAML catalog into achievement rows.
func ParseAchievementCatalog(raw []byte) ([]*types.Achievement, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse achievement catalog: %w", err)
	}
	seen := map[string]bool{}
	out := make([]*types.Achievement, 0, len(file.Achievements))
	for i, e := range file.Achievements {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			return nil, fmt.Errorf("achievement catalog entry %d: missing key", i)
		}
		if seen[key] {
			return nil, fmt.Errorf("achievement catalog: duplicate key %q", key)
		}
		seen[key] = true
		switch e.Category {
		case types.AchievementCategoryStreak:
			if e.Criteria.Days < 1 {
				return nil, fmt.Errorf("achievement %q: streak criteria needs days", key)
			}
		case types.AchievementCategoryCompletion:
			if e.Criteria.Lessons < 1 {
				return nil, fmt.Errorf("achievement %q: completion criteria needs lessons", key)
			}
		default:
			return nil, fmt.Errorf("achievement %q: unknown category %q", key, e.Category)
		}
		criteria, err := json.Marshal(e.Criteria)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", key, err)
		}
		out = append(out, &types.Achievement{
			Key:         key,
			Name:        e.Name,
			Description: e.Description,
			Icon:        e.Icon,
			Category:    e.Category,
			Criteria:    datatypes.JSON(criteria),
			Points:      e.Points,
		})
	}
	return out, nil
}

type AchievementService interface {
	SeedCatalog(ctx context.Context) (int, error)
	CheckStreakAchievements(ctx context.Context, userID uuid.UUID, currentStreak int) ([]*types.UserAchievement, error)
	CheckCompletionAchievements(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
}

type achievementService struct {
	db           *gorm.DB
	log          *logger.Logger
	achievements repos.AchievementRepo
	grants       repos.UserAchievementRepo
	progress     repos.LessonProgressRepo
	metrics      *observability.Metrics
	now          func() time.Time
}

func NewAchievementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
	lessonProgressRepo repos.LessonProgressRepo,
	metrics *observability.Metrics,
) AchievementService {
	return &achievementService{
		db:           db,
		log:          baseLog.With("service", "AchievementService"),
		achievements: achievementRepo,
		grants:       userAchievementRepo,
		progress:     lessonProgressRepo,
		metrics:      metrics,
		now:          time.Now,
	}
}

func (s *achievementService) SeedCatalog(ctx context.Context) (int, error) {
	rows, err := ParseAchievementCatalog(achievementCatalogYAML)
	if err != nil {
		return 0, err
	}
	if err := s.achievements.UpsertByKey(ctx, nil, rows); err != nil {
		return 0, fmt.Errorf("seed achievement catalog: %w", err)
	}
	s.log.Info("achievement catalog seeded", "count", len(rows))
	return len(rows), nil
}

func (s *achievementService) CheckStreakAchievements(ctx context.Context, userID uuid.UUID, currentStreak int) ([]*types.UserAchievement, error) {
	return s.checkMilestones(ctx, "Learning.Achievement.CheckStreak", userID, types.AchievementCategoryStreak, StreakMilestones, currentStreak,
		func(c types.AchievementCriteria) int { return c.Days })
}

func (s *achievementService) CheckCompletionAchievements(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	const op = "Learning.Achievement.CheckCompletion"
	n, err := s.progress.CountCompletedByUser(ctx, nil, userID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	return s.checkMilestones(ctx, op, userID, types.AchievementCategoryCompletion, CompletionMilestones, int(n),
		func(c types.AchievementCriteria) int { return c.Lessons })
}

// checkMilestones grants every reached milestone the user does not hold yet and
// returns only the new grants. Milestones with no catalog entry are skipped.
func (s *achievementService) checkMilestones(
	ctx context.Context,
	op string,
	userID uuid.UUID,
	category string,
	milestones []int,
	value int,
	threshold func(types.AchievementCriteria) int,
) ([]*types.UserAchievement, error) {
	if userID == uuid.Nil || value <= 0 {
		return nil, nil
	}
	catalog, err := s.achievements.GetByCategory(ctx, nil, category)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	byThreshold := make(map[int]*types.Achievement, len(catalog))
	for _, a := range catalog {
		c, err := a.DecodeCriteria()
		if err != nil {
			s.log.Warn("skipping achievement with bad criteria", "achievement_key", a.Key, "error", err)
			continue
		}
		if t := threshold(c); t > 0 {
			byThreshold[t] = a
		}
	}

	var granted []*types.UserAchievement
	for _, m := range milestones {
		if value < m {
			break
		}
		ach := byThreshold[m]
		if ach == nil {
			s.log.Debug("no catalog entry for milestone", "category", category, "milestone", m)
			continue
		}
		held, err := s.grants.Exists(ctx, nil, userID, ach.ID)
		if err != nil {
			return granted, domainagg.PersistenceError(op, err)
		}
		if held {
			continue
		}
		row, created, err := s.grants.Grant(ctx, nil, userID, ach.ID, s.now().UTC())
		if err != nil {
			return granted, domainagg.PersistenceError(op, err)
		}
		if !created {
			continue
		}
		row.Achievement = ach
		granted = append(granted, row)
		s.metrics.IncAchievementGranted(category)
		s.log.Info("achievement granted", "user_id", userID, "achievement_key", ach.Key)
	}
	return granted, nil
}

func (s *achievementService) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	rows, err := s.grants.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, domainagg.PersistenceError("Learning.Achievement.List", err)
	}
	return rows, nil
}
