package repositories

import (
	"context"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/uptrace/bun"
)

type AchievementRepository interface {
	// Definitions returns all achievement definitions in stable
	// achievement_id order.
	Definitions(ctx context.Context) ([]*models.AchievementDefinition, error)
	CreateDefinition(ctx context.Context, def *models.AchievementDefinition) error
	UnlockedIDs(ctx context.Context, userID string) (map[string]bool, error)
	UnlocksByUser(ctx context.Context, userID string) ([]*models.UserAchievement, error)
	// InsertUnlock records a permanent unlock. The uniqueness constraint
	// absorbs concurrent attempts; false means the pair already existed.
	InsertUnlock(ctx context.Context, userID, achievementID string, unlockedAt time.Time) (bool, error)
}

type achievementRepository struct {
	db *bun.DB
}

func NewAchievementRepository(db *bun.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Definitions(ctx context.Context) ([]*models.AchievementDefinition, error) {
	var defs []*models.AchievementDefinition
	err := r.db.NewSelect().
		Model(&defs).
		Order("achievement_id ASC").
		Scan(ctx)
	return defs, err
}

func (r *achievementRepository) CreateDefinition(ctx context.Context, def *models.AchievementDefinition) error {
	def.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(def).Exec(ctx)
	return err
}

func (r *achievementRepository) UnlockedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*models.UserAchievement)(nil)).
		Column("achievement_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

func (r *achievementRepository) UnlocksByUser(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	var unlocks []*models.UserAchievement
	err := r.db.NewSelect().
		Model(&unlocks).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Scan(ctx)
	return unlocks, err
}

func (r *achievementRepository) InsertUnlock(ctx context.Context, userID, achievementID string, unlockedAt time.Time) (bool, error) {
	unlock := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    unlockedAt,
	}

	res, err := r.db.NewInsert().
		Model(unlock).
		On("CONFLICT (user_id, achievement_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
