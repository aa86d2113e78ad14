package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/uptrace/bun"
)

type StatsRepository interface {
	GetOrCreate(ctx context.Context, userID, gameType string) (*models.GameStats, error)
	Update(ctx context.Context, stats *models.GameStats) error
	GetByUser(ctx context.Context, userID string) ([]*models.GameStats, error)
}

type statsRepository struct {
	db *bun.DB
}

func NewStatsRepository(db *bun.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetOrCreate(ctx context.Context, userID, gameType string) (*models.GameStats, error) {
	now := time.Now()
	fresh := &models.GameStats{
		UserID:    userID,
		GameType:  gameType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(fresh).
		On("CONFLICT (user_id, game_type) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game stats: %w", err)
	}

	stats := new(models.GameStats)
	err = r.db.NewSelect().
		Model(stats).
		Where("user_id = ? AND game_type = ?", userID, gameType).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statsRepository) Update(ctx context.Context, stats *models.GameStats) error {
	stats.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(stats).
		WherePK().
		Exec(ctx)
	return err
}

func (r *statsRepository) GetByUser(ctx context.Context, userID string) ([]*models.GameStats, error) {
	var stats []*models.GameStats
	err := r.db.NewSelect().
		Model(&stats).
		Where("user_id = ?", userID).
		Order("game_type ASC").
		Scan(ctx)
	return stats, err
}
