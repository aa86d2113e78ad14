package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/uptrace/bun"
)

type CooldownRepository interface {
	// Get returns the record for (user, action), or nil when the action has
	// never been used.
	Get(ctx context.Context, userID, action string) (*models.Cooldown, error)
	// Record upserts: create on first use, otherwise stamp last_used and
	// bump the count.
	Record(ctx context.Context, userID, action string, usedAt time.Time) error
	Reset(ctx context.Context, userID, action string) error
}

type cooldownRepository struct {
	db *bun.DB
}

func NewCooldownRepository(db *bun.DB) CooldownRepository {
	return &cooldownRepository{db: db}
}

func (r *cooldownRepository) Get(ctx context.Context, userID, action string) (*models.Cooldown, error) {
	cd := new(models.Cooldown)
	err := r.db.NewSelect().
		Model(cd).
		Where("user_id = ? AND action = ?", userID, action).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cd, nil
}

func (r *cooldownRepository) Record(ctx context.Context, userID, action string, usedAt time.Time) error {
	cd := &models.Cooldown{
		UserID:   userID,
		Action:   action,
		LastUsed: usedAt,
		Count:    1,
	}

	_, err := r.db.NewInsert().
		Model(cd).
		On("CONFLICT (user_id, action) DO UPDATE").
		Set("last_used = EXCLUDED.last_used").
		Set("count = cd.count + 1").
		Exec(ctx)
	return err
}

func (r *cooldownRepository) Reset(ctx context.Context, userID, action string) error {
	_, err := r.db.NewDelete().
		Model((*models.Cooldown)(nil)).
		Where("user_id = ? AND action = ?", userID, action).
		Exec(ctx)
	return err
}
