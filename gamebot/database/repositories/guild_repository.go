package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
)

const guildCacheSize = 512

type GuildRepository interface {
	// GetSettings returns nil when the guild never configured anything.
	GetSettings(ctx context.Context, guildID string) (*models.GuildSettings, error)
	UpsertSettings(ctx context.Context, settings *models.GuildSettings) error
	// CooldownOverride resolves the duration for (guild, gameType): a
	// specific row wins over the "all" wildcard. ok=false means the guild
	// set neither and the process default applies.
	CooldownOverride(ctx context.Context, guildID, gameType string) (time.Duration, bool, error)
	SetCooldownOverride(ctx context.Context, guildID, gameType string, duration time.Duration) error
}

type guildRepository struct {
	db            *bun.DB
	settingsCache *lru.Cache
	overrideCache *lru.Cache
}

func NewGuildRepository(db *bun.DB) GuildRepository {
	settingsCache, _ := lru.New(guildCacheSize)
	overrideCache, _ := lru.New(guildCacheSize)
	return &guildRepository{
		db:            db,
		settingsCache: settingsCache,
		overrideCache: overrideCache,
	}
}

func (r *guildRepository) GetSettings(ctx context.Context, guildID string) (*models.GuildSettings, error) {
	if cached, ok := r.settingsCache.Get(guildID); ok {
		return cached.(*models.GuildSettings), nil
	}

	settings := new(models.GuildSettings)
	err := r.db.NewSelect().
		Model(settings).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	r.settingsCache.Add(guildID, settings)
	return settings, nil
}

func (r *guildRepository) UpsertSettings(ctx context.Context, settings *models.GuildSettings) error {
	now := time.Now()
	settings.UpdatedAt = now
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}

	_, err := r.db.NewInsert().
		Model(settings).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("log_channel_id = EXCLUDED.log_channel_id").
		Set("level_up_channel_id = EXCLUDED.level_up_channel_id").
		Set("game_channel_id = EXCLUDED.game_channel_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}

	r.settingsCache.Remove(settings.GuildID)
	return nil
}

func (r *guildRepository) CooldownOverride(ctx context.Context, guildID, gameType string) (time.Duration, bool, error) {
	if d, ok, found := r.cachedOverride(guildID, gameType); found {
		return d, ok, nil
	}

	// Fetch specific and wildcard in one query; precedence is applied here.
	var rows []*models.GuildCooldown
	err := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Where("game_type IN (?)", bun.In([]string{gameType, models.GameTypeAll})).
		Scan(ctx)
	if err != nil {
		return 0, false, err
	}

	var wildcard *models.GuildCooldown
	for _, row := range rows {
		if row.GameType == gameType {
			d := time.Duration(row.DurationMS) * time.Millisecond
			r.cacheOverride(guildID, gameType, d, true)
			return d, true, nil
		}
		if row.GameType == models.GameTypeAll {
			wildcard = row
		}
	}

	if wildcard != nil {
		d := time.Duration(wildcard.DurationMS) * time.Millisecond
		r.cacheOverride(guildID, gameType, d, true)
		return d, true, nil
	}

	r.cacheOverride(guildID, gameType, 0, false)
	return 0, false, nil
}

func (r *guildRepository) SetCooldownOverride(ctx context.Context, guildID, gameType string, duration time.Duration) error {
	row := &models.GuildCooldown{
		GuildID:    guildID,
		GameType:   gameType,
		DurationMS: duration.Milliseconds(),
		UpdatedAt:  time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (guild_id, game_type) DO UPDATE").
		Set("duration_ms = EXCLUDED.duration_ms").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}

	// Any cached resolution for this guild may now be stale.
	r.evictGuildOverrides(guildID)
	return nil
}

// evictGuildOverrides drops every cached resolution for the guild. The
// separator is part of the match so guild "123" never evicts "1234".
func (r *guildRepository) evictGuildOverrides(guildID string) {
	prefix := guildID + "/"
	for _, key := range r.overrideCache.Keys() {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			r.overrideCache.Remove(key)
		}
	}
}

type cachedOverride struct {
	duration time.Duration
	ok       bool
}

func (r *guildRepository) cachedOverride(guildID, gameType string) (time.Duration, bool, bool) {
	if cached, found := r.overrideCache.Get(overrideKey(guildID, gameType)); found {
		c := cached.(cachedOverride)
		return c.duration, c.ok, true
	}
	return 0, false, false
}

func (r *guildRepository) cacheOverride(guildID, gameType string, d time.Duration, ok bool) {
	r.overrideCache.Add(overrideKey(guildID, gameType), cachedOverride{duration: d, ok: ok})
}

func overrideKey(guildID, gameType string) string {
	return fmt.Sprintf("%s/%s", guildID, gameType)
}
