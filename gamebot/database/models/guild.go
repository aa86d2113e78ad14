package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GuildSettings routes engine events to guild channels. Read-only to the
// progression core; written by the admin command layer.
type GuildSettings struct {
	bun.BaseModel `bun:"table:guild_settings,alias:gset"`

	ID               int64     `bun:"id,pk,autoincrement"`
	GuildID          string    `bun:"guild_id,notnull,unique"`
	LogChannelID     string    `bun:"log_channel_id"`
	LevelUpChannelID string    `bun:"level_up_channel_id"`
	GameChannelID    string    `bun:"game_channel_id"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
	UpdatedAt        time.Time `bun:"updated_at,notnull"`
}

// GuildCooldown overrides the process-default game cooldown for one guild.
// GameTypeAll is the wildcard fallback; a specific game type wins over it.
type GuildCooldown struct {
	bun.BaseModel `bun:"table:guild_cooldowns,alias:gcd"`

	ID         int64     `bun:"id,pk,autoincrement"`
	GuildID    string    `bun:"guild_id,notnull,unique:guild_game"`
	GameType   string    `bun:"game_type,notnull,unique:guild_game"`
	DurationMS int64     `bun:"duration_ms,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

const GameTypeAll = "all"
