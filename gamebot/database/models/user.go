package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the per-user ledger row: XP remainder within the current level,
// level, coin balance, and aggregate counters. total_xp_earned and
// total_coins_earned are high-water marks and never decrease.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`

	XP    int64 `bun:"xp,notnull,default:0"`
	Level int   `bun:"level,notnull,default:1"`
	Coins int64 `bun:"coins,notnull,default:0"`

	Streak    int       `bun:"streak,notnull,default:0"`
	LastDaily time.Time `bun:"last_daily"`

	VoiceMinutes int64 `bun:"voice_minutes,notnull,default:0"`
	MessageCount int64 `bun:"message_count,notnull,default:0"`

	TotalXPEarned    int64 `bun:"total_xp_earned,notnull,default:0"`
	TotalCoinsEarned int64 `bun:"total_coins_earned,notnull,default:0"`
	TotalGamesPlayed int64 `bun:"total_games_played,notnull,default:0"`
	TotalGamesWon    int64 `bun:"total_games_won,notnull,default:0"`
	PurchaseCount    int64 `bun:"purchase_count,notnull,default:0"`
	DailyClaimCount  int64 `bun:"daily_claim_count,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// UserUpdate is a typed partial update. Nil fields are left untouched.
// The store applies it verbatim; callers validate semantics first.
type UserUpdate struct {
	XP               *int64
	Level            *int
	Coins            *int64
	Streak           *int
	LastDaily        *time.Time
	VoiceMinutes     *int64
	MessageCount     *int64
	TotalXPEarned    *int64
	TotalCoinsEarned *int64
	TotalGamesPlayed *int64
	TotalGamesWon    *int64
	PurchaseCount    *int64
	DailyClaimCount  *int64
}

// Leaderboard metric keys. Unknown keys fall back to MetricXP.
const (
	MetricXP       = "xp"
	MetricLevel    = "level"
	MetricCoins    = "coins"
	MetricGames    = "games"
	MetricStreak   = "streak"
	MetricMessages = "messages"
	MetricVoice    = "voice"
)
