package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AchievementDefinition struct {
	bun.BaseModel `bun:"table:achievement_definitions,alias:ad"`

	ID            int64  `bun:"id,pk,autoincrement"`
	AchievementID string `bun:"achievement_id,notnull,unique"`
	Name          string `bun:"name,notnull"`
	Description   string `bun:"description,notnull"`
	Emoji         string `bun:"emoji"`
	// RequirementType maps to one derived statistic; see constants below.
	RequirementType string    `bun:"requirement_type,notnull"`
	Requirement     int64     `bun:"requirement,notnull"`
	RewardXP        int64     `bun:"reward_xp,notnull,default:0"`
	RewardCoins     int64     `bun:"reward_coins,notnull,default:0"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

// UserAchievement is a permanent unlock. The (user_id, achievement_id)
// uniqueness constraint is what makes concurrent unlocks idempotent.
type UserAchievement struct {
	bun.BaseModel `bun:"table:user_achievements,alias:ua"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        string    `bun:"user_id,notnull,unique:user_achievement"`
	AchievementID string    `bun:"achievement_id,notnull,unique:user_achievement"`
	UnlockedAt    time.Time `bun:"unlocked_at,notnull"`
}

// Requirement types, each naming the statistic it is compared against.
const (
	RequirementMessages    = "messages"
	RequirementLevel       = "level"
	RequirementGamesPlayed = "games_played"
	RequirementGamesWon    = "games_won"
	RequirementStreak      = "streak"
	RequirementCoins       = "coins"
	RequirementVoice       = "voice_minutes"
	RequirementPurchases   = "purchases"
	RequirementDailyClaims = "daily_claims"
)
