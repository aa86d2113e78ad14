package models

import (
	"time"

	"github.com/uptrace/bun"
)

type QuestDefinition struct {
	bun.BaseModel `bun:"table:quest_definitions,alias:qd"`

	ID          int64     `bun:"id,pk,autoincrement"`
	QuestID     string    `bun:"quest_id,notnull,unique"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description,notnull"`
	Type        string    `bun:"type,notnull"`     // daily, weekly
	Category    string    `bun:"category,notnull"` // matched against progress events
	Target      int64     `bun:"target,notnull"`
	RewardXP    int64     `bun:"reward_xp,notnull,default:0"`
	RewardCoins int64     `bun:"reward_coins,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// UserQuest is one period-scoped assignment. Expiry is lazy: an assignment
// is stale once now - assigned_at exceeds the period length, and stale rows
// are never swept.
type UserQuest struct {
	bun.BaseModel `bun:"table:user_quests,alias:uq"`

	ID         int64      `bun:"id,pk,autoincrement"`
	UserID     string     `bun:"user_id,notnull"`
	QuestID    string     `bun:"quest_id,notnull"`
	Progress   int64      `bun:"progress,notnull,default:0"`
	Completed  bool       `bun:"completed,notnull,default:false"`
	AssignedAt time.Time  `bun:"assigned_at,notnull"`
	ClaimedAt  *time.Time `bun:"claimed_at"`
	CreatedAt  time.Time  `bun:"created_at,notnull"`
	UpdatedAt  time.Time  `bun:"updated_at,notnull"`

	QuestDefinition *QuestDefinition `bun:"rel:has-one,join:quest_id=quest_id"`
}

const (
	QuestTypeDaily  = "daily"
	QuestTypeWeekly = "weekly"
)

// Quest progress categories.
const (
	QuestCategoryMessages    = "messages"
	QuestCategoryGamesPlayed = "games_played"
	QuestCategoryGamesWon    = "games_won"
	QuestCategoryCoinsEarned = "coins_earned"
	QuestCategoryDailyClaims = "daily_claims"
	QuestCategoryVoice       = "voice_minutes"
)

// QuestPeriodLength returns the validity window for a quest type.
func QuestPeriodLength(questType string) time.Duration {
	if questType == QuestTypeWeekly {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// Expired reports whether the assignment lies outside its period window.
func (q *UserQuest) Expired(questType string, now time.Time) bool {
	return now.Sub(q.AssignedAt) > QuestPeriodLength(questType)
}
