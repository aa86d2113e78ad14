package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GameStats holds the running counters for one (user, game type) pair.
type GameStats struct {
	bun.BaseModel `bun:"table:game_stats,alias:gs"`

	ID       int64  `bun:"id,pk,autoincrement"`
	UserID   string `bun:"user_id,notnull,unique:user_game"`
	GameType string `bun:"game_type,notnull,unique:user_game"`

	Played int64 `bun:"played,notnull,default:0"`
	Won    int64 `bun:"won,notnull,default:0"`
	Lost   int64 `bun:"lost,notnull,default:0"`
	Drawn  int64 `bun:"drawn,notnull,default:0"`

	TotalBet  int64 `bun:"total_bet,notnull,default:0"`
	TotalWon  int64 `bun:"total_won,notnull,default:0"`
	TotalLost int64 `bun:"total_lost,notnull,default:0"`

	CurrentStreak int64 `bun:"current_streak,notnull,default:0"`
	BestStreak    int64 `bun:"best_streak,notnull,default:0"`
	MaxSingleBet  int64 `bun:"max_single_bet,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
