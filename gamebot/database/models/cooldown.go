package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Cooldown tracks the last use and use count of one (user, action) pair.
// The count never decays on its own; callers reset it explicitly.
type Cooldown struct {
	bun.BaseModel `bun:"table:cooldowns,alias:cd"`

	ID       int64     `bun:"id,pk,autoincrement"`
	UserID   string    `bun:"user_id,notnull,unique:user_action"`
	Action   string    `bun:"action,notnull,unique:user_action"`
	LastUsed time.Time `bun:"last_used,notnull"`
	Count    int64     `bun:"count,notnull,default:0"`
}
