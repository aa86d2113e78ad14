package cooldowns

import (
	"context"
	"fmt"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
)

// Manager tracks per-(user, action) timing state. It reports elapsed time;
// whether the action is still cooling down is the caller's policy decision,
// using a duration resolved from guild overrides or the process default.
type Manager struct {
	cooldowns repositories.CooldownRepository
	guilds    repositories.GuildRepository
	// defaultGame applies when a guild set neither a specific nor a
	// wildcard override.
	defaultGame time.Duration
	now         func() time.Time
}

func NewManager(cooldowns repositories.CooldownRepository, guilds repositories.GuildRepository, defaultGame time.Duration) *Manager {
	return &Manager{
		cooldowns:   cooldowns,
		guilds:      guilds,
		defaultGame: defaultGame,
		now:         time.Now,
	}
}

type Status struct {
	// Elapsed since last use; zero value with Used=false on first use.
	Elapsed time.Duration
	Count   int64
	Used    bool
}

// Check returns the timing state for (user, action) without mutating it.
func (m *Manager) Check(ctx context.Context, userID, action string) (Status, error) {
	if userID == "" || action == "" {
		return Status{}, &ledger.ValidationError{Field: "cooldown", Reason: "empty user or action"}
	}

	cd, err := m.cooldowns.Get(ctx, userID, action)
	if err != nil {
		return Status{}, fmt.Errorf("failed to read cooldown: %w", err)
	}
	if cd == nil {
		return Status{}, nil
	}

	return Status{
		Elapsed: m.now().Sub(cd.LastUsed),
		Count:   cd.Count,
		Used:    true,
	}, nil
}

// Record stamps a use: creates the record on first use, otherwise sets
// last_used to now and increments the count. Counts never auto-decay.
func (m *Manager) Record(ctx context.Context, userID, action string) error {
	if userID == "" || action == "" {
		return &ledger.ValidationError{Field: "cooldown", Reason: "empty user or action"}
	}
	return m.cooldowns.Record(ctx, userID, action, m.now())
}

// Reset clears the record explicitly; nothing else ever does.
func (m *Manager) Reset(ctx context.Context, userID, action string) error {
	if userID == "" || action == "" {
		return &ledger.ValidationError{Field: "cooldown", Reason: "empty user or action"}
	}
	return m.cooldowns.Reset(ctx, userID, action)
}

// GameCooldown resolves the effective cooldown for a game in a guild:
// specific override, then "all" wildcard, then the process default.
func (m *Manager) GameCooldown(ctx context.Context, guildID, gameType string) (time.Duration, error) {
	if guildID != "" {
		d, ok, err := m.guilds.CooldownOverride(ctx, guildID, gameType)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve guild override: %w", err)
		}
		if ok {
			return d, nil
		}
	}
	return m.defaultGame, nil
}
