package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/leveling"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
)

// Manager owns the per-user ledger: XP, level, coins, and aggregate
// counters. (level, xp) may drift from the curve's decomposition of
// total_xp_earned under incremental add/remove; only Recalculate forces
// them back into agreement.
type Manager struct {
	users      repositories.UserRepository
	curve      leveling.Curve
	dispatcher *events.Dispatcher
}

func NewManager(users repositories.UserRepository, curve leveling.Curve, dispatcher *events.Dispatcher) *Manager {
	return &Manager{
		users:      users,
		curve:      curve,
		dispatcher: dispatcher,
	}
}

// WithStore returns a Manager bound to a different user store, typically a
// transaction-scoped repository. Curve and dispatcher are shared.
func (m *Manager) WithStore(users repositories.UserRepository) *Manager {
	scoped := *m
	scoped.users = users
	return &scoped
}

type XPResult struct {
	Level         int
	XP            int64
	LeveledUp     bool
	TotalXPEarned int64
}

// Snapshot returns the ledger row, materializing it on first reference.
func (m *Manager) Snapshot(ctx context.Context, userID string) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return m.users.GetOrCreate(ctx, userID)
}

// AddXP credits amount, walking the level up while the remainder covers the
// next threshold. total_xp_earned grows unconditionally. Emits a levelUp
// event after the row is written when a level-up occurred.
func (m *Manager) AddXP(ctx context.Context, userID, guildID string, amount int64) (*XPResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	user, err := m.users.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	level := user.Level
	xp := user.XP + amount
	leveledUp := false
	for level < m.curve.MaxLevel() && xp >= m.curve.XPForLevel(level) {
		xp -= m.curve.XPForLevel(level)
		level++
		leveledUp = true
	}

	totalXP := user.TotalXPEarned + amount
	err = m.users.Update(ctx, userID, models.UserUpdate{
		XP:            &xp,
		Level:         &level,
		TotalXPEarned: &totalXP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write ledger: %w", err)
	}

	if leveledUp {
		m.dispatcher.Emit(events.Event{
			Type:    events.TypeLevelUp,
			UserID:  userID,
			GuildID: guildID,
			Payload: events.LevelUpPayload{NewLevel: level, XP: xp},
		})
	}

	return &XPResult{Level: level, XP: xp, LeveledUp: leveledUp, TotalXPEarned: totalXP}, nil
}

// RemoveXP reconstructs the absolute XP from (level, xp), subtracts amount
// with a floor of zero, and re-derives (level, xp) from level 1 upward.
// total_xp_earned is deliberately left alone: it records all-time earnings.
func (m *Manager) RemoveXP(ctx context.Context, userID string, amount int64) (*XPResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	user, err := m.users.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	absolute := m.curve.Compose(user.Level, user.XP) - amount
	if absolute < 0 {
		absolute = 0
	}
	level, xp := m.curve.Decompose(absolute)

	err = m.users.Update(ctx, userID, models.UserUpdate{
		XP:    &xp,
		Level: &level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write ledger: %w", err)
	}

	return &XPResult{Level: level, XP: xp, TotalXPEarned: user.TotalXPEarned}, nil
}

// AddCoins adjusts the balance; negative amounts clamp at zero and do not
// touch total_coins_earned.
func (m *Manager) AddCoins(ctx context.Context, userID string, amount int64) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	if _, err := m.users.GetOrCreate(ctx, userID); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	return m.users.AddCoins(ctx, userID, amount)
}

// RemoveCoins debits or returns ErrInsufficientFunds with the balance
// untouched.
func (m *Manager) RemoveCoins(ctx context.Context, userID string, amount int64) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	if _, err := m.users.GetOrCreate(ctx, userID); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	return m.users.RemoveCoins(ctx, userID, amount)
}

// Update applies a typed partial update after identity validation. Semantic
// validation belongs to the caller.
func (m *Manager) Update(ctx context.Context, userID string, upd models.UserUpdate) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if _, err := m.users.GetOrCreate(ctx, userID); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	return m.users.Update(ctx, userID, upd)
}

// Recalculate re-derives (level, xp) purely from total_xp_earned for every
// user. Idempotent; never invoked implicitly. The user list is snapshotted
// at call start, so per-user mutations racing a long pass may be overwritten
// by this pass's write for that user — an accepted consistency gap.
func (m *Manager) Recalculate(ctx context.Context) (int, error) {
	users, err := m.users.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to snapshot users: %w", err)
	}

	updated := 0
	for _, user := range users {
		level, xp := m.curve.Decompose(user.TotalXPEarned)
		if level == user.Level && xp == user.XP {
			continue
		}
		err := m.users.Update(ctx, user.DiscordID, models.UserUpdate{
			XP:    &xp,
			Level: &level,
		})
		if err != nil {
			return updated, fmt.Errorf("failed to recalculate user %s: %w", user.DiscordID, err)
		}
		updated++
	}

	slog.Info("Ledger recalculated",
		slog.String("type", "engine"),
		slog.Int("users", len(users)),
		slog.Int("updated", updated))
	return updated, nil
}

// ResetUser hard-deletes the ledger row. The only operation that does.
func (m *Manager) ResetUser(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return m.users.Delete(ctx, userID)
}

// Leaderboard returns users ranked by metric; unknown metrics fall back to
// total XP ordering.
func (m *Manager) Leaderboard(ctx context.Context, metric string, limit int) ([]*models.User, error) {
	return m.users.Leaderboard(ctx, metric, limit)
}

// Curve exposes the leveling curve for display math.
func (m *Manager) Curve() leveling.Curve {
	return m.curve
}

// Rank returns the 1-based position by total XP earned.
func (m *Manager) Rank(ctx context.Context, userID string) (int, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}
	return m.users.RankByTotalXP(ctx, userID)
}
