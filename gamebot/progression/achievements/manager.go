package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
)

// Manager detects one-shot unlocks against derived statistics. There is no
// background scanner: callers invoke CheckAchievements after any mutation
// that could satisfy a requirement. Unlocks are monotonic and never revoked.
type Manager struct {
	achievements repositories.AchievementRepository
	ledger       *ledger.Manager
	dispatcher   *events.Dispatcher
	now          func() time.Time
}

func NewManager(achievements repositories.AchievementRepository, ledgerMgr *ledger.Manager, dispatcher *events.Dispatcher) *Manager {
	return &Manager{
		achievements: achievements,
		ledger:       ledgerMgr,
		dispatcher:   dispatcher,
		now:          time.Now,
	}
}

// CheckAchievements snapshots the user's derived statistics and unlocks
// every not-yet-unlocked definition whose statistic meets its threshold.
// Evaluation follows definition order; requirements are independent, so the
// final unlocked set does not depend on it. Returns the newly unlocked
// definitions.
func (m *Manager) CheckAchievements(ctx context.Context, userID, guildID string) ([]*models.AchievementDefinition, error) {
	user, err := m.ledger.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	defs, err := m.achievements.Definitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
	}

	unlocked, err := m.achievements.UnlockedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocks: %w", err)
	}

	var newly []*models.AchievementDefinition
	for _, def := range defs {
		if unlocked[def.AchievementID] {
			continue
		}

		stat, known := statisticFor(user, def.RequirementType)
		if !known {
			slog.Warn("Unknown achievement requirement type",
				slog.String("type", "engine"),
				slog.String("achievement_id", def.AchievementID),
				slog.String("requirement_type", def.RequirementType))
			continue
		}
		if stat < def.Requirement {
			continue
		}

		// The uniqueness constraint absorbs concurrent checks: only the
		// inserting caller credits rewards and emits.
		inserted, err := m.achievements.InsertUnlock(ctx, userID, def.AchievementID, m.now())
		if err != nil {
			return newly, fmt.Errorf("failed to record unlock: %w", err)
		}
		if !inserted {
			continue
		}

		if def.RewardXP > 0 {
			if _, err := m.ledger.AddXP(ctx, userID, guildID, def.RewardXP); err != nil {
				return newly, fmt.Errorf("failed to credit achievement xp: %w", err)
			}
		}
		if def.RewardCoins > 0 {
			if err := m.ledger.AddCoins(ctx, userID, def.RewardCoins); err != nil {
				return newly, fmt.Errorf("failed to credit achievement coins: %w", err)
			}
		}

		m.dispatcher.Emit(events.Event{
			Type:    events.TypeAchievementUnlocked,
			UserID:  userID,
			GuildID: guildID,
			Payload: events.AchievementPayload{
				AchievementID: def.AchievementID,
				Name:          def.Name,
				Emoji:         def.Emoji,
				RewardXP:      def.RewardXP,
				RewardCoins:   def.RewardCoins,
			},
		})

		newly = append(newly, def)

		slog.Info("Achievement unlocked",
			slog.String("type", "engine"),
			slog.String("user_id", userID),
			slog.String("achievement_id", def.AchievementID))
	}

	return newly, nil
}

// Unlocked returns the user's permanent unlocks for display.
func (m *Manager) Unlocked(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	return m.achievements.UnlocksByUser(ctx, userID)
}

// Definitions exposes the definition list for the presentation layer.
func (m *Manager) Definitions(ctx context.Context) ([]*models.AchievementDefinition, error) {
	return m.achievements.Definitions(ctx)
}

func statisticFor(user *models.User, requirementType string) (int64, bool) {
	switch requirementType {
	case models.RequirementMessages:
		return user.MessageCount, true
	case models.RequirementLevel:
		return int64(user.Level), true
	case models.RequirementGamesPlayed:
		return user.TotalGamesPlayed, true
	case models.RequirementGamesWon:
		return user.TotalGamesWon, true
	case models.RequirementStreak:
		return int64(user.Streak), true
	case models.RequirementCoins:
		return user.Coins, true
	case models.RequirementVoice:
		return user.VoiceMinutes, true
	case models.RequirementPurchases:
		return user.PurchaseCount, true
	case models.RequirementDailyClaims:
		return user.DailyClaimCount, true
	}
	return 0, false
}
