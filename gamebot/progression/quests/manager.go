package quests

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
)

type Config struct {
	DailyCount  int
	WeeklyCount int
}

// Manager drives the per-assignment state machine:
// unassigned -> active(0) -> active(progress<target) -> completed(rewarded).
// Completed is terminal; a completed assignment is never rewarded twice.
type Manager struct {
	quests repositories.QuestRepository
	ledger *ledger.Manager
	cfg    Config
	now    func() time.Time
}

func NewManager(quests repositories.QuestRepository, ledgerMgr *ledger.Manager, cfg Config) *Manager {
	return &Manager{
		quests: quests,
		ledger: ledgerMgr,
		cfg:    cfg,
		now:    time.Now,
	}
}

// AssignQuests stamps a fresh assignment set for the period. A no-op when
// any unexpired assignment of that period already exists; stale sets are
// simply left behind and replaced, never swept.
func (m *Manager) AssignQuests(ctx context.Context, userID, questType string) ([]*models.UserQuest, error) {
	if userID == "" {
		return nil, &ledger.ValidationError{Field: "user", Reason: "empty identity"}
	}
	if questType != models.QuestTypeDaily && questType != models.QuestTypeWeekly {
		return nil, &ledger.ValidationError{Field: "period", Reason: fmt.Sprintf("unknown quest type %q", questType)}
	}

	existing, err := m.quests.Assignments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	now := m.now()
	for _, a := range existing {
		if a.QuestDefinition == nil || a.QuestDefinition.Type != questType {
			continue
		}
		if !a.Expired(questType, now) {
			slog.Debug("Quest set still active, skipping assignment",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.String("period", questType))
			return nil, nil
		}
	}

	count := m.cfg.DailyCount
	if questType == models.QuestTypeWeekly {
		count = m.cfg.WeeklyCount
	}

	defs, err := m.quests.RandomDefinitions(ctx, questType, count)
	if err != nil {
		return nil, fmt.Errorf("failed to pick quest definitions: %w", err)
	}

	var created []*models.UserQuest
	for _, def := range defs {
		assignment := &models.UserQuest{
			UserID:     userID,
			QuestID:    def.QuestID,
			AssignedAt: now,
		}
		if err := m.quests.CreateAssignment(ctx, assignment); err != nil {
			return created, fmt.Errorf("failed to assign quest %s: %w", def.QuestID, err)
		}
		assignment.QuestDefinition = def
		created = append(created, assignment)

		slog.Info("Assigned quest",
			slog.String("type", "engine"),
			slog.String("user_id", userID),
			slog.String("quest_id", def.QuestID),
			slog.String("period", questType))
	}

	return created, nil
}

// UpdateProgress advances every active, unexpired assignment whose category
// matches, clamped to the target. Crossing the target completes the
// assignment exactly once and credits its rewards through the ledger.
// Returns the definitions newly completed by this call.
func (m *Manager) UpdateProgress(ctx context.Context, userID, guildID, category string, delta int64) ([]*models.QuestDefinition, error) {
	if userID == "" {
		return nil, &ledger.ValidationError{Field: "user", Reason: "empty identity"}
	}
	if delta < 0 {
		return nil, &ledger.ValidationError{Field: "delta", Reason: "must be >= 0"}
	}
	if delta == 0 {
		return nil, nil
	}

	assignments, err := m.quests.Assignments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	now := m.now()
	var completed []*models.QuestDefinition
	for _, a := range assignments {
		def := a.QuestDefinition
		if def == nil || def.Category != category {
			continue
		}
		if a.Completed || a.Expired(def.Type, now) {
			continue
		}

		progress := a.Progress + delta
		if progress > def.Target {
			progress = def.Target
		}

		if progress < def.Target {
			a.Progress = progress
			if err := m.quests.UpdateProgress(ctx, a); err != nil {
				return completed, fmt.Errorf("failed to update quest progress: %w", err)
			}
			continue
		}

		// The conditional completed=false write is the idempotence guard:
		// exactly one caller observes the transition and credits rewards.
		// Rewards are written through a transaction-scoped ledger so the
		// completed flag and the credits commit or roll back together.
		transitioned, err := m.quests.Complete(ctx, a.ID, def.Target, now, func(txCtx context.Context, users repositories.UserRepository) error {
			scoped := m.ledger.WithStore(users)
			if def.RewardXP > 0 {
				if _, err := scoped.AddXP(txCtx, userID, guildID, def.RewardXP); err != nil {
					return fmt.Errorf("failed to credit quest xp: %w", err)
				}
			}
			if def.RewardCoins > 0 {
				if err := scoped.AddCoins(txCtx, userID, def.RewardCoins); err != nil {
					return fmt.Errorf("failed to credit quest coins: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return completed, fmt.Errorf("failed to complete quest: %w", err)
		}
		if !transitioned {
			continue
		}

		completed = append(completed, def)

		slog.Info("Quest completed",
			slog.String("type", "engine"),
			slog.String("user_id", userID),
			slog.String("quest_id", def.QuestID))
	}

	return completed, nil
}

// ActiveQuests returns the user's unexpired assignments for display.
func (m *Manager) ActiveQuests(ctx context.Context, userID string) ([]*models.UserQuest, error) {
	assignments, err := m.quests.Assignments(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	var active []*models.UserQuest
	for _, a := range assignments {
		if a.QuestDefinition == nil {
			continue
		}
		if !a.Expired(a.QuestDefinition.Type, now) {
			active = append(active, a)
		}
	}
	return active, nil
}
