package gamestats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
)

// Manager keeps the per-(user, game type) running counters and mirrors the
// play/win totals onto the user ledger.
type Manager struct {
	stats      repositories.StatsRepository
	ledger     *ledger.Manager
	dispatcher *events.Dispatcher
}

func NewManager(stats repositories.StatsRepository, ledgerMgr *ledger.Manager, dispatcher *events.Dispatcher) *Manager {
	return &Manager{
		stats:      stats,
		ledger:     ledgerMgr,
		dispatcher: dispatcher,
	}
}

type Result struct {
	GameType string
	Won      bool
	Draw     bool
	Bet      int64
	Payout   int64
}

// RecordResult applies one game outcome: exactly one of won/lost/drawn is
// incremented, money counters accumulate, the win streak advances or resets,
// and a gameResult event is emitted after the rows are written.
func (m *Manager) RecordResult(ctx context.Context, userID, guildID string, result Result) (*models.GameStats, error) {
	if userID == "" {
		return nil, &ledger.ValidationError{Field: "user", Reason: "empty identity"}
	}
	if result.GameType == "" {
		return nil, &ledger.ValidationError{Field: "gameType", Reason: "empty game type"}
	}
	if result.Bet < 0 || result.Payout < 0 {
		return nil, &ledger.ValidationError{Field: "amount", Reason: "must be >= 0"}
	}

	stats, err := m.stats.GetOrCreate(ctx, userID, result.GameType)
	if err != nil {
		return nil, fmt.Errorf("failed to load game stats: %w", err)
	}

	stats.Played++
	switch {
	case result.Won:
		stats.Won++
	case result.Draw:
		stats.Drawn++
	default:
		stats.Lost++
	}

	stats.TotalBet += result.Bet
	if result.Won {
		stats.TotalWon += result.Payout
	} else {
		stats.TotalLost += result.Bet
	}

	if result.Won {
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
	} else {
		stats.CurrentStreak = 0
	}

	if result.Bet > stats.MaxSingleBet {
		stats.MaxSingleBet = result.Bet
	}

	if err := m.stats.Update(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to write game stats: %w", err)
	}

	if err := m.mirrorTotals(ctx, userID, result.Won); err != nil {
		return nil, err
	}

	m.dispatcher.Emit(events.Event{
		Type:    events.TypeGameResult,
		UserID:  userID,
		GuildID: guildID,
		Payload: events.GameResultPayload{
			GameType: result.GameType,
			Won:      result.Won,
			Draw:     result.Draw,
			Bet:      result.Bet,
			Payout:   result.Payout,
		},
	})

	slog.Debug("Game result recorded",
		slog.String("type", "engine"),
		slog.String("user_id", userID),
		slog.String("game_type", result.GameType),
		slog.Bool("won", result.Won))

	return stats, nil
}

// StatsByUser returns all counters rows for the user.
func (m *Manager) StatsByUser(ctx context.Context, userID string) ([]*models.GameStats, error) {
	return m.stats.GetByUser(ctx, userID)
}

func (m *Manager) mirrorTotals(ctx context.Context, userID string, won bool) error {
	user, err := m.ledger.Snapshot(ctx, userID)
	if err != nil {
		return err
	}

	played := user.TotalGamesPlayed + 1
	upd := models.UserUpdate{TotalGamesPlayed: &played}
	if won {
		wonTotal := user.TotalGamesWon + 1
		upd.TotalGamesWon = &wonTotal
	}
	return m.ledger.Update(ctx, userID, upd)
}
