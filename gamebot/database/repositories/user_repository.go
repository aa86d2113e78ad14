package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/uptrace/bun"
)

// ErrInsufficientFunds is reported by RemoveCoins when the balance cannot
// cover the debit. The balance is left untouched.
var ErrInsufficientFunds = errors.New("insufficient funds")

type UserRepository interface {
	// GetOrCreate returns the ledger row for discordID, materializing a
	// zero-valued one on first reference. Concurrent first touches resolve
	// to exactly one row via the discord_id uniqueness constraint.
	GetOrCreate(ctx context.Context, discordID string) (*models.User, error)
	// Update applies a typed partial update without business validation.
	Update(ctx context.Context, discordID string, upd models.UserUpdate) error
	// AddCoins adjusts the balance, clamped to >= 0. total_coins_earned
	// grows only on positive amounts.
	AddCoins(ctx context.Context, discordID string, amount int64) error
	// RemoveCoins debits the balance or fails with ErrInsufficientFunds
	// without any partial effect.
	RemoveCoins(ctx context.Context, discordID string, amount int64) error
	GetAll(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, discordID string) error
	Leaderboard(ctx context.Context, metric string, limit int) ([]*models.User, error)
	RankByTotalXP(ctx context.Context, discordID string) (int, error)
}

type userRepository struct {
	db bun.IDB
}

// NewUserRepository accepts bun.IDB so callers can scope the repository
// to a running transaction as well as to the database itself.
func NewUserRepository(db bun.IDB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetOrCreate(ctx context.Context, discordID string) (*models.User, error) {
	now := time.Now()
	fresh := &models.User{
		DiscordID: discordID,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(fresh).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := new(models.User)
	err = r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		slog.Error("Database error when getting user",
			slog.String("type", "db"),
			slog.String("operation", "GetOrCreate"),
			slog.String("discord_id", discordID),
			slog.Any("error", err))
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, discordID string, upd models.UserUpdate) error {
	q := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", discordID)

	if upd.XP != nil {
		q = q.Set("xp = ?", *upd.XP)
	}
	if upd.Level != nil {
		q = q.Set("level = ?", *upd.Level)
	}
	if upd.Coins != nil {
		q = q.Set("coins = ?", *upd.Coins)
	}
	if upd.Streak != nil {
		q = q.Set("streak = ?", *upd.Streak)
	}
	if upd.LastDaily != nil {
		q = q.Set("last_daily = ?", *upd.LastDaily)
	}
	if upd.VoiceMinutes != nil {
		q = q.Set("voice_minutes = ?", *upd.VoiceMinutes)
	}
	if upd.MessageCount != nil {
		q = q.Set("message_count = ?", *upd.MessageCount)
	}
	if upd.TotalXPEarned != nil {
		q = q.Set("total_xp_earned = ?", *upd.TotalXPEarned)
	}
	if upd.TotalCoinsEarned != nil {
		q = q.Set("total_coins_earned = ?", *upd.TotalCoinsEarned)
	}
	if upd.TotalGamesPlayed != nil {
		q = q.Set("total_games_played = ?", *upd.TotalGamesPlayed)
	}
	if upd.TotalGamesWon != nil {
		q = q.Set("total_games_won = ?", *upd.TotalGamesWon)
	}
	if upd.PurchaseCount != nil {
		q = q.Set("purchase_count = ?", *upd.PurchaseCount)
	}
	if upd.DailyClaimCount != nil {
		q = q.Set("daily_claim_count = ?", *upd.DailyClaimCount)
	}

	_, err := q.Exec(ctx)
	return err
}

func (r *userRepository) AddCoins(ctx context.Context, discordID string, amount int64) error {
	q := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("coins = GREATEST(coins + ?, 0)", amount).
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", discordID)

	if amount > 0 {
		q = q.Set("total_coins_earned = total_coins_earned + ?", amount)
	}

	_, err := q.Exec(ctx)
	return err
}

func (r *userRepository) RemoveCoins(ctx context.Context, discordID string, amount int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("coins = coins - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", discordID).
		Where("coins >= ?", amount).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		slog.Error("Database error when getting all users",
			slog.String("type", "db"),
			slog.String("operation", "GetAll"),
			slog.Any("error", err))
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, discordID string) error {
	_, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	return err
}

func (r *userRepository) Leaderboard(ctx context.Context, metric string, limit int) ([]*models.User, error) {
	var users []*models.User
	q := r.db.NewSelect().Model(&users)

	switch metric {
	case models.MetricLevel:
		q = q.OrderExpr("level DESC, xp DESC")
	case models.MetricCoins:
		q = q.OrderExpr("coins DESC")
	case models.MetricGames:
		q = q.OrderExpr("total_games_won DESC")
	case models.MetricStreak:
		q = q.OrderExpr("streak DESC")
	case models.MetricMessages:
		q = q.OrderExpr("message_count DESC")
	case models.MetricVoice:
		q = q.OrderExpr("voice_minutes DESC")
	default:
		// Unknown keys fall back to the xp ordering.
		q = q.OrderExpr("total_xp_earned DESC")
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	err := q.Scan(ctx)
	return users, err
}

func (r *userRepository) RankByTotalXP(ctx context.Context, discordID string) (int, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	higher, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("total_xp_earned > ?", user.TotalXPEarned).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return higher + 1, nil
}
