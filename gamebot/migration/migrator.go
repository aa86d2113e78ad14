package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
)

// Migrator imports user progression data from the legacy MongoDB bot into
// the Postgres ledger. One-shot, run from cmd/migrate; existing rows are
// overwritten with the legacy values.
type Migrator struct {
	mongoDB  *mongo.Database
	users    repositories.UserRepository
	stats    repositories.StatsRepository
	collName string
}

type Stats struct {
	Users     int
	GameRows  int
	Skipped   int
	StartTime time.Time
}

// legacyUser mirrors the document shape the old bot stored.
type legacyUser struct {
	UserID       string `bson:"userId"`
	XP           int64  `bson:"xp"`
	Level        int    `bson:"level"`
	Coins        int64  `bson:"coins"`
	Streak       int    `bson:"streak"`
	LastDaily    int64  `bson:"lastDaily"`
	VoiceMinutes int64  `bson:"voiceMinutes"`
	Messages     int64  `bson:"messageCount"`
	TotalXP      int64  `bson:"totalXpEarned"`
	TotalCoins   int64  `bson:"totalCoinsEarned"`
	GamesPlayed  int64  `bson:"totalGamesPlayed"`
	GamesWon     int64  `bson:"totalGamesWon"`
	GameStats    []struct {
		GameType      string `bson:"gameType"`
		Played        int64  `bson:"played"`
		Won           int64  `bson:"won"`
		Lost          int64  `bson:"lost"`
		Drawn         int64  `bson:"drawn"`
		TotalBet      int64  `bson:"totalBet"`
		TotalWon      int64  `bson:"totalWon"`
		TotalLost     int64  `bson:"totalLost"`
		CurrentStreak int64  `bson:"currentStreak"`
		BestStreak    int64  `bson:"bestStreak"`
		MaxSingleBet  int64  `bson:"maxSingleBet"`
	} `bson:"gameStats"`
}

func NewMigrator(client *mongo.Client, database string, users repositories.UserRepository, stats repositories.StatsRepository) *Migrator {
	return &Migrator{
		mongoDB:  client.Database(database),
		users:    users,
		stats:    stats,
		collName: "users",
	}
}

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// Run walks the legacy users collection and upserts each document into the
// ledger and game stats tables.
func (m *Migrator) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	cursor, err := m.mongoDB.Collection(m.collName).Find(ctx, bson.D{})
	if err != nil {
		return stats, fmt.Errorf("failed to query legacy users: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var legacy legacyUser
		if err := cursor.Decode(&legacy); err != nil {
			slog.Warn("Skipping undecodable legacy user",
				slog.String("type", "db"),
				slog.Any("error", err))
			stats.Skipped++
			continue
		}
		if legacy.UserID == "" {
			stats.Skipped++
			continue
		}

		if err := m.importUser(ctx, legacy, stats); err != nil {
			return stats, err
		}
		stats.Users++
	}
	if err := cursor.Err(); err != nil {
		return stats, fmt.Errorf("legacy cursor failed: %w", err)
	}

	slog.Info("Legacy migration finished",
		slog.String("type", "db"),
		slog.Int("users", stats.Users),
		slog.Int("game_rows", stats.GameRows),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("took", time.Since(stats.StartTime)))
	return stats, nil
}

func (m *Migrator) importUser(ctx context.Context, legacy legacyUser, stats *Stats) error {
	if _, err := m.users.GetOrCreate(ctx, legacy.UserID); err != nil {
		return fmt.Errorf("failed to create ledger for %s: %w", legacy.UserID, err)
	}

	level := legacy.Level
	if level < 1 {
		level = 1
	}
	lastDaily := time.UnixMilli(legacy.LastDaily)

	err := m.users.Update(ctx, legacy.UserID, models.UserUpdate{
		XP:               &legacy.XP,
		Level:            &level,
		Coins:            &legacy.Coins,
		Streak:           &legacy.Streak,
		LastDaily:        &lastDaily,
		VoiceMinutes:     &legacy.VoiceMinutes,
		MessageCount:     &legacy.Messages,
		TotalXPEarned:    &legacy.TotalXP,
		TotalCoinsEarned: &legacy.TotalCoins,
		TotalGamesPlayed: &legacy.GamesPlayed,
		TotalGamesWon:    &legacy.GamesWon,
	})
	if err != nil {
		return fmt.Errorf("failed to import ledger for %s: %w", legacy.UserID, err)
	}

	for _, game := range legacy.GameStats {
		row, err := m.stats.GetOrCreate(ctx, legacy.UserID, game.GameType)
		if err != nil {
			return fmt.Errorf("failed to create game stats for %s: %w", legacy.UserID, err)
		}

		row.Played = game.Played
		row.Won = game.Won
		row.Lost = game.Lost
		row.Drawn = game.Drawn
		row.TotalBet = game.TotalBet
		row.TotalWon = game.TotalWon
		row.TotalLost = game.TotalLost
		row.CurrentStreak = game.CurrentStreak
		row.BestStreak = game.BestStreak
		row.MaxSingleBet = game.MaxSingleBet

		if err := m.stats.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to import game stats for %s: %w", legacy.UserID, err)
		}
		stats.GameRows++
	}

	return nil
}
