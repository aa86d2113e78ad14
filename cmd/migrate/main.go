package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/logger"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/migration"
)

// Imports the legacy MongoDB user collection into the Postgres ledger.
// Safe to re-run: existing rows are updated in place.
func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := gamebot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	if cfg.Mongo.URI == "" {
		slog.Error("No mongo.uri configured, nothing to migrate")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := migration.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		slog.Error("Failed to connect to mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	migrator := migration.NewMigrator(
		client,
		cfg.Mongo.Database,
		repositories.NewUserRepository(db.BunDB()),
		repositories.NewStatsRepository(db.BunDB()),
	)

	stats, err := migrator.Run(ctx)
	if err != nil {
		slog.Error("Migration failed",
			slog.Int("users_imported", stats.Users),
			slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Migration completed successfully!",
		slog.Int("users", stats.Users),
		slog.Int("game_rows", stats.GameRows),
		slog.Int("skipped", stats.Skipped))
}
