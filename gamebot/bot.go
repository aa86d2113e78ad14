package gamebot

import (
	"context"
	"log/slog"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/achievements"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/cooldowns"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/gamestats"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/quests"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/services"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	disgoevents "github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

// Bot owns the engine and its presentation collaborators. The dispatcher is
// constructed here and injected into every manager that emits.
type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB *database.DB

	UserRepository  repositories.UserRepository
	QuestRepository repositories.QuestRepository
	GuildRepository repositories.GuildRepository

	Dispatcher   *events.Dispatcher
	Ledger       *ledger.Manager
	Quests       *quests.Manager
	Achievements *achievements.Manager
	GameStats    *gamestats.Manager
	Cooldowns    *cooldowns.Manager

	Backup *services.BackupService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages, gateway.IntentGuildVoiceStates)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *disgoevents.Ready) {
	slog.Info("Gamification bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("the leaderboard"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
