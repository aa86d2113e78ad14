package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/bot"
	disgoevents "github.com/disgoorg/disgo/events"
)

// XP granted per counted message. Kept deliberately small; leveling pace is
// governed by the curve config.
const messageXP = 5

// MessageActivityHandler feeds message activity into the engine: message
// count, XP, quest progress, and an achievement check.
func MessageActivityHandler(b *gamebot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *disgoevents.MessageCreate) {
		if e.Message.Author.Bot || e.GuildID == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.Message.Author.ID.String()
		guildID := e.GuildID.String()

		user, err := b.Ledger.Snapshot(ctx, userID)
		if err != nil {
			slog.Error("Failed to load ledger for message activity",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return
		}

		msgCount := user.MessageCount + 1
		if err := b.Ledger.Update(ctx, userID, models.UserUpdate{MessageCount: &msgCount}); err != nil {
			slog.Error("Failed to count message",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return
		}

		if _, err := b.Ledger.AddXP(ctx, userID, guildID, messageXP); err != nil {
			slog.Error("Failed to credit message xp",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return
		}

		if _, err := b.Quests.UpdateProgress(ctx, userID, guildID, models.QuestCategoryMessages, 1); err != nil {
			slog.Error("Failed to update message quests",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
		}

		if _, err := b.Achievements.CheckAchievements(ctx, userID, guildID); err != nil {
			slog.Error("Failed to check achievements",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
	})
}
