package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	dailyAction      = "daily"
	dailyBaseCoins   = int64(500)
	dailyStreakBonus = int64(50)
	dailyXP          = int64(50)

	// A streak survives as long as the next claim lands within this window
	// of the previous one.
	streakWindow = 48 * time.Hour
)

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "Claim your daily reward!",
}

func DailyHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.User().ID.String()
		guildID := ""
		if e.GuildID() != nil {
			guildID = e.GuildID().String()
		}

		cooldown := time.Duration(b.Cfg.Cooldowns.DailyMS) * time.Millisecond
		status, err := b.Cooldowns.Check(ctx, userID, dailyAction)
		if err != nil {
			slog.Error("Failed to check daily cooldown",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to claim daily reward. Please try again later.")
		}
		if status.Used && status.Elapsed < cooldown {
			remaining := (cooldown - status.Elapsed).Round(time.Second)
			return createErrorEmbed(e, fmt.Sprintf("You can claim your daily reward again in %s.", remaining))
		}

		user, err := b.Ledger.Snapshot(ctx, userID)
		if err != nil {
			return createErrorEmbed(e, "Failed to claim daily reward. Please try again later.")
		}

		streak := 1
		if status.Used && status.Elapsed < streakWindow {
			streak = user.Streak + 1
		}

		reward := dailyBaseCoins + int64(streak-1)*dailyStreakBonus

		now := time.Now()
		claims := user.DailyClaimCount + 1
		err = b.Ledger.Update(ctx, userID, models.UserUpdate{
			Streak:          &streak,
			LastDaily:       &now,
			DailyClaimCount: &claims,
		})
		if err != nil {
			slog.Error("Failed to record daily claim",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to claim daily reward. Please try again later.")
		}

		if err := b.Ledger.AddCoins(ctx, userID, reward); err != nil {
			return createErrorEmbed(e, "Failed to claim daily reward. Please try again later.")
		}
		if _, err := b.Ledger.AddXP(ctx, userID, guildID, dailyXP); err != nil {
			return createErrorEmbed(e, "Failed to claim daily reward. Please try again later.")
		}
		if err := b.Cooldowns.Record(ctx, userID, dailyAction); err != nil {
			slog.Error("Failed to record daily cooldown",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
		}

		if _, err := b.Quests.UpdateProgress(ctx, userID, guildID, models.QuestCategoryDailyClaims, 1); err != nil {
			slog.Error("Failed to advance daily quests",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
		}
		if _, err := b.Achievements.CheckAchievements(ctx, userID, guildID); err != nil {
			slog.Error("Failed to check achievements",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
		}

		description := fmt.Sprintf("You claimed **%d** coins and **%d** XP!", reward, dailyXP)
		if streak > 1 {
			description += fmt.Sprintf("\n🔥 %d day streak — keep it up!", streak)
		}
		return createSuccessEmbed(e, "Daily Reward Claimed!", description)
	}
}
