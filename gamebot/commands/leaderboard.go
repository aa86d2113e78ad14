package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

const (
	leaderboardLimit   = 100
	leaderboardPerPage = 10
)

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "View the server rankings",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "metric",
			Description: "What to rank by",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "XP", Value: models.MetricXP},
				{Name: "Level", Value: models.MetricLevel},
				{Name: "Coins", Value: models.MetricCoins},
				{Name: "Games Won", Value: models.MetricGames},
				{Name: "Daily Streak", Value: models.MetricStreak},
				{Name: "Messages", Value: models.MetricMessages},
				{Name: "Voice Minutes", Value: models.MetricVoice},
			},
		},
	},
}

func LeaderboardHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		metric := models.MetricXP
		if m, ok := e.SlashCommandInteractionData().OptString("metric"); ok {
			metric = m
		}

		users, err := b.Ledger.Leaderboard(ctx, metric, leaderboardLimit)
		if err != nil {
			slog.Error("Failed to load leaderboard",
				slog.String("type", "cmd"),
				slog.String("metric", metric),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to load the leaderboard. Please try again later.")
		}
		if len(users) == 0 {
			return createErrorEmbed(e, "Nobody is on the leaderboard yet!")
		}

		totalPages := int(math.Ceil(float64(len(users)) / float64(leaderboardPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * leaderboardPerPage
				endIdx := min(startIdx+leaderboardPerPage, len(users))

				var description strings.Builder
				for i, user := range users[startIdx:endIdx] {
					description.WriteString(fmt.Sprintf("%s <@%s> — %s\n",
						rankMarker(startIdx+i+1), user.DiscordID, metricValue(user, metric)))
				}

				embed.
					SetTitle(fmt.Sprintf("🏆 Leaderboard — %s", metricLabel(metric))).
					SetDescription(description.String()).
					SetColor(embedColor).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func rankMarker(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("`#%d`", position)
}

func metricLabel(metric string) string {
	switch metric {
	case models.MetricLevel:
		return "Level"
	case models.MetricCoins:
		return "Coins"
	case models.MetricGames:
		return "Games Won"
	case models.MetricStreak:
		return "Daily Streak"
	case models.MetricMessages:
		return "Messages"
	case models.MetricVoice:
		return "Voice Minutes"
	}
	return "XP"
}

func metricValue(user *models.User, metric string) string {
	switch metric {
	case models.MetricLevel:
		return fmt.Sprintf("level %d (%d XP)", user.Level, user.XP)
	case models.MetricCoins:
		return fmt.Sprintf("%d coins", user.Coins)
	case models.MetricGames:
		return fmt.Sprintf("%d wins / %d played", user.TotalGamesWon, user.TotalGamesPlayed)
	case models.MetricStreak:
		return fmt.Sprintf("%d day streak", user.Streak)
	case models.MetricMessages:
		return fmt.Sprintf("%d messages", user.MessageCount)
	case models.MetricVoice:
		return fmt.Sprintf("%d voice minutes", user.VoiceMinutes)
	}
	return fmt.Sprintf("%d XP", user.TotalXPEarned)
}
