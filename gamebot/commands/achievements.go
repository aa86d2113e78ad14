package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"
)

const achievementsPerPage = 6

var Achievements = discord.SlashCommandCreate{
	Name:        "achievements",
	Description: "Browse achievements and your unlocks",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "search",
			Description: "Filter achievements by name",
			Required:    false,
		},
	},
}

type achievementSource []*models.AchievementDefinition

func (s achievementSource) String(i int) string { return s[i].Name }
func (s achievementSource) Len() int            { return len(s) }

func AchievementsHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.User().ID.String()

		defs, err := b.Achievements.Definitions(ctx)
		if err != nil {
			slog.Error("Failed to load achievement definitions",
				slog.String("type", "cmd"),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to load achievements. Please try again later.")
		}

		unlocks, err := b.Achievements.Unlocked(ctx, userID)
		if err != nil {
			slog.Error("Failed to load unlocks",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to load achievements. Please try again later.")
		}
		unlocked := make(map[string]bool, len(unlocks))
		for _, u := range unlocks {
			unlocked[u.AchievementID] = true
		}

		if query, ok := e.SlashCommandInteractionData().OptString("search"); ok && query != "" {
			matches := fuzzy.FindFrom(query, achievementSource(defs))
			filtered := make([]*models.AchievementDefinition, len(matches))
			for i, match := range matches {
				filtered[i] = defs[match.Index]
			}
			defs = filtered
		}

		if len(defs) == 0 {
			return createErrorEmbed(e, "No achievements match your search.")
		}

		totalPages := int(math.Ceil(float64(len(defs)) / float64(achievementsPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * achievementsPerPage
				endIdx := min(startIdx+achievementsPerPage, len(defs))

				embed.
					SetTitle(fmt.Sprintf("🏅 Achievements — %d/%d unlocked", len(unlocks), len(defs))).
					SetColor(embedColor).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")

				for _, def := range defs[startIdx:endIdx] {
					marker := "🔒"
					if unlocked[def.AchievementID] {
						marker = def.Emoji
					}
					embed.AddField(
						fmt.Sprintf("%s %s", marker, def.Name),
						fmt.Sprintf("%s\nReward: %s", def.Description, achievementReward(def)),
						false)
				}
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func achievementReward(def *models.AchievementDefinition) string {
	switch {
	case def.RewardXP > 0 && def.RewardCoins > 0:
		return fmt.Sprintf("%d XP, %d coins", def.RewardXP, def.RewardCoins)
	case def.RewardXP > 0:
		return fmt.Sprintf("%d XP", def.RewardXP)
	case def.RewardCoins > 0:
		return fmt.Sprintf("%d coins", def.RewardCoins)
	}
	return "bragging rights"
}
