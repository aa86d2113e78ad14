package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Quests = discord.SlashCommandCreate{
	Name:        "quests",
	Description: "View and refresh your quests",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show your active quests",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "assign",
			Description: "Roll a fresh quest set for a period",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "period",
					Description: "Which quest period to roll",
					Required:    true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Daily", Value: models.QuestTypeDaily},
						{Name: "Weekly", Value: models.QuestTypeWeekly},
					},
				},
			},
		},
	},
}

func QuestsHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "assign":
			return handleQuestAssign(ctx, b, e, data.String("period"))
		default:
			return handleQuestList(ctx, b, e)
		}
	}
}

func handleQuestList(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	active, err := b.Quests.ActiveQuests(ctx, e.User().ID.String())
	if err != nil {
		slog.Error("Failed to load quests",
			slog.String("type", "cmd"),
			slog.String("discord_id", e.User().ID.String()),
			slog.Any("error", err))
		return createErrorEmbed(e, "Failed to load your quests. Please try again later.")
	}
	if len(active) == 0 {
		return createErrorEmbed(e, "You have no active quests. Use `/quests assign` to roll a set!")
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("📜 Your Quests").
		SetColor(embedColor)

	for _, q := range active {
		def := q.QuestDefinition
		embed.AddField(
			fmt.Sprintf("%s %s", questMarker(q), def.Name),
			fmt.Sprintf("%s\n%s %d/%d • %s", def.Description,
				progressBar(q.Progress, def.Target), q.Progress, def.Target,
				questReward(def)),
			false)
	}

	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed.Build()}})
}

func handleQuestAssign(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent, period string) error {
	created, err := b.Quests.AssignQuests(ctx, e.User().ID.String(), period)
	if err != nil {
		slog.Error("Failed to assign quests",
			slog.String("type", "cmd"),
			slog.String("discord_id", e.User().ID.String()),
			slog.String("period", period),
			slog.Any("error", err))
		return createErrorEmbed(e, "Failed to assign quests. Please try again later.")
	}
	if len(created) == 0 {
		return createErrorEmbed(e, fmt.Sprintf("Your %s quests are still running. Finish them first!", period))
	}

	var names []string
	for _, q := range created {
		names = append(names, "• "+q.QuestDefinition.Name)
	}
	return createSuccessEmbed(e, fmt.Sprintf("New %s quests!", period), strings.Join(names, "\n"))
}

func questMarker(q *models.UserQuest) string {
	if q.Completed {
		return "✅"
	}
	return "🔸"
}

func questReward(def *models.QuestDefinition) string {
	parts := make([]string, 0, 2)
	if def.RewardXP > 0 {
		parts = append(parts, fmt.Sprintf("%d XP", def.RewardXP))
	}
	if def.RewardCoins > 0 {
		parts = append(parts, fmt.Sprintf("%d coins", def.RewardCoins))
	}
	if len(parts) == 0 {
		return "no reward"
	}
	return strings.Join(parts, ", ")
}

func progressBar(progress, target int64) string {
	const width = 10
	if target <= 0 {
		return strings.Repeat("▰", width)
	}
	filled := int(progress * width / target)
	if filled > width {
		filled = width
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}
