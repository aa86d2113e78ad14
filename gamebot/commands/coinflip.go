package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/gamestats"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const coinflipGame = "coinflip"

var Coinflip = discord.SlashCommandCreate{
	Name:        "coinflip",
	Description: "Bet coins on a coin flip",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "bet",
			Description: "How many coins to wager",
			Required:    true,
			MinValue:    intPtr(1),
		},
		discord.ApplicationCommandOptionString{
			Name:        "side",
			Description: "Your call",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Heads", Value: "heads"},
				{Name: "Tails", Value: "tails"},
			},
		},
	},
}

func CoinflipHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.User().ID.String()
		guildID := ""
		if e.GuildID() != nil {
			guildID = e.GuildID().String()
		}

		data := e.SlashCommandInteractionData()
		bet := int64(data.Int("bet"))
		side := data.String("side")

		cooldown, err := b.Cooldowns.GameCooldown(ctx, guildID, coinflipGame)
		if err != nil {
			slog.Error("Failed to resolve game cooldown",
				slog.String("type", "cmd"),
				slog.String("guild_id", guildID),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to start the game. Please try again later.")
		}

		status, err := b.Cooldowns.Check(ctx, userID, coinflipGame)
		if err != nil {
			return createErrorEmbed(e, "Failed to start the game. Please try again later.")
		}
		if status.Used && status.Elapsed < cooldown {
			remaining := (cooldown - status.Elapsed).Round(time.Second)
			return createErrorEmbed(e, fmt.Sprintf("The coin is still spinning! Try again in %s.", remaining))
		}

		if err := b.Ledger.RemoveCoins(ctx, userID, bet); err != nil {
			var vErr *ledger.ValidationError
			switch {
			case errors.Is(err, repositories.ErrInsufficientFunds):
				return createErrorEmbed(e, "You don't have enough coins for that bet.")
			case errors.As(err, &vErr):
				return createErrorEmbed(e, "That bet isn't valid.")
			}
			slog.Error("Failed to debit bet",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to start the game. Please try again later.")
		}

		landed := "tails"
		if rand.Intn(2) == 0 {
			landed = "heads"
		}
		won := landed == side

		var payout int64
		if won {
			payout = bet * 2
			if err := b.Ledger.AddCoins(ctx, userID, payout); err != nil {
				slog.Error("Failed to credit payout",
					slog.String("type", "cmd"),
					slog.String("discord_id", userID),
					slog.Any("error", err))
				return createErrorEmbed(e, "Something went wrong paying out. Please contact an admin.")
			}
		}

		if _, err := b.GameStats.RecordResult(ctx, userID, guildID, gamestats.Result{
			GameType: coinflipGame,
			Won:      won,
			Bet:      bet,
			Payout:   payout,
		}); err != nil {
			slog.Error("Failed to record game result",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
		}

		if err := b.Cooldowns.Record(ctx, userID, coinflipGame); err != nil {
			slog.Error("Failed to record game cooldown",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
		}

		advanceGameQuests(ctx, b, userID, guildID, won, payout)

		if _, err := b.Achievements.CheckAchievements(ctx, userID, guildID); err != nil {
			slog.Error("Failed to check achievements",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.Any("error", err))
		}

		if won {
			return createSuccessEmbed(e, "🪙 It's "+landed+"!",
				fmt.Sprintf("You called it and won **%d** coins!", payout))
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🪙 It's " + landed + "!",
				Description: fmt.Sprintf("You called %s and lost **%d** coins.", side, bet),
				Color:       errorColor,
			}},
		})
	}
}

func advanceGameQuests(ctx context.Context, b *gamebot.Bot, userID, guildID string, won bool, payout int64) {
	report := func(category string, err error) {
		if err != nil {
			slog.Error("Failed to advance game quests",
				slog.String("type", "cmd"),
				slog.String("discord_id", userID),
				slog.String("category", category),
				slog.Any("error", err))
		}
	}

	_, err := b.Quests.UpdateProgress(ctx, userID, guildID, models.QuestCategoryGamesPlayed, 1)
	report(models.QuestCategoryGamesPlayed, err)

	if won {
		_, err = b.Quests.UpdateProgress(ctx, userID, guildID, models.QuestCategoryGamesWon, 1)
		report(models.QuestCategoryGamesWon, err)

		_, err = b.Quests.UpdateProgress(ctx, userID, guildID, models.QuestCategoryCoinsEarned, payout)
		report(models.QuestCategoryCoinsEarned, err)
	}
}

func intPtr(v int) *int {
	return &v
}
