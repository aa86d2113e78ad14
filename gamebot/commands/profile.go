package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "View your progression profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "View another member's profile",
			Required:    false,
		},
	},
}

func ProfileHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		target := e.User()
		if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = user
		}

		user, err := b.Ledger.Snapshot(ctx, target.ID.String())
		if err != nil {
			slog.Error("Failed to load profile",
				slog.String("type", "cmd"),
				slog.String("discord_id", target.ID.String()),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to load profile data. Please try again later.")
		}

		rank, err := b.Ledger.Rank(ctx, target.ID.String())
		if err != nil {
			rank = 0
		}

		needed := b.Ledger.Curve().XPForLevel(user.Level)

		var progress strings.Builder
		progress.WriteString(fmt.Sprintf("Level **%d** — %d/%d XP", user.Level, user.XP, needed))
		if rank > 0 {
			progress.WriteString(fmt.Sprintf(" (rank #%d)", rank))
		}

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("%s's Profile", target.Username)).
			SetDescription(progress.String()).
			SetColor(embedColor).
			AddField("💰 Coins", fmt.Sprintf("%d", user.Coins), true).
			AddField("🔥 Daily Streak", fmt.Sprintf("%d", user.Streak), true).
			AddField("⭐ Total XP", fmt.Sprintf("%d", user.TotalXPEarned), true).
			AddField("💬 Messages", fmt.Sprintf("%d", user.MessageCount), true).
			AddField("🎮 Games", fmt.Sprintf("%d played, %d won", user.TotalGamesPlayed, user.TotalGamesWon), true).
			AddField("🎙️ Voice", fmt.Sprintf("%d min", user.VoiceMinutes), true).
			SetFooter(fmt.Sprintf("Member since %s", user.CreatedAt.Format("Jan 2, 2006")), "").
			Build()

		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}
