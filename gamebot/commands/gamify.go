package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Gamify = discord.SlashCommandCreate{
	Name:        "gamify",
	Description: "Administer the progression engine",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "recalculate",
			Description: "Re-derive every user's level from lifetime XP",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reset-user",
			Description: "Wipe a user's ledger row",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The user to reset",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "backup",
			Description: "Export all ledgers to object storage",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "tables",
			Description: "Show row counts for the engine tables",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "rows",
			Description: "Peek at rows in an engine table",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "table",
					Description: "Table to inspect",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "limit",
					Description: "How many rows to show (max 50)",
					Required:    false,
					MinValue:    intPtr(1),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "offset",
					Description: "Rows to skip",
					Required:    false,
					MinValue:    intPtr(0),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set-cooldown",
			Description: "Override a game cooldown for this server",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "game",
					Description: "Game type, or \"all\" for every game",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "milliseconds",
					Description: "Cooldown duration in milliseconds",
					Required:    true,
					MinValue:    intPtr(0),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set-channels",
			Description: "Route engine announcements for this server",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "level-up",
					Description: "Channel for level-up announcements",
					Required:    false,
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "log",
					Description: "Channel for engine log messages",
					Required:    false,
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "games",
					Description: "Channel for game result messages",
					Required:    false,
				},
			},
		},
	},
}

func GamifyHandler(b *gamebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		member := e.Member()
		if member == nil || !member.Permissions.Has(discord.PermissionAdministrator) {
			return createErrorEmbed(e, "You need administrator permissions to use this command.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "recalculate":
			return handleRecalculate(ctx, b, e)
		case "reset-user":
			return handleResetUser(ctx, b, e)
		case "backup":
			return handleBackup(b, e)
		case "tables":
			return handleTables(ctx, b, e)
		case "rows":
			return handleRows(ctx, b, e)
		case "set-cooldown":
			return handleSetCooldown(ctx, b, e)
		case "set-channels":
			return handleSetChannels(ctx, b, e)
		}
		return createErrorEmbed(e, "Unknown subcommand.")
	}
}

func handleRecalculate(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	updated, err := b.Ledger.Recalculate(ctx)
	if err != nil {
		slog.Error("Recalculation failed",
			slog.String("type", "cmd"),
			slog.Any("error", err))
		return createErrorEmbed(e, fmt.Sprintf("Recalculation aborted after %d users: %v", updated, err))
	}
	return createSuccessEmbed(e, "Recalculation Complete",
		fmt.Sprintf("Re-derived levels for **%d** users.", updated))
}

func handleResetUser(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	target := e.SlashCommandInteractionData().User("user")
	if err := b.Ledger.ResetUser(ctx, target.ID.String()); err != nil {
		slog.Error("Failed to reset user",
			slog.String("type", "cmd"),
			slog.String("discord_id", target.ID.String()),
			slog.Any("error", err))
		return createErrorEmbed(e, "Failed to reset the user. Please try again later.")
	}
	return createSuccessEmbed(e, "User Reset",
		fmt.Sprintf("Wiped the ledger for <@%s>. Their next action starts fresh.", target.ID))
}

func handleBackup(b *gamebot.Bot, e *handler.CommandEvent) error {
	if b.Backup == nil {
		return createErrorEmbed(e, "Backups are not configured.")
	}
	if err := e.DeferCreateMessage(false); err != nil {
		return err
	}

	// The export walks every user; give it its own generous deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	exported, err := b.Backup.ExportLedger(ctx)
	if err != nil {
		slog.Error("Ledger export failed",
			slog.String("type", "cmd"),
			slog.Any("error", err))
		_, uerr := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Description: "Export failed. Check the logs for details.",
				Color:       errorColor,
			}},
		})
		return uerr
	}

	_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Title:       "Backup Complete",
			Description: fmt.Sprintf("Exported **%d** user ledgers to object storage.", exported),
			Color:       successColor,
		}},
	})
	return err
}

func handleTables(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	var lines []string
	for _, table := range database.InspectableTables() {
		count, err := b.DB.TableCount(ctx, table)
		if err != nil {
			slog.Error("Failed to count table",
				slog.String("type", "cmd"),
				slog.String("table", table),
				slog.Any("error", err))
			return createErrorEmbed(e, "Failed to inspect the database. Please try again later.")
		}
		lines = append(lines, fmt.Sprintf("`%s` — %d rows", table, count))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("📊 Engine Tables").
		SetDescription(strings.Join(lines, "\n")).
		SetColor(embedColor).
		Build()
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func handleRows(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	table := strings.ToLower(data.String("table"))

	limit := 10
	if v, ok := data.OptInt("limit"); ok {
		limit = v
	}
	offset := 0
	if v, ok := data.OptInt("offset"); ok {
		offset = v
	}

	rows, err := b.DB.EnumerateRows(ctx, table, limit, offset)
	if err != nil {
		return createErrorEmbed(e, fmt.Sprintf("Failed to inspect `%s`: %v", table, err))
	}
	if len(rows) == 0 {
		return createErrorEmbed(e, fmt.Sprintf("No rows in `%s` at offset %d.", table, offset))
	}

	var sb strings.Builder
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("**%d.** ", offset+i+1))
		first := true
		for _, col := range []string{"id", "discord_id", "user_id", "guild_id", "quest_id", "achievement_id", "game_type", "action"} {
			if v, ok := row[col]; ok && v != nil {
				if !first {
					sb.WriteString(" · ")
				}
				sb.WriteString(fmt.Sprintf("%s=`%v`", col, v))
				first = false
			}
		}
		sb.WriteString("\n")
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🔎 %s", table)).
		SetDescription(sb.String()).
		SetColor(embedColor).
		SetFooter(fmt.Sprintf("offset %d, limit %d", offset, limit), "").
		Build()
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func handleSetCooldown(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	if e.GuildID() == nil {
		return createErrorEmbed(e, "This command only works in a server.")
	}

	data := e.SlashCommandInteractionData()
	game := strings.ToLower(data.String("game"))
	duration := time.Duration(data.Int("milliseconds")) * time.Millisecond

	err := b.GuildRepository.SetCooldownOverride(ctx, e.GuildID().String(), game, duration)
	if err != nil {
		slog.Error("Failed to set cooldown override",
			slog.String("type", "cmd"),
			slog.String("guild_id", e.GuildID().String()),
			slog.String("game", game),
			slog.Any("error", err))
		return createErrorEmbed(e, "Failed to save the cooldown. Please try again later.")
	}

	scope := fmt.Sprintf("`%s`", game)
	if game == models.GameTypeAll {
		scope = "every game"
	}
	return createSuccessEmbed(e, "Cooldown Updated",
		fmt.Sprintf("Cooldown for %s is now **%s** in this server.", scope, duration))
}

func handleSetChannels(ctx context.Context, b *gamebot.Bot, e *handler.CommandEvent) error {
	if e.GuildID() == nil {
		return createErrorEmbed(e, "This command only works in a server.")
	}
	guildID := e.GuildID().String()

	settings, err := b.GuildRepository.GetSettings(ctx, guildID)
	if err != nil {
		return createErrorEmbed(e, "Failed to load server settings. Please try again later.")
	}
	if settings == nil {
		settings = &models.GuildSettings{GuildID: guildID}
	}

	data := e.SlashCommandInteractionData()
	var changed []string
	if ch, ok := data.OptChannel("level-up"); ok {
		settings.LevelUpChannelID = ch.ID.String()
		changed = append(changed, fmt.Sprintf("level-ups → <#%s>", ch.ID))
	}
	if ch, ok := data.OptChannel("log"); ok {
		settings.LogChannelID = ch.ID.String()
		changed = append(changed, fmt.Sprintf("log → <#%s>", ch.ID))
	}
	if ch, ok := data.OptChannel("games"); ok {
		settings.GameChannelID = ch.ID.String()
		changed = append(changed, fmt.Sprintf("games → <#%s>", ch.ID))
	}
	if len(changed) == 0 {
		return createErrorEmbed(e, "Pick at least one channel to set.")
	}

	if err := b.GuildRepository.UpsertSettings(ctx, settings); err != nil {
		slog.Error("Failed to save guild settings",
			slog.String("type", "cmd"),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return createErrorEmbed(e, "Failed to save server settings. Please try again later.")
	}

	return createSuccessEmbed(e, "Channels Updated", strings.Join(changed, "\n"))
}
