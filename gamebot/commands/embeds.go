package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	errorColor   = 0xFF0000
	successColor = 0x00FF00
	infoColor    = 0x0099FF
	embedColor   = 0x2B2D31
)

func createErrorEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       errorColor,
		}},
	})
}

func createSuccessEmbed(event *handler.CommandEvent, title, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: message,
			Color:       successColor,
		}},
	})
}
