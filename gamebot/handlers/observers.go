package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// RegisterObservers subscribes the presentation observers. These run on the
// synchronous dispatch path, so each keeps its work to a single bounded
// channel message.
func RegisterObservers(b *gamebot.Bot) {
	b.Dispatcher.Subscribe(levelUpObserver(b))
	b.Dispatcher.Subscribe(achievementObserver(b))
	b.Dispatcher.Subscribe(gameLogObserver(b))
}

func levelUpObserver(b *gamebot.Bot) events.Handler {
	return func(ev events.Event) error {
		if ev.Type != events.TypeLevelUp {
			return nil
		}
		payload, ok := ev.Payload.(events.LevelUpPayload)
		if !ok {
			return nil
		}

		channelID, err := routedChannel(b, ev.GuildID, func(levelUp, _, _ string) string { return levelUp })
		if err != nil || channelID == 0 {
			return err
		}

		msg := fmt.Sprintf("🎉 <@%s> reached level **%d**!", ev.UserID, payload.NewLevel)
		return sendTo(b, channelID, msg)
	}
}

func achievementObserver(b *gamebot.Bot) events.Handler {
	return func(ev events.Event) error {
		if ev.Type != events.TypeAchievementUnlocked {
			return nil
		}
		payload, ok := ev.Payload.(events.AchievementPayload)
		if !ok {
			return nil
		}

		channelID, err := routedChannel(b, ev.GuildID, func(levelUp, log, _ string) string {
			if levelUp != "" {
				return levelUp
			}
			return log
		})
		if err != nil || channelID == 0 {
			return err
		}

		msg := fmt.Sprintf("%s <@%s> unlocked **%s**!", payload.Emoji, ev.UserID, payload.Name)
		return sendTo(b, channelID, msg)
	}
}

func gameLogObserver(b *gamebot.Bot) events.Handler {
	return func(ev events.Event) error {
		if ev.Type != events.TypeGameResult {
			return nil
		}
		payload, ok := ev.Payload.(events.GameResultPayload)
		if !ok {
			return nil
		}

		channelID, err := routedChannel(b, ev.GuildID, func(_, _, game string) string { return game })
		if err != nil || channelID == 0 {
			return err
		}

		outcome := "lost"
		if payload.Won {
			outcome = "won"
		} else if payload.Draw {
			outcome = "drew"
		}
		msg := fmt.Sprintf("🎲 <@%s> %s a game of %s (bet %d, payout %d)",
			ev.UserID, outcome, payload.GameType, payload.Bet, payload.Payout)
		return sendTo(b, channelID, msg)
	}
}

// routedChannel resolves the destination from guild settings; zero means
// the guild never configured one and the event is dropped silently.
func routedChannel(b *gamebot.Bot, guildID string, pick func(levelUp, log, game string) string) (snowflake.ID, error) {
	if guildID == "" {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	settings, err := b.GuildRepository.GetSettings(ctx, guildID)
	if err != nil {
		return 0, err
	}
	if settings == nil {
		return 0, nil
	}

	raw := pick(settings.LevelUpChannelID, settings.LogChannelID, settings.GameChannelID)
	if raw == "" {
		return 0, nil
	}
	return snowflake.Parse(raw)
}

func sendTo(b *gamebot.Bot, channelID snowflake.ID, content string) error {
	_, err := b.Client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		Build())
	return err
}
