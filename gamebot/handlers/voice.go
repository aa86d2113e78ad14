package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/disgoorg/disgo/bot"
	disgoevents "github.com/disgoorg/disgo/events"
)

// VoiceActivityHandler accrues voice minutes: a session starts when a user
// joins any voice channel and is settled when they fully disconnect.
// Sessions live in memory only; a restart forfeits in-flight sessions.
func VoiceActivityHandler(b *gamebot.Bot) bot.EventListener {
	tracker := &voiceTracker{sessions: map[string]time.Time{}}

	return bot.NewListenerFunc(func(e *disgoevents.GuildVoiceStateUpdate) {
		userID := e.VoiceState.UserID.String()
		guildID := e.VoiceState.GuildID.String()

		if e.VoiceState.ChannelID != nil {
			tracker.start(userID)
			return
		}

		minutes := tracker.settle(userID)
		if minutes <= 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := b.Ledger.Snapshot(ctx, userID)
		if err != nil {
			slog.Error("Failed to load ledger for voice activity",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return
		}

		total := user.VoiceMinutes + minutes
		if err := b.Ledger.Update(ctx, userID, models.UserUpdate{VoiceMinutes: &total}); err != nil {
			slog.Error("Failed to credit voice minutes",
				slog.String("type", "engine"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return
		}

		if _, err := b.Quests.UpdateProgress(ctx, userID, guildID, models.QuestCategoryVoice, minutes); err != nil {
			slog.Error("Failed to update voice quests",
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

type voiceTracker struct {
	mu       sync.Mutex
	sessions map[string]time.Time
}

// start is idempotent: channel moves keep the original join time.
func (t *voiceTracker) start(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[userID]; !ok {
		t.sessions[userID] = time.Now()
	}
}

func (t *voiceTracker) settle(userID string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	joined, ok := t.sessions[userID]
	if !ok {
		return 0
	}
	delete(t.sessions, userID)
	return int64(time.Since(joined) / time.Minute)
}
