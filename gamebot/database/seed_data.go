package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
)

// InitializeSeedData inserts the built-in quest and achievement definitions.
// Both are skipped when any rows already exist, so operator edits survive
// restarts.
func (db *DB) InitializeSeedData(ctx context.Context) error {
	if err := db.seedQuestDefinitions(ctx); err != nil {
		return fmt.Errorf("failed to seed quest definitions: %w", err)
	}
	if err := db.seedAchievementDefinitions(ctx); err != nil {
		return fmt.Errorf("failed to seed achievement definitions: %w", err)
	}
	return nil
}

func (db *DB) seedQuestDefinitions(ctx context.Context) error {
	var count int
	err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quest_definitions").Scan(&count)
	if err == nil && count > 0 {
		slog.Info("Quest data already initialized, skipping",
			slog.String("type", "db"),
			slog.Int("existing_quests", count))
		return nil
	}

	slog.Info("Initializing quest definitions...", slog.String("type", "db"))

	defs := []models.QuestDefinition{
		{
			QuestID:     "daily_chatterbox",
			Name:        "Chatterbox",
			Description: "Send 25 messages",
			Type:        models.QuestTypeDaily,
			Category:    models.QuestCategoryMessages,
			Target:      25,
			RewardXP:    50,
			RewardCoins: 100,
		},
		{
			QuestID:     "daily_gambler",
			Name:        "Feeling Lucky",
			Description: "Play 3 games",
			Type:        models.QuestTypeDaily,
			Category:    models.QuestCategoryGamesPlayed,
			Target:      3,
			RewardXP:    40,
			RewardCoins: 150,
		},
		{
			QuestID:     "daily_winner",
			Name:        "Winner Winner",
			Description: "Win a game",
			Type:        models.QuestTypeDaily,
			Category:    models.QuestCategoryGamesWon,
			Target:      1,
			RewardXP:    60,
			RewardCoins: 200,
		},
		{
			QuestID:     "daily_regular",
			Name:        "Clocking In",
			Description: "Claim your daily reward",
			Type:        models.QuestTypeDaily,
			Category:    models.QuestCategoryDailyClaims,
			Target:      1,
			RewardXP:    25,
			RewardCoins: 50,
		},
		{
			QuestID:     "daily_voice",
			Name:        "Say It Out Loud",
			Description: "Spend 30 minutes in voice channels",
			Type:        models.QuestTypeDaily,
			Category:    models.QuestCategoryVoice,
			Target:      30,
			RewardXP:    50,
			RewardCoins: 100,
		},
		{
			QuestID:     "weekly_essayist",
			Name:        "Essayist",
			Description: "Send 200 messages this week",
			Type:        models.QuestTypeWeekly,
			Category:    models.QuestCategoryMessages,
			Target:      200,
			RewardXP:    300,
			RewardCoins: 750,
		},
		{
			QuestID:     "weekly_high_roller",
			Name:        "High Roller",
			Description: "Earn 5000 coins from games this week",
			Type:        models.QuestTypeWeekly,
			Category:    models.QuestCategoryCoinsEarned,
			Target:      5000,
			RewardXP:    400,
			RewardCoins: 1000,
		},
		{
			QuestID:     "weekly_champion",
			Name:        "Champion",
			Description: "Win 10 games this week",
			Type:        models.QuestTypeWeekly,
			Category:    models.QuestCategoryGamesWon,
			Target:      10,
			RewardXP:    500,
			RewardCoins: 1500,
		},
		{
			QuestID:     "weekly_devoted",
			Name:        "Devoted",
			Description: "Claim your daily reward 5 times this week",
			Type:        models.QuestTypeWeekly,
			Category:    models.QuestCategoryDailyClaims,
			Target:      5,
			RewardXP:    350,
			RewardCoins: 800,
		},
	}

	if _, err := db.bunDB.NewInsert().Model(&defs).Exec(ctx); err != nil {
		return err
	}

	slog.Info("Quest definitions initialized",
		slog.String("type", "db"),
		slog.Int("count", len(defs)))
	return nil
}

func (db *DB) seedAchievementDefinitions(ctx context.Context) error {
	var count int
	err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM achievement_definitions").Scan(&count)
	if err == nil && count > 0 {
		slog.Info("Achievement data already initialized, skipping",
			slog.String("type", "db"),
			slog.Int("existing_achievements", count))
		return nil
	}

	slog.Info("Initializing achievement definitions...", slog.String("type", "db"))

	defs := []models.AchievementDefinition{
		{
			AchievementID:   "first_words",
			Name:            "First Words",
			Description:     "Send your first message",
			Emoji:           "💬",
			RequirementType: models.RequirementMessages,
			Requirement:     1,
			RewardXP:        10,
		},
		{
			AchievementID:   "conversationalist",
			Name:            "Conversationalist",
			Description:     "Send 1,000 messages",
			Emoji:           "🗣️",
			RequirementType: models.RequirementMessages,
			Requirement:     1000,
			RewardXP:        200,
			RewardCoins:     500,
		},
		{
			AchievementID:   "level_10",
			Name:            "Double Digits",
			Description:     "Reach level 10",
			Emoji:           "🔟",
			RequirementType: models.RequirementLevel,
			Requirement:     10,
			RewardCoins:     1000,
		},
		{
			AchievementID:   "level_50",
			Name:            "Halfway There",
			Description:     "Reach level 50",
			Emoji:           "🌟",
			RequirementType: models.RequirementLevel,
			Requirement:     50,
			RewardCoins:     10000,
		},
		{
			AchievementID:   "first_win",
			Name:            "Beginner's Luck",
			Description:     "Win your first game",
			Emoji:           "🍀",
			RequirementType: models.RequirementGamesWon,
			Requirement:     1,
			RewardXP:        25,
			RewardCoins:     100,
		},
		{
			AchievementID:   "game_addict",
			Name:            "Game Addict",
			Description:     "Play 500 games",
			Emoji:           "🎮",
			RequirementType: models.RequirementGamesPlayed,
			Requirement:     500,
			RewardXP:        500,
			RewardCoins:     2500,
		},
		{
			AchievementID:   "week_streak",
			Name:            "Creature of Habit",
			Description:     "Hold a 7 day daily streak",
			Emoji:           "🔥",
			RequirementType: models.RequirementStreak,
			Requirement:     7,
			RewardXP:        150,
			RewardCoins:     700,
		},
		{
			AchievementID:   "rich",
			Name:            "Money Bags",
			Description:     "Hold 100,000 coins at once",
			Emoji:           "💰",
			RequirementType: models.RequirementCoins,
			Requirement:     100000,
			RewardXP:        300,
		},
		{
			AchievementID:   "voice_marathon",
			Name:            "Marathon Speaker",
			Description:     "Spend 1,000 minutes in voice channels",
			Emoji:           "🎙️",
			RequirementType: models.RequirementVoice,
			Requirement:     1000,
			RewardXP:        400,
			RewardCoins:     1000,
		},
		{
			AchievementID:   "loyal_claimer",
			Name:            "Loyal Claimer",
			Description:     "Claim 30 daily rewards",
			Emoji:           "📅",
			RequirementType: models.RequirementDailyClaims,
			Requirement:     30,
			RewardXP:        250,
			RewardCoins:     1500,
		},
	}

	if _, err := db.bunDB.NewInsert().Model(&defs).Exec(ctx); err != nil {
		return err
	}

	slog.Info("Achievement definitions initialized",
		slog.String("type", "db"),
		slog.Int("count", len(defs)))
	return nil
}
