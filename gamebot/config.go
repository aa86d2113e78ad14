package gamebot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/leveling"
	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Bot       BotConfig       `toml:"bot"`
	DB        DBConfig        `toml:"db"`
	Leveling  leveling.Config `toml:"leveling"`
	Quests    QuestConfig     `toml:"quests"`
	Cooldowns CooldownConfig  `toml:"cooldowns"`
	Spaces    SpacesConfig    `toml:"spaces"`
	Mongo     MongoConfig     `toml:"mongo"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type QuestConfig struct {
	DailyCount  int `toml:"daily_count"`
	WeeklyCount int `toml:"weekly_count"`
}

type CooldownConfig struct {
	// DefaultGameMS applies when a guild has no override, wildcard included.
	DefaultGameMS int64 `toml:"default_game_ms"`
	DailyMS       int64 `toml:"daily_ms"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

func (c *Config) applyDefaults() {
	if c.Leveling.BaseXP == 0 {
		c.Leveling.BaseXP = 100
	}
	if c.Leveling.Multiplier == 0 {
		c.Leveling.Multiplier = 1.5
	}
	if c.Leveling.MaxLevel == 0 {
		c.Leveling.MaxLevel = 100
	}
	if c.Quests.DailyCount == 0 {
		c.Quests.DailyCount = 3
	}
	if c.Quests.WeeklyCount == 0 {
		c.Quests.WeeklyCount = 3
	}
	if c.Cooldowns.DefaultGameMS == 0 {
		c.Cooldowns.DefaultGameMS = 5000
	}
	if c.Cooldowns.DailyMS == 0 {
		c.Cooldowns.DailyMS = (24 * time.Hour).Milliseconds()
	}
}

// Validate rejects configurations the engine cannot run on. Curve parameters
// are checked here so a degenerate curve never reaches the leveling code.
func (c *Config) Validate() error {
	if err := c.Leveling.Validate(); err != nil {
		return fmt.Errorf("invalid leveling config: %w", err)
	}
	if c.Quests.DailyCount < 0 || c.Quests.WeeklyCount < 0 {
		return fmt.Errorf("invalid quest config: counts must be >= 0")
	}
	if c.Cooldowns.DefaultGameMS < 0 || c.Cooldowns.DailyMS < 0 {
		return fmt.Errorf("invalid cooldown config: durations must be >= 0")
	}
	return nil
}
