package leveling

import "fmt"

type Config struct {
	// BaseXP is the requirement for level 1 -> 2.
	BaseXP int64 `toml:"base_xp"`
	// Multiplier scales the requirement per level.
	Multiplier float64 `toml:"multiplier"`
	// MaxLevel bounds level-up loops on degenerate data.
	MaxLevel int `toml:"max_level"`
}

// Validate rejects any parameter set that could yield a non-positive or
// decreasing threshold.
func (c Config) Validate() error {
	if c.BaseXP < 1 {
		return fmt.Errorf("base_xp must be >= 1, got %d", c.BaseXP)
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be >= 1, got %v", c.Multiplier)
	}
	if c.MaxLevel < 1 {
		return fmt.Errorf("max_level must be >= 1, got %d", c.MaxLevel)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		BaseXP:     100,
		Multiplier: 1.5,
		MaxLevel:   100,
	}
}
