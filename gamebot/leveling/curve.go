package leveling

import "math"

// Curve converts between levels and cumulative XP. All methods are pure;
// a Curve is safe to share.
type Curve struct {
	cfg Config
}

func NewCurve(cfg Config) (Curve, error) {
	if err := cfg.Validate(); err != nil {
		return Curve{}, err
	}
	return Curve{cfg: cfg}, nil
}

func (c Curve) MaxLevel() int {
	return c.cfg.MaxLevel
}

// XPForLevel returns the XP needed to advance from level to level+1.
func (c Curve) XPForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(float64(c.cfg.BaseXP) * math.Pow(c.cfg.Multiplier, float64(level-1)))
}

// Decompose derives (level, remainder) from a cumulative XP total,
// walking up from level 1.
func (c Curve) Decompose(totalXP int64) (level int, xp int64) {
	if totalXP < 0 {
		totalXP = 0
	}
	level = 1
	xp = totalXP
	for level < c.cfg.MaxLevel {
		required := c.XPForLevel(level)
		if xp < required {
			break
		}
		xp -= required
		level++
	}
	return level, xp
}

// Compose reconstructs the cumulative XP represented by (level, remainder).
func (c Curve) Compose(level int, xp int64) int64 {
	if level < 1 {
		level = 1
	}
	total := xp
	for l := 1; l < level; l++ {
		total += c.XPForLevel(l)
	}
	return total
}
