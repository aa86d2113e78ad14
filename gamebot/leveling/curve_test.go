package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurve(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid defaults",
			cfg:  DefaultConfig(),
		},
		{
			name:    "zero base xp",
			cfg:     Config{BaseXP: 0, Multiplier: 1.5, MaxLevel: 100},
			wantErr: true,
		},
		{
			name:    "multiplier below one",
			cfg:     Config{BaseXP: 100, Multiplier: 0.9, MaxLevel: 100},
			wantErr: true,
		},
		{
			name:    "zero max level",
			cfg:     Config{BaseXP: 100, Multiplier: 1.5, MaxLevel: 0},
			wantErr: true,
		},
		{
			name: "flat curve is allowed",
			cfg:  Config{BaseXP: 100, Multiplier: 1.0, MaxLevel: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurve(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurve_XPForLevel(t *testing.T) {
	curve, err := NewCurve(Config{BaseXP: 100, Multiplier: 1.5, MaxLevel: 100})
	require.NoError(t, err)

	assert.Equal(t, int64(100), curve.XPForLevel(1))
	assert.Equal(t, int64(150), curve.XPForLevel(2))
	assert.Equal(t, int64(225), curve.XPForLevel(3))
	// Fractional products truncate toward zero.
	assert.Equal(t, int64(337), curve.XPForLevel(4))
}

func TestCurve_Decompose(t *testing.T) {
	curve, err := NewCurve(Config{BaseXP: 100, Multiplier: 1.5, MaxLevel: 100})
	require.NoError(t, err)

	tests := []struct {
		name      string
		totalXP   int64
		wantLevel int
		wantXP    int64
	}{
		{"zero", 0, 1, 0},
		{"below first threshold", 99, 1, 99},
		{"exactly first threshold", 100, 2, 0},
		{"into second level", 120, 2, 20},
		{"two thresholds and change", 260, 3, 10},
		{"negative clamps to floor", -50, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, xp := curve.Decompose(tt.totalXP)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantXP, xp)
		})
	}
}

func TestCurve_DecomposeStopsAtMaxLevel(t *testing.T) {
	curve, err := NewCurve(Config{BaseXP: 100, Multiplier: 1.0, MaxLevel: 3})
	require.NoError(t, err)

	// 100 per level, capped at 3: everything past the cap stays as remainder.
	level, xp := curve.Decompose(1000)
	assert.Equal(t, 3, level)
	assert.Equal(t, int64(800), xp)
}

func TestCurve_ComposeRoundTrips(t *testing.T) {
	curve, err := NewCurve(Config{BaseXP: 100, Multiplier: 1.5, MaxLevel: 100})
	require.NoError(t, err)

	for _, totalXP := range []int64{0, 1, 99, 100, 260, 5000, 123456} {
		level, xp := curve.Decompose(totalXP)
		assert.Equal(t, totalXP, curve.Compose(level, xp), "total xp %d", totalXP)
	}
}
