package cooldowns

import (
	"context"
	"testing"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cooldownKey struct {
	userID, action string
}

type fakeCooldownRepo struct {
	rows map[cooldownKey]*models.Cooldown
}

func (f *fakeCooldownRepo) Get(_ context.Context, userID, action string) (*models.Cooldown, error) {
	if row, ok := f.rows[cooldownKey{userID, action}]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeCooldownRepo) Record(_ context.Context, userID, action string, usedAt time.Time) error {
	key := cooldownKey{userID, action}
	if row, ok := f.rows[key]; ok {
		row.LastUsed = usedAt
		row.Count++
		return nil
	}
	f.rows[key] = &models.Cooldown{UserID: userID, Action: action, LastUsed: usedAt, Count: 1}
	return nil
}

func (f *fakeCooldownRepo) Reset(_ context.Context, userID, action string) error {
	delete(f.rows, cooldownKey{userID, action})
	return nil
}

type overrideKey struct {
	guildID, gameType string
}

type fakeGuildRepo struct {
	repositories.GuildRepository
	overrides map[overrideKey]time.Duration
}

func (f *fakeGuildRepo) CooldownOverride(_ context.Context, guildID, gameType string) (time.Duration, bool, error) {
	if d, ok := f.overrides[overrideKey{guildID, gameType}]; ok {
		return d, true, nil
	}
	if d, ok := f.overrides[overrideKey{guildID, models.GameTypeAll}]; ok {
		return d, true, nil
	}
	return 0, false, nil
}

func cooldownTestSetup() (*Manager, *fakeCooldownRepo, *fakeGuildRepo) {
	repo := &fakeCooldownRepo{rows: map[cooldownKey]*models.Cooldown{}}
	guilds := &fakeGuildRepo{overrides: map[overrideKey]time.Duration{}}
	return NewManager(repo, guilds, 5*time.Second), repo, guilds
}

func TestManager_CheckFirstUse(t *testing.T) {
	ctx := context.Background()
	m, _, _ := cooldownTestSetup()

	status, err := m.Check(ctx, "user1", "daily")
	require.NoError(t, err)
	assert.False(t, status.Used)
	assert.Zero(t, status.Elapsed)
	assert.Zero(t, status.Count)
}

func TestManager_RecordAndCheck(t *testing.T) {
	ctx := context.Background()
	m, _, _ := cooldownTestSetup()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	require.NoError(t, m.Record(ctx, "user1", "daily"))

	m.now = func() time.Time { return base.Add(90 * time.Second) }
	status, err := m.Check(ctx, "user1", "daily")
	require.NoError(t, err)
	assert.True(t, status.Used)
	assert.Equal(t, 90*time.Second, status.Elapsed)
	assert.Equal(t, int64(1), status.Count)

	// Checking never mutates the record.
	status2, err := m.Check(ctx, "user1", "daily")
	require.NoError(t, err)
	assert.Equal(t, status, status2)
}

func TestManager_RecordBumpsCount(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := cooldownTestSetup()

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Record(ctx, "user1", "coinflip"))
	}
	assert.Equal(t, int64(3), repo.rows[cooldownKey{"user1", "coinflip"}].Count)
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()
	m, _, _ := cooldownTestSetup()

	require.NoError(t, m.Record(ctx, "user1", "daily"))
	require.NoError(t, m.Reset(ctx, "user1", "daily"))

	status, err := m.Check(ctx, "user1", "daily")
	require.NoError(t, err)
	assert.False(t, status.Used)
}

func TestManager_GameCooldownResolution(t *testing.T) {
	ctx := context.Background()
	m, _, guilds := cooldownTestSetup()

	// No overrides: process default.
	d, err := m.GameCooldown(ctx, "guild1", "coinflip")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	// Wildcard override covers every game.
	guilds.overrides[overrideKey{"guild1", models.GameTypeAll}] = 10 * time.Second
	d, err = m.GameCooldown(ctx, "guild1", "coinflip")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	// A specific override beats the wildcard.
	guilds.overrides[overrideKey{"guild1", "coinflip"}] = 30 * time.Second
	d, err = m.GameCooldown(ctx, "guild1", "coinflip")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	// Other games still fall through to the wildcard.
	d, err = m.GameCooldown(ctx, "guild1", "blackjack")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	// Outside a guild, the default applies.
	d, err = m.GameCooldown(ctx, "", "coinflip")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestManager_Validation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := cooldownTestSetup()

	var vErr *ledger.ValidationError
	_, err := m.Check(ctx, "", "daily")
	assert.ErrorAs(t, err, &vErr)

	err = m.Record(ctx, "user1", "")
	assert.ErrorAs(t, err, &vErr)

	err = m.Reset(ctx, "", "")
	assert.ErrorAs(t, err, &vErr)
}
