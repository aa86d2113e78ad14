package ledger

import (
	"context"
	"sort"
	"testing"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/leveling"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo mirrors the store's documented semantics in memory.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) GetOrCreate(_ context.Context, discordID string) (*models.User, error) {
	if u, ok := f.users[discordID]; ok {
		clone := *u
		return &clone, nil
	}
	u := &models.User{DiscordID: discordID, Level: 1}
	f.users[discordID] = u
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) Update(_ context.Context, discordID string, upd models.UserUpdate) error {
	u := f.users[discordID]
	if upd.XP != nil {
		u.XP = *upd.XP
	}
	if upd.Level != nil {
		u.Level = *upd.Level
	}
	if upd.Coins != nil {
		u.Coins = *upd.Coins
	}
	if upd.Streak != nil {
		u.Streak = *upd.Streak
	}
	if upd.LastDaily != nil {
		u.LastDaily = *upd.LastDaily
	}
	if upd.VoiceMinutes != nil {
		u.VoiceMinutes = *upd.VoiceMinutes
	}
	if upd.MessageCount != nil {
		u.MessageCount = *upd.MessageCount
	}
	if upd.TotalXPEarned != nil {
		u.TotalXPEarned = *upd.TotalXPEarned
	}
	if upd.TotalCoinsEarned != nil {
		u.TotalCoinsEarned = *upd.TotalCoinsEarned
	}
	if upd.TotalGamesPlayed != nil {
		u.TotalGamesPlayed = *upd.TotalGamesPlayed
	}
	if upd.TotalGamesWon != nil {
		u.TotalGamesWon = *upd.TotalGamesWon
	}
	if upd.PurchaseCount != nil {
		u.PurchaseCount = *upd.PurchaseCount
	}
	if upd.DailyClaimCount != nil {
		u.DailyClaimCount = *upd.DailyClaimCount
	}
	return nil
}

func (f *fakeUserRepo) AddCoins(_ context.Context, discordID string, amount int64) error {
	u := f.users[discordID]
	u.Coins += amount
	if u.Coins < 0 {
		u.Coins = 0
	}
	if amount > 0 {
		u.TotalCoinsEarned += amount
	}
	return nil
}

func (f *fakeUserRepo) RemoveCoins(_ context.Context, discordID string, amount int64) error {
	u := f.users[discordID]
	if u.Coins < amount {
		return repositories.ErrInsufficientFunds
	}
	u.Coins -= amount
	return nil
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DiscordID < out[j].DiscordID })
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, discordID string) error {
	delete(f.users, discordID)
	return nil
}

func (f *fakeUserRepo) Leaderboard(_ context.Context, _ string, limit int) ([]*models.User, error) {
	out, _ := f.GetAll(context.Background())
	sort.Slice(out, func(i, j int) bool { return out[i].TotalXPEarned > out[j].TotalXPEarned })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) RankByTotalXP(_ context.Context, discordID string) (int, error) {
	u, ok := f.users[discordID]
	if !ok {
		return 0, nil
	}
	rank := 1
	for _, other := range f.users {
		if other.TotalXPEarned > u.TotalXPEarned {
			rank++
		}
	}
	return rank, nil
}

func newTestManager(t *testing.T) (*Manager, *fakeUserRepo, *events.Dispatcher) {
	t.Helper()
	curve, err := leveling.NewCurve(leveling.Config{BaseXP: 100, Multiplier: 1.5, MaxLevel: 100})
	require.NoError(t, err)
	repo := newFakeUserRepo()
	dispatcher := events.NewDispatcher()
	return NewManager(repo, curve, dispatcher), repo, dispatcher
}

func TestManager_AddXP(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	res, err := m.AddXP(ctx, "user1", "", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, int64(50), res.XP)
	assert.False(t, res.LeveledUp)

	// 50 + 260 = 310: crosses 100 and 150, leaving 60 into level 3.
	res, err = m.AddXP(ctx, "user1", "", 260)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Level)
	assert.Equal(t, int64(60), res.XP)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, int64(310), res.TotalXPEarned)
}

func TestManager_AddXPMultiLevelFromFresh(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	res, err := m.AddXP(ctx, "user1", "", 260)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Level)
	assert.Equal(t, int64(10), res.XP)
}

func TestManager_AddXPEmitsLevelUp(t *testing.T) {
	ctx := context.Background()
	m, _, dispatcher := newTestManager(t)

	var got []events.Event
	dispatcher.Subscribe(func(ev events.Event) error {
		got = append(got, ev)
		return nil
	})

	_, err := m.AddXP(ctx, "user1", "guild1", 50)
	require.NoError(t, err)
	assert.Empty(t, got, "no event without a level-up")

	_, err = m.AddXP(ctx, "user1", "guild1", 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.TypeLevelUp, got[0].Type)
	assert.Equal(t, "guild1", got[0].GuildID)
	payload := got[0].Payload.(events.LevelUpPayload)
	assert.Equal(t, 2, payload.NewLevel)
}

func TestManager_AddXPValidation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	var vErr *ValidationError
	_, err := m.AddXP(ctx, "", "", 10)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "user", vErr.Field)

	_, err = m.AddXP(ctx, "user1", "", -5)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)
}

func TestManager_RemoveXP(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	_, err := m.AddXP(ctx, "user1", "", 310)
	require.NoError(t, err)

	// 310 - 100 = 210 absolute XP, which decomposes to level 2 with 110 left.
	res, err := m.RemoveXP(ctx, "user1", 100)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, int64(110), res.XP)

	// Lifetime total never decreases.
	assert.Equal(t, int64(310), res.TotalXPEarned)
}

func TestManager_RemoveXPFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	_, err := m.AddXP(ctx, "user1", "", 50)
	require.NoError(t, err)

	res, err := m.RemoveXP(ctx, "user1", 9999)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, int64(0), res.XP)
}

func TestManager_Coins(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)

	require.NoError(t, m.AddCoins(ctx, "user1", 500))
	assert.Equal(t, int64(500), repo.users["user1"].Coins)
	assert.Equal(t, int64(500), repo.users["user1"].TotalCoinsEarned)

	err := m.RemoveCoins(ctx, "user1", 600)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(500), repo.users["user1"].Coins, "failed debit leaves balance untouched")

	require.NoError(t, m.RemoveCoins(ctx, "user1", 200))
	assert.Equal(t, int64(300), repo.users["user1"].Coins)
	assert.Equal(t, int64(500), repo.users["user1"].TotalCoinsEarned, "debits never reduce lifetime earnings")

	// Negative adjustments clamp at zero without touching lifetime totals.
	require.NoError(t, m.AddCoins(ctx, "user1", -1000))
	assert.Equal(t, int64(0), repo.users["user1"].Coins)
	assert.Equal(t, int64(500), repo.users["user1"].TotalCoinsEarned)
}

func TestManager_Recalculate(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)

	_, err := m.AddXP(ctx, "user1", "", 260)
	require.NoError(t, err)

	// Corrupt the derived pair; lifetime XP stays authoritative.
	level, xp := 7, int64(3)
	require.NoError(t, repo.Update(ctx, "user1", models.UserUpdate{Level: &level, XP: &xp}))

	updated, err := m.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 3, repo.users["user1"].Level)
	assert.Equal(t, int64(10), repo.users["user1"].XP)

	// A second pass finds nothing to fix.
	updated, err = m.Recalculate(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestManager_ResetUser(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t)

	_, err := m.AddXP(ctx, "user1", "", 500)
	require.NoError(t, err)

	require.NoError(t, m.ResetUser(ctx, "user1"))
	_, exists := repo.users["user1"]
	assert.False(t, exists)

	// Next touch starts from a zero-valued row.
	u, err := m.Snapshot(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Level)
	assert.Zero(t, u.TotalXPEarned)
}
