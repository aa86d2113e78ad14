package gamestats

import (
	"context"
	"testing"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/leveling"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	repositories.UserRepository
	users map[string]*models.User
}

func (f *fakeUserStore) GetOrCreate(_ context.Context, discordID string) (*models.User, error) {
	if u, ok := f.users[discordID]; ok {
		clone := *u
		return &clone, nil
	}
	u := &models.User{DiscordID: discordID, Level: 1}
	f.users[discordID] = u
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) Update(_ context.Context, discordID string, upd models.UserUpdate) error {
	u := f.users[discordID]
	if upd.TotalGamesPlayed != nil {
		u.TotalGamesPlayed = *upd.TotalGamesPlayed
	}
	if upd.TotalGamesWon != nil {
		u.TotalGamesWon = *upd.TotalGamesWon
	}
	return nil
}

type statsKey struct {
	userID, gameType string
}

type fakeStatsRepo struct {
	rows map[statsKey]*models.GameStats
}

func (f *fakeStatsRepo) GetOrCreate(_ context.Context, userID, gameType string) (*models.GameStats, error) {
	key := statsKey{userID, gameType}
	if row, ok := f.rows[key]; ok {
		clone := *row
		return &clone, nil
	}
	row := &models.GameStats{UserID: userID, GameType: gameType}
	f.rows[key] = row
	clone := *row
	return &clone, nil
}

func (f *fakeStatsRepo) Update(_ context.Context, stats *models.GameStats) error {
	clone := *stats
	f.rows[statsKey{stats.UserID, stats.GameType}] = &clone
	return nil
}

func (f *fakeStatsRepo) GetByUser(_ context.Context, userID string) ([]*models.GameStats, error) {
	var out []*models.GameStats
	for key, row := range f.rows {
		if key.userID == userID {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func statsTestSetup(t *testing.T) (*Manager, *fakeStatsRepo, *fakeUserStore, *events.Dispatcher) {
	t.Helper()
	curve, err := leveling.NewCurve(leveling.DefaultConfig())
	require.NoError(t, err)

	users := &fakeUserStore{users: map[string]*models.User{}}
	dispatcher := events.NewDispatcher()
	ledgerMgr := ledger.NewManager(users, curve, dispatcher)
	repo := &fakeStatsRepo{rows: map[statsKey]*models.GameStats{}}

	return NewManager(repo, ledgerMgr, dispatcher), repo, users, dispatcher
}

func TestManager_RecordResultWin(t *testing.T) {
	ctx := context.Background()
	m, _, users, _ := statsTestSetup(t)

	stats, err := m.RecordResult(ctx, "user1", "", Result{GameType: "coinflip", Won: true, Bet: 100, Payout: 200})
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Played)
	assert.Equal(t, int64(1), stats.Won)
	assert.Zero(t, stats.Lost)
	assert.Zero(t, stats.Drawn)
	assert.Equal(t, int64(100), stats.TotalBet)
	assert.Equal(t, int64(200), stats.TotalWon)
	assert.Zero(t, stats.TotalLost)
	assert.Equal(t, int64(1), stats.CurrentStreak)
	assert.Equal(t, int64(100), stats.MaxSingleBet)

	// Totals mirrored onto the ledger row.
	assert.Equal(t, int64(1), users.users["user1"].TotalGamesPlayed)
	assert.Equal(t, int64(1), users.users["user1"].TotalGamesWon)
}

func TestManager_RecordResultLossResetsStreak(t *testing.T) {
	ctx := context.Background()
	m, _, users, _ := statsTestSetup(t)

	for i := 0; i < 3; i++ {
		_, err := m.RecordResult(ctx, "user1", "", Result{GameType: "coinflip", Won: true, Bet: 10, Payout: 20})
		require.NoError(t, err)
	}

	stats, err := m.RecordResult(ctx, "user1", "", Result{GameType: "coinflip", Bet: 10})
	require.NoError(t, err)

	assert.Zero(t, stats.CurrentStreak)
	assert.Equal(t, int64(3), stats.BestStreak, "best streak survives the reset")
	assert.Equal(t, int64(1), stats.Lost)
	assert.Equal(t, int64(10), stats.TotalLost)

	assert.Equal(t, int64(4), users.users["user1"].TotalGamesPlayed)
	assert.Equal(t, int64(3), users.users["user1"].TotalGamesWon)
}

func TestManager_RecordResultDraw(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := statsTestSetup(t)

	stats, err := m.RecordResult(ctx, "user1", "", Result{GameType: "blackjack", Draw: true, Bet: 50})
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Drawn)
	assert.Zero(t, stats.Won)
	assert.Zero(t, stats.Lost)
	// A draw is not a win: the bet counts as lost money.
	assert.Equal(t, int64(50), stats.TotalLost)
	assert.Zero(t, stats.CurrentStreak)
}

func TestManager_RecordResultPerGameIsolation(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := statsTestSetup(t)

	_, err := m.RecordResult(ctx, "user1", "", Result{GameType: "coinflip", Won: true, Bet: 10, Payout: 20})
	require.NoError(t, err)
	blackjack, err := m.RecordResult(ctx, "user1", "", Result{GameType: "blackjack", Bet: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(1), blackjack.Played)
	assert.Zero(t, blackjack.Won)

	rows, err := m.StatsByUser(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestManager_RecordResultEmits(t *testing.T) {
	ctx := context.Background()
	m, _, _, dispatcher := statsTestSetup(t)

	var got []events.Event
	dispatcher.Subscribe(func(ev events.Event) error {
		got = append(got, ev)
		return nil
	})

	_, err := m.RecordResult(ctx, "user1", "guild1", Result{GameType: "coinflip", Won: true, Bet: 5, Payout: 10})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, events.TypeGameResult, got[0].Type)
	assert.Equal(t, "guild1", got[0].GuildID)
	payload := got[0].Payload.(events.GameResultPayload)
	assert.True(t, payload.Won)
	assert.Equal(t, int64(10), payload.Payout)
}

func TestManager_RecordResultValidation(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := statsTestSetup(t)

	var vErr *ledger.ValidationError
	_, err := m.RecordResult(ctx, "", "", Result{GameType: "coinflip"})
	assert.ErrorAs(t, err, &vErr)

	_, err = m.RecordResult(ctx, "user1", "", Result{})
	assert.ErrorAs(t, err, &vErr)

	_, err = m.RecordResult(ctx, "user1", "", Result{GameType: "coinflip", Bet: -1})
	assert.ErrorAs(t, err, &vErr)
}
