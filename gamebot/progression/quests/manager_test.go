package quests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/leveling"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/events"
	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/progression/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore covers only the ledger calls the quest flow exercises.
// failWrites makes every mutation fail without touching state, standing in
// for a storage engine outage mid-completion.
type fakeUserStore struct {
	repositories.UserRepository
	users      map[string]*models.User
	failWrites bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
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
	if f.failWrites {
		return errors.New("store offline")
	}
	u := f.users[discordID]
	if upd.XP != nil {
		u.XP = *upd.XP
	}
	if upd.Level != nil {
		u.Level = *upd.Level
	}
	if upd.TotalXPEarned != nil {
		u.TotalXPEarned = *upd.TotalXPEarned
	}
	return nil
}

func (f *fakeUserStore) AddCoins(_ context.Context, discordID string, amount int64) error {
	if f.failWrites {
		return errors.New("store offline")
	}
	u := f.users[discordID]
	u.Coins += amount
	if amount > 0 {
		u.TotalCoinsEarned += amount
	}
	return nil
}

type fakeQuestRepo struct {
	defs        []*models.QuestDefinition
	assignments []*models.UserQuest
	users       repositories.UserRepository
	nextID      int64
}

func (f *fakeQuestRepo) DefinitionsByType(_ context.Context, questType string) ([]*models.QuestDefinition, error) {
	var out []*models.QuestDefinition
	for _, d := range f.defs {
		if d.Type == questType {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeQuestRepo) RandomDefinitions(ctx context.Context, questType string, count int) ([]*models.QuestDefinition, error) {
	defs, _ := f.DefinitionsByType(ctx, questType)
	if len(defs) > count {
		defs = defs[:count]
	}
	return defs, nil
}

func (f *fakeQuestRepo) CreateDefinition(_ context.Context, def *models.QuestDefinition) error {
	f.defs = append(f.defs, def)
	return nil
}

func (f *fakeQuestRepo) Assignments(_ context.Context, userID string) ([]*models.UserQuest, error) {
	var out []*models.UserQuest
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeQuestRepo) CreateAssignment(_ context.Context, assignment *models.UserQuest) error {
	f.nextID++
	assignment.ID = f.nextID
	if assignment.QuestDefinition == nil {
		for _, d := range f.defs {
			if d.QuestID == assignment.QuestID {
				assignment.QuestDefinition = d
				break
			}
		}
	}
	f.assignments = append(f.assignments, assignment)
	return nil
}

func (f *fakeQuestRepo) UpdateProgress(_ context.Context, assignment *models.UserQuest) error {
	for _, a := range f.assignments {
		if a.ID == assignment.ID && !a.Completed {
			a.Progress = assignment.Progress
		}
	}
	return nil
}

// Complete mirrors the real repository's all-or-nothing contract: a reward
// failure leaves the assignment untouched.
func (f *fakeQuestRepo) Complete(ctx context.Context, assignmentID int64, progress int64, claimedAt time.Time, reward func(ctx context.Context, users repositories.UserRepository) error) (bool, error) {
	for _, a := range f.assignments {
		if a.ID != assignmentID {
			continue
		}
		if a.Completed {
			return false, nil
		}
		if reward != nil {
			if err := reward(ctx, f.users); err != nil {
				return false, err
			}
		}
		a.Progress = progress
		a.Completed = true
		a.ClaimedAt = &claimedAt
		return true, nil
	}
	return false, nil
}

func questTestSetup(t *testing.T) (*Manager, *fakeQuestRepo, *fakeUserStore) {
	t.Helper()
	curve, err := leveling.NewCurve(leveling.DefaultConfig())
	require.NoError(t, err)

	userStore := newFakeUserStore()
	ledgerMgr := ledger.NewManager(userStore, curve, events.NewDispatcher())

	repo := &fakeQuestRepo{
		users: userStore,
		defs: []*models.QuestDefinition{
			{QuestID: "daily_chat", Name: "Chat", Type: models.QuestTypeDaily, Category: models.QuestCategoryMessages, Target: 10, RewardXP: 50, RewardCoins: 100},
			{QuestID: "daily_games", Name: "Play", Type: models.QuestTypeDaily, Category: models.QuestCategoryGamesPlayed, Target: 3, RewardCoins: 150},
			{QuestID: "weekly_chat", Name: "Chat More", Type: models.QuestTypeWeekly, Category: models.QuestCategoryMessages, Target: 100, RewardXP: 300},
		},
	}

	return NewManager(repo, ledgerMgr, Config{DailyCount: 2, WeeklyCount: 1}), repo, userStore
}

func TestManager_AssignQuests(t *testing.T) {
	ctx := context.Background()
	m, _, _ := questTestSetup(t)

	created, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	// A second call while the set is live is a no-op.
	created, err = m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)
	assert.Nil(t, created)

	// Periods are independent.
	created, err = m.AssignQuests(ctx, "user1", models.QuestTypeWeekly)
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestManager_AssignQuestsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := questTestSetup(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)

	// Same day: still live.
	m.now = func() time.Time { return base.Add(23 * time.Hour) }
	created, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)
	assert.Nil(t, created)

	// Past the 24h window: a fresh set is stamped, stale rows remain.
	m.now = func() time.Time { return base.Add(25 * time.Hour) }
	created, err = m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, repo.assignments, 4)
}

func TestManager_AssignQuestsValidation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := questTestSetup(t)

	var vErr *ledger.ValidationError
	_, err := m.AssignQuests(ctx, "", models.QuestTypeDaily)
	assert.ErrorAs(t, err, &vErr)

	_, err = m.AssignQuests(ctx, "user1", "monthly")
	assert.ErrorAs(t, err, &vErr)
}

func TestManager_UpdateProgress(t *testing.T) {
	ctx := context.Background()
	m, repo, users := questTestSetup(t)

	_, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)

	completed, err := m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 4)
	require.NoError(t, err)
	assert.Empty(t, completed)
	assert.Equal(t, int64(4), repo.assignments[0].Progress)

	// Overshoot clamps to the target and completes exactly once.
	completed, err = m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 50)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "daily_chat", completed[0].QuestID)
	assert.Equal(t, int64(10), repo.assignments[0].Progress)
	assert.True(t, repo.assignments[0].Completed)

	// Rewards landed on the ledger.
	assert.Equal(t, int64(50), users.users["user1"].TotalXPEarned)
	assert.Equal(t, int64(100), users.users["user1"].Coins)

	// Further progress on a completed assignment changes nothing.
	completed, err = m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 5)
	require.NoError(t, err)
	assert.Empty(t, completed)
	assert.Equal(t, int64(100), users.users["user1"].Coins)
}

func TestManager_UpdateProgressRewardFailureRollsBackCompletion(t *testing.T) {
	ctx := context.Background()
	m, repo, users := questTestSetup(t)

	_, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)

	// A reward write failure must take the completed flag down with it;
	// otherwise the assignment is terminally completed and the reward is
	// unreachable forever.
	users.failWrites = true
	_, err = m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 10)
	require.Error(t, err)
	assert.False(t, repo.assignments[0].Completed)
	assert.Zero(t, users.users["user1"].TotalXPEarned)
	assert.Zero(t, users.users["user1"].Coins)

	// Once the store recovers, a retry completes and credits exactly once.
	users.failWrites = false
	completed, err := m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 10)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.True(t, repo.assignments[0].Completed)
	assert.Equal(t, int64(50), users.users["user1"].TotalXPEarned)
	assert.Equal(t, int64(100), users.users["user1"].Coins)
}

func TestManager_UpdateProgressSkipsExpired(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := questTestSetup(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(25 * time.Hour) }
	completed, err := m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 100)
	require.NoError(t, err)
	assert.Empty(t, completed)
	assert.Zero(t, repo.assignments[0].Progress)
}

func TestManager_UpdateProgressValidation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := questTestSetup(t)

	var vErr *ledger.ValidationError
	_, err := m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, -1)
	assert.ErrorAs(t, err, &vErr)

	// Zero delta is a documented no-op, not an error.
	completed, err := m.UpdateProgress(ctx, "user1", "", models.QuestCategoryMessages, 0)
	require.NoError(t, err)
	assert.Nil(t, completed)
}

func TestManager_ActiveQuests(t *testing.T) {
	ctx := context.Background()
	m, _, _ := questTestSetup(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_, err := m.AssignQuests(ctx, "user1", models.QuestTypeDaily)
	require.NoError(t, err)
	_, err = m.AssignQuests(ctx, "user1", models.QuestTypeWeekly)
	require.NoError(t, err)

	active, err := m.ActiveQuests(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, active, 3)

	// Two days on, only the weekly set survives.
	m.now = func() time.Time { return base.Add(48 * time.Hour) }
	active, err = m.ActiveQuests(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "weekly_chat", active[0].QuestID)
}
