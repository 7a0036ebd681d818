package repository

import (
	"context"
	"testing"

	"fightbook/models"
	"fightbook/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWagerRepository_CreateAndGetByCombat(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	combatRepo := NewCombatRepository(testDB.DB)
	wagerRepo := NewWagerRepository(testDB.DB)
	ctx := context.Background()

	for _, name := range []string{"alice", "dave"} {
		_, err := userRepo.Create(ctx, name, testutil.TestPasswordHash, 1000)
		require.NoError(t, err)
	}

	combat := testutil.CreateTestCombat("bob", "carol")
	require.NoError(t, combatRepo.Create(ctx, combat))

	t.Run("create assigns id", func(t *testing.T) {
		wager := testutil.CreateTestWager(combat.ID, "alice", "bob")
		err := wagerRepo.Create(ctx, wager)
		require.NoError(t, err)
		assert.NotZero(t, wager.ID)
		assert.Nil(t, wager.PayoutAmount)
	})

	t.Run("unknown bettor rejected", func(t *testing.T) {
		wager := testutil.CreateTestWager(combat.ID, "ghost", "bob")
		err := wagerRepo.Create(ctx, wager)
		assert.Error(t, err)
	})

	t.Run("insertion order preserved", func(t *testing.T) {
		second := testutil.CreateTestWagerWithAmount(combat.ID, "dave", "carol", 50)
		require.NoError(t, wagerRepo.Create(ctx, second))

		wagers, err := wagerRepo.GetByCombat(ctx, combat.ID)
		require.NoError(t, err)
		require.Len(t, wagers, 2)
		assert.Equal(t, "alice", wagers[0].Bettor)
		assert.Equal(t, "dave", wagers[1].Bettor)
	})
}

func TestWagerRepository_UpdatePayouts(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	combatRepo := NewCombatRepository(testDB.DB)
	wagerRepo := NewWagerRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "alice", testutil.TestPasswordHash, 1000)
	require.NoError(t, err)

	combat := testutil.CreateTestCombat("bob", "carol")
	require.NoError(t, combatRepo.Create(ctx, combat))

	wager := testutil.CreateTestWager(combat.ID, "alice", "bob")
	require.NoError(t, wagerRepo.Create(ctx, wager))

	payout := int64(200)
	wager.PayoutAmount = &payout
	require.NoError(t, wagerRepo.UpdatePayouts(ctx, []*models.Wager{wager}))

	wagers, err := wagerRepo.GetByCombat(ctx, combat.ID)
	require.NoError(t, err)
	require.Len(t, wagers, 1)
	require.NotNil(t, wagers[0].PayoutAmount)
	assert.Equal(t, int64(200), *wagers[0].PayoutAmount)
}

func TestWagerRepository_GetStatsByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	combatRepo := NewCombatRepository(testDB.DB)
	wagerRepo := NewWagerRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "alice", testutil.TestPasswordHash, 1000)
	require.NoError(t, err)

	t.Run("no wagers", func(t *testing.T) {
		stats, err := wagerRepo.GetStatsByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalWagers)
		assert.Equal(t, int64(0), stats.AmountWagered)
	})

	// Won combat: alice backed bob for 100 and collected 200
	won := testutil.CreateTestCombat("bob", "carol")
	require.NoError(t, combatRepo.Create(ctx, won))
	wonWager := testutil.CreateTestWagerWithAmount(won.ID, "alice", "bob", 100)
	require.NoError(t, wagerRepo.Create(ctx, wonWager))
	payout := int64(200)
	wonWager.PayoutAmount = &payout
	require.NoError(t, wagerRepo.UpdatePayouts(ctx, []*models.Wager{wonWager}))
	winner := "bob"
	won.Status = models.CombatStatusClosed
	won.Winner = &winner
	require.NoError(t, combatRepo.Update(ctx, won))

	// Lost combat: alice backed dave for 50, forfeit
	lost := testutil.CreateTestCombat("dave", "erin")
	require.NoError(t, combatRepo.Create(ctx, lost))
	lostWager := testutil.CreateTestWagerWithAmount(lost.ID, "alice", "dave", 50)
	require.NoError(t, wagerRepo.Create(ctx, lostWager))
	zero := int64(0)
	lostWager.PayoutAmount = &zero
	require.NoError(t, wagerRepo.UpdatePayouts(ctx, []*models.Wager{lostWager}))
	lostWinner := "erin"
	lost.Status = models.CombatStatusClosed
	lost.Winner = &lostWinner
	require.NoError(t, combatRepo.Update(ctx, lost))

	// Canceled combat: refund counts as neither won nor lost
	canceled := testutil.CreateTestCombat("frank", "grace")
	require.NoError(t, combatRepo.Create(ctx, canceled))
	refunded := testutil.CreateTestWagerWithAmount(canceled.ID, "alice", "frank", 25)
	require.NoError(t, wagerRepo.Create(ctx, refunded))
	canceled.Status = models.CombatStatusCanceled
	require.NoError(t, combatRepo.Update(ctx, canceled))

	t.Run("settled statistics", func(t *testing.T) {
		stats, err := wagerRepo.GetStatsByUser(ctx, "alice")
		require.NoError(t, err)

		assert.Equal(t, 3, stats.TotalWagers)
		assert.Equal(t, 1, stats.TotalWon)
		assert.Equal(t, 1, stats.TotalLost)
		assert.Equal(t, int64(175), stats.AmountWagered)
		assert.Equal(t, int64(200), stats.AmountWon)
	})
}
