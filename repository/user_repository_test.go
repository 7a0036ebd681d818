package repository

import (
	"context"
	"errors"
	"testing"

	"fightbook/models"
	"fightbook/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		user, err := repo.Create(ctx, "alice", testutil.TestPasswordHash, 1000)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, int64(1000), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate username", func(t *testing.T) {
		user, err := repo.Create(ctx, "alice", testutil.TestPasswordHash, 1000)
		assert.True(t, errors.Is(err, models.ErrDuplicateUser))
		assert.Nil(t, user)
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("not found returns nil", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("found", func(t *testing.T) {
		_, err := repo.Create(ctx, "bob", testutil.TestPasswordHash, 1000)
		require.NoError(t, err)

		user, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, testutil.TestPasswordHash, user.PasswordHash)
	})
}

func TestUserRepository_DeductBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", testutil.TestPasswordHash, 1000)
	require.NoError(t, err)

	t.Run("successful deduction", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "alice", 100)
		require.NoError(t, err)

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(900), user.Balance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "alice", 5000)
		assert.True(t, errors.Is(err, models.ErrInsufficientFunds))

		// Balance is untouched on a rejected deduction
		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(900), user.Balance)
	})

	t.Run("exact balance", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "alice", 900)
		require.NoError(t, err)

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(0), user.Balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "ghost", 10)
		assert.True(t, errors.Is(err, models.ErrUserNotFound))
	})
}

func TestUserRepository_AddBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", testutil.TestPasswordHash, 1000)
	require.NoError(t, err)

	t.Run("successful credit", func(t *testing.T) {
		err := repo.AddBalance(ctx, "alice", 200)
		require.NoError(t, err)

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1200), user.Balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.AddBalance(ctx, "ghost", 200)
		assert.True(t, errors.Is(err, models.ErrUserNotFound))
	})
}

func TestUserRepository_GetTopByBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	for _, u := range []struct {
		name    string
		balance int64
	}{
		{"alice", 1100},
		{"bob", 900},
		{"carol", 1500},
	} {
		_, err := repo.Create(ctx, u.name, testutil.TestPasswordHash, u.balance)
		require.NoError(t, err)
	}

	t.Run("ordered by balance descending", func(t *testing.T) {
		users, err := repo.GetTopByBalance(ctx, 10)
		require.NoError(t, err)
		require.Len(t, users, 3)

		assert.Equal(t, "carol", users[0].Username)
		assert.Equal(t, "alice", users[1].Username)
		assert.Equal(t, "bob", users[2].Username)
	})

	t.Run("limit applies", func(t *testing.T) {
		users, err := repo.GetTopByBalance(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}
