package service

import (
	"context"
	"errors"
	"testing"

	"fightbook/events"
	"fightbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_RegisterUser_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockCombatRepo := new(MockCombatRepository)
	mockWagerRepo := new(MockWagerRepository)
	mockBalanceEntryRepo := new(MockBalanceEntryRepository)

	mockUoW.SetRepositories(mockUserRepo, mockCombatRepo, mockWagerRepo, mockBalanceEntryRepo)

	service := NewUserService(mockFactory, 1000)

	createdUser := &models.User{
		Username: "alice",
		Balance:  1000,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("Create", ctx, "alice", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("sekrit")) == nil
	}), int64(1000)).Return(createdUser, nil)

	mockBalanceEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.Username == "alice" &&
			e.BalanceBefore == 0 &&
			e.BalanceAfter == 1000 &&
			e.ChangeAmount == 1000 &&
			e.TransactionType == models.TransactionTypeInitial
	})).Return(nil)

	user, err := service.RegisterUser(ctx, "alice", "sekrit")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(1000), user.Balance)

	// Registration queues both a balance change and a registration event
	published := mockUoW.PublishedEvents()
	assert.Len(t, published, 2)
	assert.Equal(t, events.EventTypeBalanceChange, published[0].Type())
	assert.Equal(t, events.EventTypeUserRegistered, published[1].Type())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockBalanceEntryRepo.AssertExpectations(t)
}

func TestUserService_RegisterUser_Duplicate(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewUserService(mockFactory, 1000)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("Create", ctx, "alice", mock.AnythingOfType("string"), int64(1000)).
		Return(nil, models.ErrDuplicateUser)

	user, err := service.RegisterUser(ctx, "alice", "sekrit")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDuplicateUser))
	assert.Nil(t, user)

	mockUoW.AssertNotCalled(t, "Commit")
}

func TestUserService_RegisterUser_EmptyInput(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewUserService(mockFactory, 1000)

	_, err := service.RegisterUser(ctx, "", "sekrit")
	assert.Error(t, err)

	_, err = service.RegisterUser(ctx, "alice", "")
	assert.Error(t, err)

	// No transaction is opened for rejected input
	mockFactory.AssertNotCalled(t, "Create")
}

func TestUserService_Authenticate_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewUserService(mockFactory, 1000)

	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	assert.NoError(t, err)

	existingUser := &models.User{
		Username:     "alice",
		PasswordHash: string(hash),
		Balance:      1000,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUsername", ctx, "alice").Return(existingUser, nil)

	user, err := service.Authenticate(ctx, "alice", "sekrit")

	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewUserService(mockFactory, 1000)

	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	assert.NoError(t, err)

	existingUser := &models.User{
		Username:     "alice",
		PasswordHash: string(hash),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUsername", ctx, "alice").Return(existingUser, nil)

	user, err := service.Authenticate(ctx, "alice", "wrong")

	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
	assert.Nil(t, user)
}

func TestUserService_Authenticate_UnknownUser(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewUserService(mockFactory, 1000)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUsername", ctx, "ghost").Return(nil, nil)

	user, err := service.Authenticate(ctx, "ghost", "sekrit")

	assert.True(t, errors.Is(err, models.ErrUserNotFound))
	assert.Nil(t, user)
}

func TestUserService_GetBalance(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewUserService(mockFactory, 1000)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUsername", ctx, "alice").Return(&models.User{Username: "alice", Balance: 950}, nil)

	balance, err := service.GetBalance(ctx, "alice")

	assert.NoError(t, err)
	assert.Equal(t, int64(950), balance)
}
