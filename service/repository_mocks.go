package service

import (
	"context"

	"fightbook/events"
	"fightbook/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameForUpdate(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string, startingBalance int64) (*models.User, error) {
	args := m.Called(ctx, username, passwordHash, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, username string, amount int64) error {
	args := m.Called(ctx, username, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, username string, amount int64) error {
	args := m.Called(ctx, username, amount)
	return args.Error(0)
}

func (m *MockUserRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockCombatRepository is a mock implementation of CombatRepository
type MockCombatRepository struct {
	mock.Mock
}

func (m *MockCombatRepository) Create(ctx context.Context, combat *models.Combat) error {
	args := m.Called(ctx, combat)
	return args.Error(0)
}

func (m *MockCombatRepository) GetByID(ctx context.Context, id int64) (*models.Combat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Combat), args.Error(1)
}

func (m *MockCombatRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Combat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Combat), args.Error(1)
}

func (m *MockCombatRepository) Update(ctx context.Context, combat *models.Combat) error {
	args := m.Called(ctx, combat)
	return args.Error(0)
}

func (m *MockCombatRepository) List(ctx context.Context) ([]*models.Combat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Combat), args.Error(1)
}

func (m *MockCombatRepository) ListByStatus(ctx context.Context, status models.CombatStatus) ([]*models.Combat, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Combat), args.Error(1)
}

func (m *MockCombatRepository) GetDetailByID(ctx context.Context, id int64) (*models.CombatDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CombatDetail), args.Error(1)
}

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByCombat(ctx context.Context, combatID int64) ([]*models.Wager, error) {
	args := m.Called(ctx, combatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) UpdatePayouts(ctx context.Context, wagers []*models.Wager) error {
	args := m.Called(ctx, wagers)
	return args.Error(0)
}

func (m *MockWagerRepository) GetStatsByUser(ctx context.Context, username string) (*models.WagerStats, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WagerStats), args.Error(1)
}

// MockBalanceEntryRepository is a mock implementation of BalanceEntryRepository
type MockBalanceEntryRepository struct {
	mock.Mock
}

func (m *MockBalanceEntryRepository) Record(ctx context.Context, entry *models.BalanceEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBalanceEntryRepository) GetByUser(ctx context.Context, username string, limit int) ([]*models.BalanceEntry, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceEntry), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher. Published
// events are collected for assertions rather than dispatched.
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	userRepo         UserRepository
	combatRepo       CombatRepository
	wagerRepo        WagerRepository
	balanceEntryRepo BalanceEntryRepository
	eventBus         *MockEventPublisher
}

// SetRepositories wires the mock repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, combatRepo CombatRepository, wagerRepo WagerRepository, balanceEntryRepo BalanceEntryRepository) {
	m.userRepo = userRepo
	m.combatRepo = combatRepo
	m.wagerRepo = wagerRepo
	m.balanceEntryRepo = balanceEntryRepo
	m.eventBus = &MockEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CombatRepository() CombatRepository {
	return m.combatRepo
}

func (m *MockUnitOfWork) WagerRepository() WagerRepository {
	return m.wagerRepo
}

func (m *MockUnitOfWork) BalanceEntryRepository() BalanceEntryRepository {
	return m.balanceEntryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events queued on the mock bus
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
