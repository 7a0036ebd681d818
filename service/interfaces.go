package service

import (
	"context"

	"fightbook/events"
	"fightbook/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByUsername retrieves a user by username, nil if not found
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByUsernameForUpdate retrieves a user and locks their row for the
	// duration of the current transaction
	GetByUsernameForUpdate(ctx context.Context, username string) (*models.User, error)

	// Create creates a new user with the starting balance
	Create(ctx context.Context, username, passwordHash string, startingBalance int64) (*models.User, error)

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, username string, amount int64) error

	// DeductBalance deducts from a user's balance atomically, failing with
	// models.ErrInsufficientFunds when the balance does not cover the amount
	DeductBalance(ctx context.Context, username string, amount int64) error

	// GetTopByBalance returns up to limit users ordered by balance descending
	GetTopByBalance(ctx context.Context, limit int) ([]*models.User, error)
}

// CombatRepository defines the interface for combat data access
type CombatRepository interface {
	// Create inserts a new combat and fills in its assigned ID
	Create(ctx context.Context, combat *models.Combat) error

	// GetByID retrieves a combat by ID, nil if not found
	GetByID(ctx context.Context, id int64) (*models.Combat, error)

	// GetByIDForUpdate retrieves a combat and locks its row, serializing
	// wager placement and settlement on the same combat
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Combat, error)

	// Update persists status, winner, proof and resolution time changes
	Update(ctx context.Context, combat *models.Combat) error

	// List returns all combats, newest first
	List(ctx context.Context) ([]*models.Combat, error)

	// ListByStatus returns combats in a given status, newest first
	ListByStatus(ctx context.Context, status models.CombatStatus) ([]*models.Combat, error)

	// GetDetailByID returns a combat with its wagers, nil if not found
	GetDetailByID(ctx context.Context, id int64) (*models.CombatDetail, error)
}

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	// Create inserts a new wager and fills in its assigned ID
	Create(ctx context.Context, wager *models.Wager) error

	// GetByCombat returns all wagers on a combat in insertion order
	GetByCombat(ctx context.Context, combatID int64) ([]*models.Wager, error)

	// UpdatePayouts persists payout amounts set during settlement
	UpdatePayouts(ctx context.Context, wagers []*models.Wager) error

	// GetStatsByUser returns settled-wager statistics for a user
	GetStatsByUser(ctx context.Context, username string) (*models.WagerStats, error)
}

// BalanceEntryRepository defines the interface for the balance journal
type BalanceEntryRepository interface {
	// Record creates a new balance journal entry
	Record(ctx context.Context, entry *models.BalanceEntry) error

	// GetByUser returns the most recent journal entries for a user
	GetByUser(ctx context.Context, username string, limit int) ([]*models.BalanceEntry, error)
}

// UserService defines the interface for user operations
type UserService interface {
	// RegisterUser creates a new user with the configured starting balance
	RegisterUser(ctx context.Context, username, password string) (*models.User, error)

	// Authenticate verifies a username/password pair
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// GetBalance returns a user's current balance
	GetBalance(ctx context.Context, username string) (int64, error)
}

// CombatService defines the interface for combat registry operations
type CombatService interface {
	// CreateCombat opens a new combat between the creator and an opponent.
	// The opponent need not be a registered user.
	CreateCombat(ctx context.Context, creator, opponent string) (*models.Combat, error)

	// GetCombat returns a combat with its wagers
	GetCombat(ctx context.Context, combatID int64) (*models.CombatDetail, error)

	// ListCombats returns all combats, newest first
	ListCombats(ctx context.Context) ([]*models.Combat, error)

	// ListPendingReview returns combats awaiting administrator review
	ListPendingReview(ctx context.Context) ([]*models.Combat, error)
}

// WagerService defines the interface for wager placement
type WagerService interface {
	// PlaceWager escrows amount from the bettor and records the wager
	PlaceWager(ctx context.Context, combatID int64, bettor, chosenParticipant string, amount int64) (*models.Wager, error)

	// ListWagers returns all wagers on a combat in insertion order
	ListWagers(ctx context.Context, combatID int64) ([]*models.Wager, error)
}

// SettlementService is the only component that redistributes escrowed coins
type SettlementService interface {
	// ResolveCombat closes a combat with a winner and pays each correct
	// bettor twice their stake
	ResolveCombat(ctx context.Context, combatID int64, winner string) (*models.SettlementResult, error)

	// CancelCombat cancels a combat and refunds every wager in full
	CancelCombat(ctx context.Context, combatID int64) (*models.SettlementResult, error)

	// SubmitProof moves an open combat to pending review, storing the proof
	SubmitProof(ctx context.Context, combatID int64, submitter, proof string) (*models.Combat, error)
}

// StatsService defines the interface for statistics operations
type StatsService interface {
	// GetScoreboard returns the top users with their wager statistics
	GetScoreboard(ctx context.Context, limit int) ([]*models.ScoreboardEntry, error)

	// GetUserStats returns detailed statistics for a specific user
	GetUserStats(ctx context.Context, username string) (*models.UserStats, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	CombatRepository() CombatRepository
	WagerRepository() WagerRepository
	BalanceEntryRepository() BalanceEntryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
