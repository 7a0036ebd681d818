package repository

import (
	"context"
	"fmt"

	"fightbook/database"
	"fightbook/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `username, password_hash, balance, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.Username,
		&user.PasswordHash,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username, nil if not found
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, translateError(err))
	}
	return user, nil
}

// GetByUsernameForUpdate retrieves a user and locks their row for the
// duration of the current transaction
func (r *UserRepository) GetByUsernameForUpdate(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %q: %w", username, translateError(err))
	}
	return user, nil
}

// Create creates a new user with the starting balance. A duplicate username
// fails with models.ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, startingBalance int64) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, balance)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, username, passwordHash, startingBalance))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user %q: %w", username, translateError(err))
	}
	return user, nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, username string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE username = $2
	`

	result, err := r.q.Exec(ctx, query, amount, username)
	if err != nil {
		return fmt.Errorf("failed to add balance for %q: %w", username, translateError(err))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", username, models.ErrUserNotFound)
	}

	return nil
}

// DeductBalance deducts from a user's balance atomically. The update is
// guarded by the current balance, so a debit can never push a balance below
// zero regardless of interleaving.
func (r *UserRepository) DeductBalance(ctx context.Context, username string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}

	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE username = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, username)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for %q: %w", username, translateError(err))
	}

	if result.RowsAffected() == 0 {
		user, err := r.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("failed to check user %q: %w", username, err)
		}
		if user == nil {
			return fmt.Errorf("user %q: %w", username, models.ErrUserNotFound)
		}
		return models.ErrInsufficientFunds
	}

	return nil
}

// GetTopByBalance returns up to limit users ordered by balance descending
func (r *UserRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY balance DESC, username ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", translateError(err))
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.Username,
			&user.PasswordHash,
			&user.Balance,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
