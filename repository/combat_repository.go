package repository

import (
	"context"
	"fmt"

	"fightbook/database"
	"fightbook/models"

	"github.com/jackc/pgx/v5"
)

// CombatRepository implements the service.CombatRepository interface
type CombatRepository struct {
	q queryable
}

// NewCombatRepository creates a new combat repository
func NewCombatRepository(db *database.DB) *CombatRepository {
	return &CombatRepository{q: db.Pool}
}

// newCombatRepositoryWithTx creates a new combat repository with a transaction
func newCombatRepositoryWithTx(tx queryable) *CombatRepository {
	return &CombatRepository{q: tx}
}

const combatColumns = `id, participant_a, participant_b, status, winner, proof, proof_submitter, created_at, resolved_at`

func scanCombat(row pgx.Row) (*models.Combat, error) {
	var combat models.Combat
	err := row.Scan(
		&combat.ID,
		&combat.ParticipantA,
		&combat.ParticipantB,
		&combat.Status,
		&combat.Winner,
		&combat.Proof,
		&combat.ProofSubmitter,
		&combat.CreatedAt,
		&combat.ResolvedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &combat, nil
}

// Create inserts a new combat and fills in its assigned ID. IDs come from a
// sequence, so they are unique and monotonically assigned.
func (r *CombatRepository) Create(ctx context.Context, combat *models.Combat) error {
	query := `
		INSERT INTO combats (participant_a, participant_b, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		combat.ParticipantA,
		combat.ParticipantB,
		combat.Status,
	).Scan(&combat.ID, &combat.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create combat: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a combat by ID, nil if not found
func (r *CombatRepository) GetByID(ctx context.Context, id int64) (*models.Combat, error) {
	query := `SELECT ` + combatColumns + ` FROM combats WHERE id = $1`

	combat, err := scanCombat(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get combat %d: %w", id, translateError(err))
	}
	return combat, nil
}

// GetByIDForUpdate retrieves a combat and locks its row. Wager placement and
// settlement both take this lock first, so the two serialize per combat.
func (r *CombatRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Combat, error) {
	query := `SELECT ` + combatColumns + ` FROM combats WHERE id = $1 FOR UPDATE`

	combat, err := scanCombat(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock combat %d: %w", id, translateError(err))
	}
	return combat, nil
}

// Update persists status, winner, proof and resolution time changes
func (r *CombatRepository) Update(ctx context.Context, combat *models.Combat) error {
	query := `
		UPDATE combats
		SET status = $1, winner = $2, proof = $3, proof_submitter = $4, resolved_at = $5
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query,
		combat.Status,
		combat.Winner,
		combat.Proof,
		combat.ProofSubmitter,
		combat.ResolvedAt,
		combat.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update combat %d: %w", combat.ID, translateError(err))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("combat %d: %w", combat.ID, models.ErrCombatNotFound)
	}

	return nil
}

// List returns all combats, newest first
func (r *CombatRepository) List(ctx context.Context) ([]*models.Combat, error) {
	query := `SELECT ` + combatColumns + ` FROM combats ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list combats: %w", translateError(err))
	}
	defer rows.Close()

	return collectCombats(rows)
}

// ListByStatus returns combats in a given status, newest first
func (r *CombatRepository) ListByStatus(ctx context.Context, status models.CombatStatus) ([]*models.Combat, error) {
	query := `SELECT ` + combatColumns + ` FROM combats WHERE status = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list combats by status: %w", translateError(err))
	}
	defer rows.Close()

	return collectCombats(rows)
}

// GetDetailByID returns a combat with its wagers, nil if not found
func (r *CombatRepository) GetDetailByID(ctx context.Context, id int64) (*models.CombatDetail, error) {
	combat, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if combat == nil {
		return nil, nil
	}

	wagers, err := newWagerRepositoryWithTx(r.q).GetByCombat(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.CombatDetail{
		Combat: combat,
		Wagers: wagers,
	}, nil
}

func collectCombats(rows pgx.Rows) ([]*models.Combat, error) {
	var combats []*models.Combat
	for rows.Next() {
		var combat models.Combat
		err := rows.Scan(
			&combat.ID,
			&combat.ParticipantA,
			&combat.ParticipantB,
			&combat.Status,
			&combat.Winner,
			&combat.Proof,
			&combat.ProofSubmitter,
			&combat.CreatedAt,
			&combat.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan combat: %w", err)
		}
		combats = append(combats, &combat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate combats: %w", err)
	}

	return combats, nil
}
