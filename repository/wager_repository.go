package repository

import (
	"context"
	"fmt"

	"fightbook/database"
	"fightbook/models"
)

// WagerRepository implements the service.WagerRepository interface
type WagerRepository struct {
	q queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

// newWagerRepositoryWithTx creates a new wager repository with a transaction
func newWagerRepositoryWithTx(tx queryable) *WagerRepository {
	return &WagerRepository{q: tx}
}

// Create inserts a new wager and fills in its assigned ID
func (r *WagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	query := `
		INSERT INTO wagers (combat_id, bettor, chosen_participant, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		wager.CombatID,
		wager.Bettor,
		wager.ChosenParticipant,
		wager.Amount,
	).Scan(&wager.ID, &wager.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create wager: %w", translateError(err))
	}
	return nil
}

// GetByCombat returns all wagers on a combat in insertion order
func (r *WagerRepository) GetByCombat(ctx context.Context, combatID int64) ([]*models.Wager, error) {
	query := `
		SELECT id, combat_id, bettor, chosen_participant, amount, payout_amount, created_at
		FROM wagers
		WHERE combat_id = $1
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wagers for combat %d: %w", combatID, translateError(err))
	}
	defer rows.Close()

	var wagers []*models.Wager
	for rows.Next() {
		var wager models.Wager
		err := rows.Scan(
			&wager.ID,
			&wager.CombatID,
			&wager.Bettor,
			&wager.ChosenParticipant,
			&wager.Amount,
			&wager.PayoutAmount,
			&wager.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, &wager)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wagers: %w", err)
	}

	return wagers, nil
}

// UpdatePayouts persists payout amounts set during settlement
func (r *WagerRepository) UpdatePayouts(ctx context.Context, wagers []*models.Wager) error {
	query := `UPDATE wagers SET payout_amount = $1 WHERE id = $2`

	for _, wager := range wagers {
		if _, err := r.q.Exec(ctx, query, wager.PayoutAmount, wager.ID); err != nil {
			return fmt.Errorf("failed to update payout for wager %d: %w", wager.ID, translateError(err))
		}
	}

	return nil
}

// GetStatsByUser returns settled-wager statistics for a user. A wager counts
// as won when its combat closed with the bettor's chosen participant; refunds
// from canceled combats count as neither won nor lost.
func (r *WagerRepository) GetStatsByUser(ctx context.Context, username string) (*models.WagerStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_wagers,
			COUNT(*) FILTER (WHERE c.status = 'closed' AND c.winner = w.chosen_participant) AS total_won,
			COUNT(*) FILTER (WHERE c.status = 'closed' AND c.winner <> w.chosen_participant) AS total_lost,
			COALESCE(SUM(w.amount), 0) AS amount_wagered,
			COALESCE(SUM(w.payout_amount) FILTER (WHERE c.status = 'closed'), 0) AS amount_won
		FROM wagers w
		JOIN combats c ON c.id = w.combat_id
		WHERE w.bettor = $1
	`

	var stats models.WagerStats
	err := r.q.QueryRow(ctx, query, username).Scan(
		&stats.TotalWagers,
		&stats.TotalWon,
		&stats.TotalLost,
		&stats.AmountWagered,
		&stats.AmountWon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager stats for %q: %w", username, translateError(err))
	}

	return &stats, nil
}
