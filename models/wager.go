package models

import (
	"time"
)

// Wager represents a bettor's stake on one participant of a combat.
// Wagers are immutable once created; the escrowed amount is debited from the
// bettor at placement and only moves again when the combat settles.
type Wager struct {
	ID                int64     `db:"id"`
	CombatID          int64     `db:"combat_id"`
	Bettor            string    `db:"bettor"`
	ChosenParticipant string    `db:"chosen_participant"`
	Amount            int64     `db:"amount"`
	PayoutAmount      *int64    `db:"payout_amount"`
	CreatedAt         time.Time `db:"created_at"`
}

// SettlementResult represents the outcome of resolving or canceling a combat
type SettlementResult struct {
	Combat       *Combat
	Winners      []*Wager
	Losers       []*Wager
	TotalEscrow  int64
	TotalPaidOut int64
}
