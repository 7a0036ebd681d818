package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeWagerEscrow TransactionType = "wager_escrow"
	TransactionTypeWagerPayout TransactionType = "wager_payout"
	TransactionTypeWagerRefund TransactionType = "wager_refund"
)

// BalanceEntry represents a historical balance change. Entries are written in
// the same transaction as the mutation they describe, so the journal is
// always consistent with the ledger.
type BalanceEntry struct {
	ID              int64           `db:"id"`
	Username        string          `db:"username"`
	BalanceBefore   int64           `db:"balance_before"`
	BalanceAfter    int64           `db:"balance_after"`
	ChangeAmount    int64           `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	Metadata        map[string]any  `db:"metadata"`
	CombatID        *int64          `db:"combat_id"`
	CreatedAt       time.Time       `db:"created_at"`
}
