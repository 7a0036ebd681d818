package models

import (
	"time"
)

// CombatStatus represents the lifecycle state of a combat
type CombatStatus string

const (
	CombatStatusOpen          CombatStatus = "open"
	CombatStatusPendingReview CombatStatus = "pending_review"
	CombatStatusClosed        CombatStatus = "closed"
	CombatStatusCanceled      CombatStatus = "canceled"
)

// Combat represents a head-to-head event between two named participants.
// ParticipantB is a free-form name and need not be a registered user.
type Combat struct {
	ID             int64        `db:"id"`
	ParticipantA   string       `db:"participant_a"`
	ParticipantB   string       `db:"participant_b"`
	Status         CombatStatus `db:"status"`
	Winner         *string      `db:"winner"`
	Proof          *string      `db:"proof"`
	ProofSubmitter *string      `db:"proof_submitter"`
	CreatedAt      time.Time    `db:"created_at"`
	ResolvedAt     *time.Time   `db:"resolved_at"`
}

// CombatDetail combines a combat with its wagers
type CombatDetail struct {
	Combat *Combat
	Wagers []*Wager
}

// IsParticipant checks if a username is one of the two fighters
func (c *Combat) IsParticipant(username string) bool {
	return c.ParticipantA == username || c.ParticipantB == username
}

// IsTerminal reports whether the combat has reached a final state
func (c *Combat) IsTerminal() bool {
	return c.Status == CombatStatusClosed || c.Status == CombatStatusCanceled
}

// CanAcceptWagers checks if new wagers may be placed
func (c *Combat) CanAcceptWagers() bool {
	return c.Status == CombatStatusOpen
}

// CanTransitionTo enforces the combat state machine. Open may move to any
// other state; pending review may only be closed or canceled; closed and
// canceled are terminal.
func (c *Combat) CanTransitionTo(target CombatStatus) bool {
	switch c.Status {
	case CombatStatusOpen:
		return target == CombatStatusPendingReview ||
			target == CombatStatusClosed ||
			target == CombatStatusCanceled
	case CombatStatusPendingReview:
		return target == CombatStatusClosed || target == CombatStatusCanceled
	default:
		return false
	}
}

// EscrowedTotal returns the sum of all wager amounts on the combat
func (cd *CombatDetail) EscrowedTotal() int64 {
	var total int64
	for _, w := range cd.Wagers {
		total += w.Amount
	}
	return total
}

// WagersOn returns the wagers backing a given participant
func (cd *CombatDetail) WagersOn(participant string) []*Wager {
	var backed []*Wager
	for _, w := range cd.Wagers {
		if w.ChosenParticipant == participant {
			backed = append(backed, w)
		}
	}
	return backed
}
