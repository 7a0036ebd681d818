package service

import (
	"context"
	"fmt"
	"time"

	"fightbook/events"
	"fightbook/models"

	log "github.com/sirupsen/logrus"
)

// PayoutMultiplier is applied to a winning wager's stake: the bettor gets
// their stake back plus equal winnings. Losing stakes are forfeit.
const PayoutMultiplier = 2

type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

// ResolveCombat closes a combat with a winner and pays each correct bettor
// twice their stake. Everything happens in one transaction: either every
// payout and the status transition commit together, or none of them do.
// Locking the combat row first keeps concurrent placements out of the wager
// list while payouts are computed.
func (s *settlementService) ResolveCombat(ctx context.Context, combatID int64, winner string) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combat, err := uow.CombatRepository().GetByIDForUpdate(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat: %w", err)
	}
	if combat == nil {
		return nil, models.ErrCombatNotFound
	}
	if combat.IsTerminal() {
		return nil, models.ErrCombatNotEligible
	}
	if !combat.IsParticipant(winner) {
		return nil, models.ErrInvalidWinner
	}

	wagers, err := uow.WagerRepository().GetByCombat(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wagers: %w", err)
	}

	result := &models.SettlementResult{Combat: combat}
	for _, wager := range wagers {
		result.TotalEscrow += wager.Amount

		if wager.ChosenParticipant != winner {
			// Losing stakes were already debited at placement; they
			// stay forfeit.
			zero := int64(0)
			wager.PayoutAmount = &zero
			result.Losers = append(result.Losers, wager)
			continue
		}

		payout := wager.Amount * PayoutMultiplier
		wager.PayoutAmount = &payout
		result.Winners = append(result.Winners, wager)
		result.TotalPaidOut += payout

		if err := s.creditBettor(ctx, uow, wager, payout, models.TransactionTypeWagerPayout); err != nil {
			return nil, err
		}
	}

	if len(wagers) > 0 {
		if err := uow.WagerRepository().UpdatePayouts(ctx, wagers); err != nil {
			return nil, fmt.Errorf("failed to update wager payouts: %w", err)
		}
	}

	if err := s.transition(ctx, uow, combat, models.CombatStatusClosed, &winner); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.CombatSettledEvent{
		CombatID:     combatID,
		Status:       models.CombatStatusClosed,
		Winner:       winner,
		TotalEscrow:  result.TotalEscrow,
		TotalPaidOut: result.TotalPaidOut,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"combatID": combatID,
		"winner":   winner,
		"winners":  len(result.Winners),
		"losers":   len(result.Losers),
		"paidOut":  result.TotalPaidOut,
	}).Info("Combat resolved")

	return result, nil
}

// CancelCombat cancels a combat and refunds every wager in full
func (s *settlementService) CancelCombat(ctx context.Context, combatID int64) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combat, err := uow.CombatRepository().GetByIDForUpdate(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat: %w", err)
	}
	if combat == nil {
		return nil, models.ErrCombatNotFound
	}
	if combat.IsTerminal() {
		return nil, models.ErrCombatNotEligible
	}

	wagers, err := uow.WagerRepository().GetByCombat(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wagers: %w", err)
	}

	result := &models.SettlementResult{Combat: combat}
	for _, wager := range wagers {
		result.TotalEscrow += wager.Amount

		refund := wager.Amount
		wager.PayoutAmount = &refund
		result.TotalPaidOut += refund

		if err := s.creditBettor(ctx, uow, wager, refund, models.TransactionTypeWagerRefund); err != nil {
			return nil, err
		}
	}

	if len(wagers) > 0 {
		if err := uow.WagerRepository().UpdatePayouts(ctx, wagers); err != nil {
			return nil, fmt.Errorf("failed to update wager payouts: %w", err)
		}
	}

	if err := s.transition(ctx, uow, combat, models.CombatStatusCanceled, nil); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.CombatSettledEvent{
		CombatID:     combatID,
		Status:       models.CombatStatusCanceled,
		TotalEscrow:  result.TotalEscrow,
		TotalPaidOut: result.TotalPaidOut,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"combatID": combatID,
		"refunded": result.TotalPaidOut,
	}).Info("Combat canceled, stakes refunded")

	return result, nil
}

// SubmitProof moves an open combat to pending review, storing the proof for
// an administrator to act on. No coins move here.
func (s *settlementService) SubmitProof(ctx context.Context, combatID int64, submitter, proof string) (*models.Combat, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combat, err := uow.CombatRepository().GetByIDForUpdate(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat: %w", err)
	}
	if combat == nil {
		return nil, models.ErrCombatNotFound
	}
	if !combat.IsParticipant(submitter) {
		return nil, models.ErrAccessDenied
	}
	if !combat.CanTransitionTo(models.CombatStatusPendingReview) {
		return nil, models.ErrInvalidTransition
	}

	combat.Status = models.CombatStatusPendingReview
	combat.Proof = &proof
	combat.ProofSubmitter = &submitter

	if err := uow.CombatRepository().Update(ctx, combat); err != nil {
		return nil, fmt.Errorf("failed to update combat: %w", err)
	}

	uow.EventBus().Publish(events.ProofSubmittedEvent{
		CombatID:  combatID,
		Submitter: submitter,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return combat, nil
}

// creditBettor pays out or refunds a single wager. The bettor's row is
// re-fetched and locked before the credit so the journal entry reads a
// current balance, never a cached one.
func (s *settlementService) creditBettor(ctx context.Context, uow UnitOfWork, wager *models.Wager, amount int64, txType models.TransactionType) error {
	bettor, err := uow.UserRepository().GetByUsernameForUpdate(ctx, wager.Bettor)
	if err != nil {
		return fmt.Errorf("failed to get bettor %q: %w", wager.Bettor, err)
	}
	if bettor == nil {
		return fmt.Errorf("bettor %q: %w", wager.Bettor, models.ErrUserNotFound)
	}

	if err := uow.UserRepository().AddBalance(ctx, wager.Bettor, amount); err != nil {
		return fmt.Errorf("failed to credit bettor %q: %w", wager.Bettor, err)
	}

	entry := &models.BalanceEntry{
		Username:        wager.Bettor,
		BalanceBefore:   bettor.Balance,
		BalanceAfter:    bettor.Balance + amount,
		ChangeAmount:    amount,
		TransactionType: txType,
		Metadata: map[string]any{
			"wager_id":           wager.ID,
			"stake":              wager.Amount,
			"chosen_participant": wager.ChosenParticipant,
		},
		CombatID: &wager.CombatID,
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return fmt.Errorf("failed to record credit for %q: %w", wager.Bettor, err)
	}

	return nil
}

// transition applies a status change through the combat state machine
func (s *settlementService) transition(ctx context.Context, uow UnitOfWork, combat *models.Combat, target models.CombatStatus, winner *string) error {
	if !combat.CanTransitionTo(target) {
		return models.ErrInvalidTransition
	}

	now := time.Now()
	combat.Status = target
	combat.Winner = winner
	combat.ResolvedAt = &now

	if err := uow.CombatRepository().Update(ctx, combat); err != nil {
		return fmt.Errorf("failed to update combat status: %w", err)
	}

	return nil
}
