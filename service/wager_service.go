package service

import (
	"context"
	"fmt"

	"fightbook/events"
	"fightbook/models"

	log "github.com/sirupsen/logrus"
)

type wagerService struct {
	uowFactory UnitOfWorkFactory
}

// NewWagerService creates a new wager service
func NewWagerService(uowFactory UnitOfWorkFactory) WagerService {
	return &wagerService{
		uowFactory: uowFactory,
	}
}

// PlaceWager escrows amount from the bettor and records the wager. The combat
// row is locked first, so placement serializes against settlement of the same
// combat: once settlement has started, the wager is rejected rather than
// silently lost.
//
// Preconditions are checked in a fixed order, each with its own error:
// combat open, amount positive, sufficient funds, no self-wager, chosen
// participant valid.
func (s *wagerService) PlaceWager(ctx context.Context, combatID int64, bettor, chosenParticipant string, amount int64) (*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combat, err := uow.CombatRepository().GetByIDForUpdate(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat: %w", err)
	}
	if combat == nil || !combat.CanAcceptWagers() {
		return nil, models.ErrCombatUnavailable
	}

	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	user, err := uow.UserRepository().GetByUsernameForUpdate(ctx, bettor)
	if err != nil {
		return nil, fmt.Errorf("failed to get bettor: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	if user.Balance < amount {
		return nil, models.ErrInsufficientFunds
	}

	if chosenParticipant == bettor {
		return nil, models.ErrSelfWager
	}
	if !combat.IsParticipant(chosenParticipant) {
		return nil, models.ErrInvalidParticipant
	}

	// Escrow the stake
	if err := uow.UserRepository().DeductBalance(ctx, bettor, amount); err != nil {
		return nil, fmt.Errorf("failed to escrow stake: %w", err)
	}

	wager := &models.Wager{
		CombatID:          combatID,
		Bettor:            bettor,
		ChosenParticipant: chosenParticipant,
		Amount:            amount,
	}
	if err := uow.WagerRepository().Create(ctx, wager); err != nil {
		return nil, fmt.Errorf("failed to create wager: %w", err)
	}

	entry := &models.BalanceEntry{
		Username:        bettor,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance - amount,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeWagerEscrow,
		Metadata: map[string]any{
			"wager_id":           wager.ID,
			"chosen_participant": chosenParticipant,
			"amount":             amount,
		},
		CombatID: &combatID,
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return nil, fmt.Errorf("failed to record escrow: %w", err)
	}

	uow.EventBus().Publish(events.WagerPlacedEvent{
		WagerID:           wager.ID,
		CombatID:          combatID,
		Bettor:            bettor,
		ChosenParticipant: chosenParticipant,
		Amount:            amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"wagerID":  wager.ID,
		"combatID": combatID,
		"bettor":   bettor,
		"amount":   amount,
	}).Info("Wager placed")

	return wager, nil
}

// ListWagers returns all wagers on a combat in insertion order
func (s *wagerService) ListWagers(ctx context.Context, combatID int64) ([]*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combat, err := uow.CombatRepository().GetByID(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat: %w", err)
	}
	if combat == nil {
		return nil, models.ErrCombatNotFound
	}

	wagers, err := uow.WagerRepository().GetByCombat(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers: %w", err)
	}

	return wagers, nil
}
