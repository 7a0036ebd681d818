package service

import (
	"context"
	"fmt"

	"fightbook/events"
	"fightbook/models"
)

type combatService struct {
	uowFactory UnitOfWorkFactory
}

// NewCombatService creates a new combat service
func NewCombatService(uowFactory UnitOfWorkFactory) CombatService {
	return &combatService{
		uowFactory: uowFactory,
	}
}

// CreateCombat opens a new combat between the creator and an opponent. The
// opponent is a free-form name and is not checked against registered users.
func (s *combatService) CreateCombat(ctx context.Context, creator, opponent string) (*models.Combat, error) {
	if opponent == "" {
		return nil, fmt.Errorf("opponent cannot be empty")
	}
	if creator == opponent {
		return nil, models.ErrInvalidParticipants
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	creatorUser, err := uow.UserRepository().GetByUsername(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creatorUser == nil {
		return nil, models.ErrUserNotFound
	}

	combat := &models.Combat{
		ParticipantA: creator,
		ParticipantB: opponent,
		Status:       models.CombatStatusOpen,
	}

	if err := uow.CombatRepository().Create(ctx, combat); err != nil {
		return nil, fmt.Errorf("failed to create combat: %w", err)
	}

	uow.EventBus().Publish(events.CombatCreatedEvent{
		CombatID:     combat.ID,
		ParticipantA: combat.ParticipantA,
		ParticipantB: combat.ParticipantB,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return combat, nil
}

// GetCombat returns a combat with its wagers
func (s *combatService) GetCombat(ctx context.Context, combatID int64) (*models.CombatDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.CombatRepository().GetDetailByID(ctx, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get combat detail: %w", err)
	}
	if detail == nil {
		return nil, models.ErrCombatNotFound
	}

	return detail, nil
}

// ListCombats returns all combats, newest first
func (s *combatService) ListCombats(ctx context.Context) ([]*models.Combat, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combats, err := uow.CombatRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list combats: %w", err)
	}

	return combats, nil
}

// ListPendingReview returns combats awaiting administrator review
func (s *combatService) ListPendingReview(ctx context.Context) ([]*models.Combat, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	combats, err := uow.CombatRepository().ListByStatus(ctx, models.CombatStatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("failed to list combats pending review: %w", err)
	}

	return combats, nil
}
