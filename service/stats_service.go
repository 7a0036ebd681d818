package service

import (
	"context"
	"fmt"

	"fightbook/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// GetScoreboard returns the top users by balance with their wager statistics
func (s *statsService) GetScoreboard(ctx context.Context, limit int) ([]*models.ScoreboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetTopByBalance(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	entries := make([]*models.ScoreboardEntry, 0, len(users))
	for i, user := range users {
		stats, err := uow.WagerRepository().GetStatsByUser(ctx, user.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to get wager stats for %q: %w", user.Username, err)
		}

		entries = append(entries, &models.ScoreboardEntry{
			Rank:     i + 1,
			Username: user.Username,
			Balance:  user.Balance,
			Stats:    stats,
		})
	}

	return entries, nil
}

// GetUserStats returns detailed statistics for a specific user
func (s *statsService) GetUserStats(ctx context.Context, username string) (*models.UserStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	stats, err := uow.WagerRepository().GetStatsByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager stats: %w", err)
	}

	return &models.UserStats{
		Username: user.Username,
		Balance:  user.Balance,
		Stats:    stats,
	}, nil
}
