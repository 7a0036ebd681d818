package service

import (
	"context"
	"fmt"

	"fightbook/events"
	"fightbook/models"
)

// RecordBalanceChange records a balance journal entry and queues the matching
// event on the unit of work's transactional bus. This is the single entry
// point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, entry *models.BalanceEntry) error {
	if err := uow.BalanceEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record balance entry: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		Username:        entry.Username,
		OldBalance:      entry.BalanceBefore,
		NewBalance:      entry.BalanceAfter,
		TransactionType: entry.TransactionType,
		ChangeAmount:    entry.ChangeAmount,
	})

	return nil
}
