package testutil

import (
	"fightbook/models"
)

// TestPasswordHash is a static bcrypt-format string for rows that only
// need a non-empty hash; repository tests never verify it
const TestPasswordHash = "$2a$04$GKkBBYLYqr4QJFMYLfkkCeVAbCxkbF0/4925X6raBxE0/1KnWHHcW"

// CreateTestCombat creates an open combat between two named participants
func CreateTestCombat(participantA, participantB string) *models.Combat {
	return &models.Combat{
		ParticipantA: participantA,
		ParticipantB: participantB,
		Status:       models.CombatStatusOpen,
	}
}

// CreateTestWager creates a wager on a combat with default stake
func CreateTestWager(combatID int64, bettor, chosenParticipant string) *models.Wager {
	return &models.Wager{
		CombatID:          combatID,
		Bettor:            bettor,
		ChosenParticipant: chosenParticipant,
		Amount:            100,
	}
}

// CreateTestWagerWithAmount creates a wager with a specific stake
func CreateTestWagerWithAmount(combatID int64, bettor, chosenParticipant string, amount int64) *models.Wager {
	wager := CreateTestWager(combatID, bettor, chosenParticipant)
	wager.Amount = amount
	return wager
}

// CreateTestBalanceEntry creates a balance journal entry with default amounts
func CreateTestBalanceEntry(username string, transactionType models.TransactionType) *models.BalanceEntry {
	return &models.BalanceEntry{
		Username:        username,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestBalanceEntryWithAmounts creates a journal entry with specific amounts
func CreateTestBalanceEntryWithAmounts(username string, before, after, change int64, transactionType models.TransactionType) *models.BalanceEntry {
	entry := CreateTestBalanceEntry(username, transactionType)
	entry.BalanceBefore = before
	entry.BalanceAfter = after
	entry.ChangeAmount = change
	return entry
}
