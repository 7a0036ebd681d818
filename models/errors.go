package models

import "errors"

// Domain errors returned by services. Callers distinguish them with
// errors.Is; the HTTP layer maps each to a status code.
var (
	// ErrUserNotFound is returned when a username has no registered user
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when registering an already-taken username
	ErrDuplicateUser = errors.New("username already taken")

	// ErrInsufficientFunds is returned when a debit exceeds the balance
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrCombatNotFound is returned when a combat ID does not exist
	ErrCombatNotFound = errors.New("combat not found")

	// ErrInvalidParticipants is returned when a combat's two participants
	// are the same name
	ErrInvalidParticipants = errors.New("participants must be different")

	// ErrInvalidTransition is returned on a disallowed combat status change
	ErrInvalidTransition = errors.New("invalid combat status transition")

	// ErrCombatUnavailable is returned when wagering on a combat that is not
	// open for bets
	ErrCombatUnavailable = errors.New("combat is not open for wagers")

	// ErrInvalidAmount is returned when a wager amount is not positive
	ErrInvalidAmount = errors.New("wager amount must be positive")

	// ErrSelfWager is returned when a bettor tries to back themselves
	ErrSelfWager = errors.New("cannot wager on yourself")

	// ErrInvalidParticipant is returned when the chosen participant is not
	// one of the combat's two fighters
	ErrInvalidParticipant = errors.New("chosen participant is not in this combat")

	// ErrInvalidWinner is returned when resolving with a name that is not
	// one of the combat's two fighters
	ErrInvalidWinner = errors.New("winner is not a participant of this combat")

	// ErrCombatNotEligible is returned when resolving or canceling a combat
	// that already reached a terminal state
	ErrCombatNotEligible = errors.New("combat is not eligible for settlement")

	// ErrAccessDenied is returned when a non-participant submits proof
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials is returned on a failed password check
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrContentionTimeout is returned when an operation could not acquire
	// the rows it needs within the configured lock timeout
	ErrContentionTimeout = errors.New("operation timed out waiting for contended rows")
)
