package events

import (
	"context"
	"sync"

	"fightbook/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeUserRegistered EventType = "user_registered"
	EventTypeCombatCreated  EventType = "combat_created"
	EventTypeWagerPlaced    EventType = "wager_placed"
	EventTypeCombatSettled  EventType = "combat_settled"
	EventTypeProofSubmitted EventType = "proof_submitted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	Username        string
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserRegisteredEvent represents a new user registration
type UserRegisteredEvent struct {
	Username        string
	StartingBalance int64
}

func (e UserRegisteredEvent) Type() EventType {
	return EventTypeUserRegistered
}

// CombatCreatedEvent represents a newly opened combat
type CombatCreatedEvent struct {
	CombatID     int64
	ParticipantA string
	ParticipantB string
}

func (e CombatCreatedEvent) Type() EventType {
	return EventTypeCombatCreated
}

// WagerPlacedEvent represents a wager accepted into escrow
type WagerPlacedEvent struct {
	WagerID           int64
	CombatID          int64
	Bettor            string
	ChosenParticipant string
	Amount            int64
}

func (e WagerPlacedEvent) Type() EventType {
	return EventTypeWagerPlaced
}

// CombatSettledEvent represents a combat reaching a terminal state
type CombatSettledEvent struct {
	CombatID     int64
	Status       models.CombatStatus
	Winner       string
	TotalEscrow  int64
	TotalPaidOut int64
}

func (e CombatSettledEvent) Type() EventType {
	return EventTypeCombatSettled
}

// ProofSubmittedEvent represents a combat moving to review
type ProofSubmittedEvent struct {
	CombatID  int64
	Submitter string
}

func (e ProofSubmittedEvent) Type() EventType {
	return EventTypeProofSubmitted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events are emitted on a
// background context so they outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after rollback to drop buffered events.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
