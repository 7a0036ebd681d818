package cmd

import (
	"context"
	"fmt"
	"time"

	"fightbook/config"
	"fightbook/database"
	"fightbook/events"
	"fightbook/repository"
	"fightbook/server"
	"fightbook/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.WithField("environment", cfg.Environment).Info("Starting fightbook")

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, cfg.LockTimeout)

	userService := service.NewUserService(uowFactory, cfg.StartingBalance)
	combatService := service.NewCombatService(uowFactory)
	wagerService := service.NewWagerService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory)
	statsService := service.NewStatsService(uowFactory)

	srv := server.New(cfg, userService, combatService, wagerService, settlementService, statsService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Shutdown completed")
	return nil
}

// subscribeAuditLog attaches a structured log line to every settlement
// relevant event so money movement is traceable without reading the journal.
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"username":        e.Username,
			"oldBalance":      e.OldBalance,
			"newBalance":      e.NewBalance,
			"changeAmount":    e.ChangeAmount,
			"transactionType": e.TransactionType,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypeCombatSettled, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.CombatSettledEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"combatID":     e.CombatID,
			"status":       e.Status,
			"winner":       e.Winner,
			"totalEscrow":  e.TotalEscrow,
			"totalPaidOut": e.TotalPaidOut,
		}).Info("Combat settled")
	})
}
