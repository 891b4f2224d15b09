package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/controller"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/middleware"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/router"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/postgres"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/config"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accounts := postgres.NewAccountRepository(db)
	ledger := postgres.NewLedgerRepository(db)
	uow := postgres.NewUnitOfWork(db)

	pins := services.NewBcryptPinVerifier()
	guard := services.NewAccessGuard(pins)
	limits := services.RetryLimits{
		Reference: cfg.ReferenceRetryLimit,
		Conflict:  cfg.ConflictRetryLimit,
	}

	depositService := services.NewDepositService(uow, guard, limits)
	withdrawalService := services.NewWithdrawalService(uow, guard, limits, cfg.WithdrawalReserve)
	transferService := services.NewTransferService(uow, guard, limits)
	accountService := services.NewAccountService(uow, accounts, guard, pins, limits, cfg.MaxPageSize, cfg.DefaultPageSize)
	historyService := services.NewHistoryService(accounts, ledger, guard, cfg.MaxPageSize, cfg.DefaultPageSize)

	mux := router.New(
		controller.NewAccountController(accountService),
		controller.NewTransactionController(depositService, withdrawalService, historyService),
		controller.NewTransferController(transferService),
		middleware.ChannelAuth(cfg.ChannelID, cfg.ChannelKey),
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Printf("server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	log.Println("server stopped cleanly")
}
