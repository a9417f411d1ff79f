package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/account-ledger/src/internal/bootstrap"
	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/session"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logFile := logger.Configure(cfg.LogFile, os.Stderr)
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	ledger, err := bootstrap.OpenLedger(openCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}
	defer ledger.Close()

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	mux := router.New(
		controller.NewAccountController(ledger.Engine),
		controller.NewSessionController(ledger.Engine, sessions),
		controller.NewLedgerController(ledger.Engine),
		controller.NewAdminController(ledger.Engine),
		controller.NewHealthController(ledger.Engine, sessions),
		middleware.SessionAuth(sessions),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", logger.Fields{
			"addr": cfg.HTTPAddr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("http server shutting down", nil)
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("http server stopped", err, nil)
		os.Exit(1)
	}
	logger.Info("http server stopped", nil)
}
