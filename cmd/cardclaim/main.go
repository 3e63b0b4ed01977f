package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/cardclaim/internal/adapter/driven/accountfile"
	"github.com/ericfisherdev/cardclaim/internal/adapter/driven/network"
	sqliteadapter "github.com/ericfisherdev/cardclaim/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/cardclaim/internal/adapter/driving/http"
	"github.com/ericfisherdev/cardclaim/internal/application"
	"github.com/ericfisherdev/cardclaim/internal/config"
	"github.com/ericfisherdev/cardclaim/internal/retry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	printBanner(os.Stdout)

	slog.Info("config loaded",
		"accounts_file", cfg.AccountsFile,
		"cycle_interval", cfg.CycleInterval,
		"api_base_url", cfg.API.BaseURL,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the activation log database (migrations applied on open).
	db, err := sqliteadapter.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// 4. Wire adapters.
	accounts := accountfile.NewStore(cfg.AccountsFile)
	activations := sqliteadapter.NewActivationRepo(db)

	client, err := network.NewClient(network.Config{
		BaseURL:         cfg.API.BaseURL,
		UserAgent:       cfg.API.UserAgent,
		Timeout:         cfg.API.Timeout,
		Retry:           cfg.Retry.DefaultPolicy(),
		ActivationRetry: cfg.Retry.ActivationPolicy(),
	}, retry.NewCaller())
	if err != nil {
		return err
	}

	// 5. Wire application services.
	processor := application.NewAccountProcessor(client, client, accounts, activations)
	scheduler := application.NewScheduler(accounts, processor, cfg.CycleInterval, retry.NewTimer())

	// 6. Optional status API.
	var srv *http.Server
	if cfg.StatusServerEnabled() {
		apiHandler := httphandler.NewHandler(activations, scheduler, slog.Default())
		srv = &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           httphandler.NewRouter(apiHandler, slog.Default()),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// A triggered cycle holds the request open while it runs.
			WriteTimeout: 0,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("http server starting", "addr", cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server error", "error", err)
			}
		}()
	}

	// 7. Run the scheduler until a shutdown signal arrives.
	slog.Info("cardclaim started", "cycle_interval", cfg.CycleInterval)
	scheduler.Run(ctx)
	slog.Info("shutting down")

	// 8. Graceful shutdown with 10s timeout for HTTP server drain.
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}
