package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		// The logger is not configured yet.
		fmt.Fprintln(os.Stderr, err)
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := cli.OpenRecordStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open record store", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close record store", log.FieldError, err)
		}
	}()

	opts := []services.Option{services.WithLogger(logger)}
	publisher, closePublisher, err := cli.OpenPublisher(ctx, cfg, logger)
	if err != nil {
		// Change events are best effort; the tracker runs without them.
		logger.Warn("AMQP publisher unavailable, continuing without change events", log.FieldError, err)
	} else {
		defer closePublisher()
		if publisher != nil {
			opts = append(opts, services.WithPublisher(publisher))
		}
	}

	svc := services.NewExpenseService(ctx, store, opts...)

	srv := apphttp.NewServer(":"+cfg.Port, svc,
		apphttp.WithLogger(logger),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting expense tracker",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldStorageKey, store.Key())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				n := svc.Reload(gctx)
				logger.Info("Reloaded expenses from store", log.FieldOperation, log.OpLoad, log.FieldCount, n)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
