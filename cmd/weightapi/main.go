// Command weightapi serves the weight tracker REST API.
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

	"go.uber.org/zap"

	adapthttp "weighttracker/internal/adapter/http"
	"weighttracker/internal/adapter/memory"
	"weighttracker/internal/adapter/sqlstore"
	"weighttracker/internal/app"
	"weighttracker/internal/auth"
	"weighttracker/internal/config"
	"weighttracker/internal/domain"
	"weighttracker/internal/logging"
)

// store is what the server needs from a record store.
type store interface {
	domain.WeightRepository
	domain.GoalRepository
	Close() error
}

func main() {
	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %+v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Log.Level, conf.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %+v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(conf, logger); err != nil {
		logger.Error("exit", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(conf *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	verifier := auth.NewVerifier(context.Background(), auth.Config{
		Issuer:       conf.OIDC.Issuer,
		JWKSURL:      conf.OIDC.JWKSURL,
		FetchTimeout: conf.OIDC.JWKSTimeout,
	}, logger.Named("auth"))

	h := adapthttp.New(
		app.NewWeightService(db),
		app.NewGoalService(db),
		verifier,
		logger.Named("http"),
	).WithCORS(conf.CORS.AllowedOrigins).Handler()

	srv := &http.Server{
		Addr:              conf.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("driver", conf.DB.Driver),
			zap.String("issuer", conf.OIDC.Issuer),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", conf.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func openStore(ctx context.Context, conf *config.Config, logger *zap.Logger) (store, error) {
	if conf.DB.Driver == config.DriverMemory {
		logger.Warn("using in-memory store; records are lost on exit")
		return memory.New(), nil
	}

	db, err := sqlstore.Open(ctx, sqlstore.Dialect(conf.DB.Driver), conf.DSN(), sqlstore.Options{
		MaxOpenConns: conf.DB.MaxOpenConns,
		Logger:       logger.Named("sql"),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", conf.DB.Driver, err)
	}
	return db, nil
}
