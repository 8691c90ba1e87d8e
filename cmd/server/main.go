package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solos-dev/solos/internal/config"
	"github.com/solos-dev/solos/internal/server"
	"github.com/solos-dev/solos/internal/server/handlers"
	"github.com/solos-dev/solos/internal/server/lockout"
	"github.com/solos-dev/solos/internal/server/service"
	"github.com/solos-dev/solos/internal/server/storage/boltaudit"
	"github.com/solos-dev/solos/internal/server/storage/sqlite"
	"github.com/solos-dev/solos/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Конфигурация без валидных секретов — отказ стартовать
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	auditLog, err := boltaudit.New(ctx, cfg.AuditLogPath)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer auditLog.Close()

	fields, err := service.NewFieldCrypto(cfg.MasterSecret)
	if err != nil {
		return fmt.Errorf("failed to init field crypto: %w", err)
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	lockoutPolicy := lockout.NewPolicy(auditLog, logger, cfg.LockoutLimit, cfg.LockoutWindow)
	auth := service.NewAuthService(db, db, tokens, fields, lockoutPolicy, logger)

	h := server.Handlers{
		Auth:       handlers.NewAuthHandler(logger, auth),
		Tasks:      handlers.NewTasksHandler(logger, db),
		Mood:       handlers.NewMoodHandler(logger, db, db, fields),
		Journal:    handlers.NewJournalHandler(logger, db, db, fields),
		TimeBlocks: handlers.NewTimeBlocksHandler(logger, db),
		Focus:      handlers.NewFocusHandler(logger, db),
		Chat:       handlers.NewChatHandler(logger, db, db, fields, handlers.CannedResponder{}),
		GDPR: handlers.NewGDPRHandler(logger, handlers.GDPRStorages{
			Users:         db,
			Tasks:         db,
			Moods:         db,
			Journal:       db,
			Blocks:        db,
			Focus:         db,
			Conversations: db,
		}, fields),
		Health: handlers.NewHealthHandler(logger, db, Version),
	}

	router := server.NewRouter(logger, tokens, server.RouterConfig{
		RateLimit:     cfg.RateLimit,
		RateWindow:    cfg.RateWindow,
		AuthRateLimit: cfg.AuthRateLimit,
	}, h)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Периодическая чистка истекших refresh tokens
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := db.DeleteExpiredTokens(ctx)
				if err != nil {
					logger.Warn("failed to delete expired tokens", slog.Any("error", err))
					continue
				}
				if n > 0 {
					logger.Info("deleted expired refresh tokens", slog.Int("count", n))
				}
			}
		}
	}()

	errC := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr), slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func printVersion() {
	fmt.Printf("Sol OS Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
