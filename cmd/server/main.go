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

	"github.com/swpbansode/expense-tracker/internal/auth"
	"github.com/swpbansode/expense-tracker/internal/config"
	"github.com/swpbansode/expense-tracker/internal/handlers"
	"github.com/swpbansode/expense-tracker/internal/service"
	"github.com/swpbansode/expense-tracker/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("SESSION_SECRET is the built-in placeholder, override it for any real deployment")
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	users := service.NewUsers(db)
	expenses := service.NewExpenses(db)

	h := handlers.NewHandlers(users, expenses, sessions, cfg.TemplateDir, cfg.SecureCookie)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        h.Router(cfg.StaticDir),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting server", "port", cfg.Port, "db", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}
