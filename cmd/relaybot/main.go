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

	discordadapter "github.com/forgebyte/relaybot/internal/adapter/driven/discord"
	sqliteadapter "github.com/forgebyte/relaybot/internal/adapter/driven/sqlite"
	"github.com/forgebyte/relaybot/internal/adapter/driving/webhook"
	"github.com/forgebyte/relaybot/internal/application"
	"github.com/forgebyte/relaybot/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"rate_limit_window", cfg.RateLimitWindow,
		"rate_limit_max", cfg.RateLimitMax,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters and services.
	projectStore := sqliteadapter.NewProjectRepo(db)
	configStore := sqliteadapter.NewConfigRepo(db)
	chatClient := discordadapter.NewClient(cfg.DiscordBotToken, cfg.DiscordApplicationID)

	dispatcher := application.NewDispatcher(projectStore, configStore, chatClient, slog.Default())
	adminSvc := application.NewAdminService(projectStore, configStore, chatClient, slog.Default())
	limiter := application.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)

	// 6. Sweep expired rate-limit windows periodically.
	go func() {
		ticker := time.NewTicker(cfg.RateLimitWindow)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	// 7. Create HTTP handler and register routes.
	h := webhook.NewHandler(
		dispatcher,
		adminSvc,
		limiter,
		chatClient,
		cfg.GitHubWebhookSecret,
		cfg.DiscordPublicKey,
		slog.Default(),
	)
	handler := webhook.NewServeMux(h, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("relaybot started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain in-flight deliveries.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
