package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/database"
	"github.com/articlehub/articlehub-backend/internal/handler"
	"github.com/articlehub/articlehub-backend/internal/logger"
	"github.com/articlehub/articlehub-backend/internal/repository"
	"github.com/articlehub/articlehub-backend/internal/router"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/articlehub/articlehub-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Dur("chat_poll_interval", cfg.ChatPollInterval).
		Msg("Starting ArticleHub Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// Redis only carries push notifications; without it clients still poll.
	var notifier service.ChatNotifier
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, chat push disabled")
	} else {
		defer rdb.Close()
		notifier = service.NewRedisChatNotifier(rdb, log)
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	appUserRepo := repository.NewAppUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	accountService := service.NewAccountService(authService, appUserRepo, studentRepo, log)
	appUserService := service.NewAppUserService(authService, appUserRepo, log)
	chatService := service.NewChatService(chatRepo, notifier, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(accountService, log),
		AppUser: handler.NewAppUserHandler(appUserService, log),
		Chat:    handler.NewChatHandler(chatService, log),
		WS:      handler.NewWSHandler(chatService, cfg.ChatPollInterval, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Chat streams derive from this context, so cancel() below also closes them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background work: open chat streams and the rate limiter sweep.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
