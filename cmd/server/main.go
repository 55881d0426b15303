package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tonkonan/materrax/internal/config"
	"github.com/tonkonan/materrax/internal/handler"
	"github.com/tonkonan/materrax/internal/repository/postgres"
	"github.com/tonkonan/materrax/internal/repository/redis"
	"github.com/tonkonan/materrax/internal/service"
	"github.com/tonkonan/materrax/pkg/jwt"
	"github.com/tonkonan/materrax/pkg/password"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	appOut, accessOut, closeLogs, err := openLogStreams(cfg.LogDir)
	if err != nil {
		log.Fatal("Failed to open log files:", err)
	}
	defer func() {
		if err := closeLogs(); err != nil {
			log.Println("Failed to close log files:", err)
		}
	}()

	// Setup logger
	logger := setupLogger(cfg.Env, appOut)
	accessLogger := setupLogger(cfg.Env, accessOut)

	if err := run(cfg, logger, accessLogger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		_ = closeLogs()
		os.Exit(1)
	}

	logger.Info("Server stopped")
}

func run(cfg *config.Config, logger, accessLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := cfg.PostgresURL()

	if cfg.MigrateOnStart {
		applied, err := postgres.Migrate(databaseURL)
		if err != nil {
			return err
		}
		logger.Info("Database schema ready", "migrated", applied)
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var sessionStore service.SessionStore
	if cfg.RedisURL != "" {
		sessionRepo, err := redis.NewSessionRepository(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer sessionRepo.Close()
		sessionStore = sessionRepo
	} else {
		logger.Info("REDIS_URL not set, session registry disabled")
	}

	if !cfg.IsDevelopment() && cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set, tokens are signed with the default secret")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	healthRepo := postgres.NewHealthRepository(pool)

	// Initialize utilities
	jwtManager := jwt.NewManager(cfg.JWTSecret, jwt.DefaultExpiration)
	passwordHasher := password.NewHasher(cfg.BcryptCost)
	logAuthSettings(logger, jwtManager, passwordHasher)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionStore, jwtManager, passwordHasher, logger)
	ledgerService := service.NewLedgerService(requestRepo, offerRepo, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handler.RouterConfig{
		AuthService:   authService,
		LedgerService: ledgerService,
		Health:        healthRepo,
		JWTManager:    jwtManager,
		Logger:        logger,
		AccessLogger:  accessLogger,
		DistDir:       cfg.DistDir,
		PublicDir:     cfg.PublicDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting Materrax server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openLogStreams returns the application and access log writers. With an
// empty dir both go to stdout; otherwise access records go to access.log and
// application records are copied to error.log.
func openLogStreams(dir string) (io.Writer, io.Writer, func() error, error) {
	if dir == "" {
		return os.Stdout, os.Stdout, func() error { return nil }, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, nil, err
	}

	accessFile, err := os.OpenFile(filepath.Join(dir, "access.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, nil, err
	}

	errorFile, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		accessFile.Close()
		return nil, nil, nil, err
	}

	closeFiles := func() error {
		return multierr.Combine(accessFile.Close(), errorFile.Close())
	}

	return io.MultiWriter(os.Stdout, errorFile), accessFile, closeFiles, nil
}

func logAuthSettings(logger *slog.Logger, jwtManager *jwt.Manager, hasher *password.Hasher) {
	logger.Info("Auth configured",
		"token_ttl", jwtManager.GetExpiration().String(),
		"bcrypt_cost", hasher.Cost(),
	)
}

func setupLogger(env string, out io.Writer) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case "development":
		logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return logger
}
