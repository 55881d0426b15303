// Command seed loads the demo buyers, suppliers, requests and offers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tonkonan/materrax/internal/config"
	"github.com/tonkonan/materrax/internal/repository/postgres"
	"github.com/tonkonan/materrax/internal/seed"
	"github.com/tonkonan/materrax/internal/service"
	"github.com/tonkonan/materrax/pkg/jwt"
	"github.com/tonkonan/materrax/pkg/password"
)

func main() {
	showProfiles := flag.Bool("profiles", false, "print supplier reliability after seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(cfg, logger, *showProfiles); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, showProfiles bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := cfg.PostgresURL()

	if _, err := postgres.Migrate(databaseURL); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	authService := service.NewAuthService(
		postgres.NewUserRepository(pool),
		nil,
		jwt.NewManager(cfg.JWTSecret, jwt.DefaultExpiration),
		password.NewHasher(cfg.BcryptCost),
		logger,
	)
	ledgerService := service.NewLedgerService(
		postgres.NewRequestRepository(pool),
		postgres.NewOfferRepository(pool),
		logger,
	)

	result, err := seed.NewSeeder(authService, ledgerService, logger).Run(ctx)
	if err != nil {
		return err
	}
	if result.Skipped {
		return nil
	}

	if showProfiles {
		for _, u := range seed.Users {
			if u.Profile == nil {
				continue
			}
			level := seed.ReliabilityLevel(u.Profile.Reliability.Score)
			logger.Info("Supplier",
				"email", u.Email,
				"company", u.Profile.LegalEntityName,
				"score", u.Profile.Reliability.Score,
				"reliability", level.Text,
			)
		}
	}

	return nil
}
