// Command api serves the paylock REST backend.
//
// @title                      Paylock API
// @version                    1.0
// @description                Pairing, remote lock, location and debt tracking for financed devices.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/auth"
	"github.com/fkhayef/paylock/internal/config"
	"github.com/fkhayef/paylock/internal/contact"
	"github.com/fkhayef/paylock/internal/database"
	"github.com/fkhayef/paylock/internal/link"
	"github.com/fkhayef/paylock/internal/location"
	"github.com/fkhayef/paylock/internal/lock"
	"github.com/fkhayef/paylock/internal/logging"
	"github.com/fkhayef/paylock/internal/notification"
	"github.com/fkhayef/paylock/internal/server"
	"github.com/fkhayef/paylock/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info(ctx, "connected to database")

	rdb, err := location.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	services := server.NewServices(server.Stores{
		Accounts:      account.NewRepository(db),
		Links:         link.NewRepository(db),
		Locks:         lock.NewRepository(db),
		Locations:     location.NewRedisStore(rdb, cfg.LocationTTL),
		Contacts:      contact.NewRepository(db),
		Notifications: notification.NewRepository(db),
	}, tokens)

	loc, err := time.LoadLocation(cfg.ReminderTimezone)
	if err != nil {
		logger.Warn(ctx, "unknown reminder timezone, using UTC", "timezone", cfg.ReminderTimezone, "error", err)
		loc = time.UTC
	}
	reminder := notification.NewReminder(services.Accounts, services.Notifications, logger.With("job", "payment-reminder"), loc)
	jobs, err := reminder.Schedule(ctx, cfg.ReminderCron)
	if err != nil {
		return err
	}

	router := server.NewRouter(services.Handlers(), middleware.Auth(tokens, services.Accounts))
	return server.NewApp(":"+cfg.Port, router, jobs, logger).Run(ctx)
}
