package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
	"github.com/iliyamo/library-management/internal/config"
	"github.com/iliyamo/library-management/internal/database"
	"github.com/iliyamo/library-management/internal/handler"
	"github.com/iliyamo/library-management/internal/middleware"
	"github.com/iliyamo/library-management/internal/queue"
	"github.com/iliyamo/library-management/internal/repository"
	"github.com/iliyamo/library-management/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	svc := auth.NewService(users, tokens, auth.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		BcryptCost: cfg.BcryptCost,
	})

	// Redis is optional: a nil client disables rate limiting.
	rdb := config.NewRedisClient()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e, handler.NewAuthHandler(svc), handler.NewAdminHandler(svc), svc, rateLimit)

	// Background workers: the auth event log consumer and the expired
	// token sweep.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth event consumer stopped: %v", err)
		}
	}()
	go sweepExpiredTokens(svc, time.Duration(cfg.SweepIntervalMin)*time.Minute)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepExpiredTokens periodically deletes long-expired ledger rows.
// Validation never trusts persisted expiry state, so this is purely
// housekeeping.
func sweepExpiredTokens(svc *auth.Service, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := svc.SweepExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("token sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("token sweep removed %d expired tokens", n)
		}
	}
}
