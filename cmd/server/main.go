package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/logger"
	"github.com/iliyamo/train-seat-reservation/internal/metrics"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/router"
	"github.com/iliyamo/train-seat-reservation/internal/seating"
	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	lg := logger.New(cfg.Env)
	logger.Set(lg)
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("bootstrap schema: %v", err)
	}

	store := repository.NewStore(db)
	m := metrics.New()
	engine := seating.NewEngine(store, seating.NewSeatMap(), lg, m)
	// Replay persisted seat assignments so a restart over a non-empty
	// database does not double-book.
	if err := engine.Restore(ctx); err != nil {
		log.Fatalf("restore seat pool: %v", err)
	}

	passwordHash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash operator password: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(lg)

	e.Use(middleware.RequestLogger(lg))
	e.Use(middleware.Prometheus(m))

	// Redis is optional: a nil client turns the limiter and the cache
	// into pass-throughs.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterReceipt(e, handler.NewReceiptHandler(engine))
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, engine, passwordHash), cfg.JWTSecret)

	// Background consumer appending issued receipts to logs/receipts.log.
	go func() {
		if err := queue.StartReceiptConsumer(); err != nil {
			log.Printf("receipt consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
