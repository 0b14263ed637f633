package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	logger := newLogger(cfg.Env)
	zap.ReplaceGlobals(logger)
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	norm, err := timeutil.NewNormalizer(cfg.DefaultTimezone)
	if err != nil {
		logger.Fatal("load default timezone", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, caching and rate limiting disabled")
	}

	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db, roomRepo)
	statsRepo := repository.NewStatsRepo(db)

	roomSvc := service.NewRoomService(roomRepo, reservationRepo, norm)
	reservationSvc := service.NewReservationService(reservationRepo, roomRepo, norm, timeutil.SystemClock{})
	statsSvc := service.NewStatsService(statsRepo, roomRepo, norm)

	go queue.StartReservationConsumer()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Rooms:        handler.NewRoomHandler(roomSvc),
		Reservations: handler.NewReservationHandler(reservationSvc, roomSvc, queue.PublishReservationCreated),
		Stats:        handler.NewStatsHandler(statsSvc),
	}, rdb)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds a production logger except in dev, where the
// console encoder is easier to read.
func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "dev" || env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	return logger
}
