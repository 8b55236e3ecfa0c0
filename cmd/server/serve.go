package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iliyamo/fleet-scheduling/internal/config"
	"github.com/iliyamo/fleet-scheduling/internal/database"
	"github.com/iliyamo/fleet-scheduling/internal/database/migrations"
	"github.com/iliyamo/fleet-scheduling/internal/handler"
	"github.com/iliyamo/fleet-scheduling/internal/metrics"
	"github.com/iliyamo/fleet-scheduling/internal/middleware"
	"github.com/iliyamo/fleet-scheduling/internal/repository"
	"github.com/iliyamo/fleet-scheduling/internal/router"
	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
	"github.com/iliyamo/fleet-scheduling/internal/service"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, lg, err := bootstrap("server")
	if err != nil {
		return err
	}
	defer lg.Close()
	slog.SetDefault(lg.Logger)

	dbOpts := database.Options(cfg)
	if cfg.MigrateOnStart {
		if err := migrations.MigrateUp(dbOpts); err != nil {
			return err
		}
	}
	db, err := database.Open(dbOpts)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		return fmt.Errorf("%w; run `fleetd migrate` or set MIGRATE_ON_START=true", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.RateLimit.Enabled {
		rdb, err = config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			lg.Warn("redis unavailable; caching and rate limiting disabled", "addr", cfg.Redis.Addr, "err", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	m := metrics.New()
	deps := scheduling.Deps{
		UnitOfWork:          repository.NewStore(db),
		Clock:               scheduling.RealClock{},
		IDs:                 repository.UUIDGenerator{},
		Recorder:            m,
		Logger:              lg.Logger,
		ContinuityWindow:    cfg.Scheduling.ContinuityWindow,
		TurnaroundAllowance: cfg.Scheduling.TurnaroundAllowance,
	}
	if cfg.Events.Enabled {
		deps.Events = service.NewPublisher(cfg.Events.AMQPURL)
	}

	var (
		users    = repository.NewUserRepo(db)
		tokens   = repository.NewTokenRepo(db)
		airports = repository.NewAirportRepo(db)
		profiles = repository.NewProfileRepo(db)
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(lg.Logger))
	e.Use(middleware.RateLimit(cfg.RateLimit, rdb))

	router.RegisterRoutes(e, db, m.Handler())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterFlights(e, handler.NewFlightHandler(scheduling.NewFlightService(deps), repository.NewFlightRepo(db)), cfg.JWTSecret)
	router.RegisterMaintenance(e, handler.NewMaintenanceHandler(
		scheduling.NewMaintenanceService(deps), repository.NewMaintenanceRepo(db), repository.NewAuditRepo(db)), cfg.JWTSecret)
	router.RegisterAircraft(e, handler.NewAircraftHandler(scheduling.NewFleetService(deps), repository.NewAircraftRepo(db)), cfg.JWTSecret)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users, tokens, repository.UUIDGenerator{}), cfg.JWTSecret)
	router.RegisterReference(e, handler.NewReferenceHandler(airports, profiles), cfg.JWTSecret,
		middleware.ResponseCache(cfg.Cache, rdb))

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		lg.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
