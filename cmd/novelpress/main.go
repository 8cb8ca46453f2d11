package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/novelpress/novelpress/internal/app"
	"github.com/novelpress/novelpress/internal/auth"
	"github.com/novelpress/novelpress/internal/authclient"
	"github.com/novelpress/novelpress/internal/guard"
	"github.com/novelpress/novelpress/internal/platform/cache"
	"github.com/novelpress/novelpress/internal/platform/db"
	"github.com/novelpress/novelpress/internal/session"
	"github.com/novelpress/novelpress/internal/syslog"
	"github.com/novelpress/novelpress/internal/usermgmt"
	"github.com/novelpress/novelpress/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var authService session.Service
	if cfg.AuthMock {
		logger.Warn("serving mock auth accounts, do not use in production")
		authService = authclient.NewMock()
	} else {
		authService = authclient.NewClient(cfg.AuthBaseURL)
	}

	recorder := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, logger)
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	snapshots := session.NewRedisSnapshots(redisClient, cfg.SessionSnapshotKey)
	store := session.New(logger, authService, snapshots, recorder)
	if err := store.Restore(ctx); err != nil {
		logger.Warn("restore session snapshot", slog.Any("error", err))
	}

	table := guard.NewTable(guard.DefaultRoutes())
	pageGuard := guard.New(logger, store, table, guard.Config{
		LandingPath:       cfg.LandingPath,
		StrictPermissions: cfg.StrictPermissions,
	})

	authHandler := auth.NewHandler(logger, store, table, cfg.LandingPath)

	usersRepo := usermgmt.NewRepository(dbpool)
	usersHandler := usermgmt.NewHandler(logger, usermgmt.NewService(usersRepo), pageGuard.RequirePermission)

	syslogRepo := syslog.NewRepository(dbpool)
	syslogHandler := syslog.NewHandler(logger, syslog.NewService(syslogRepo), pageGuard.RequirePermission)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		AuthHandler:   authHandler,
		UsersHandler:  usersHandler,
		SyslogHandler: syslogHandler,
		Guard:         pageGuard,
		Table:         table,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
