package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"notely/internal/auth"
	"notely/internal/config"
	"notely/internal/db"
	httpx "notely/internal/http"
	"notely/internal/http/handler"
	"notely/internal/logger"
	"notely/internal/ratelimit"
)

const shutdownTimeout = 5 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Apply migrations and run the HTTP API",
		Action: serve,
	}
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	ready := map[string]handler.Pinger{}
	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.Login.Attempts, cfg.Login.Window)
	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, "login", cfg.Login.Attempts, cfg.Login.Window)
		ready["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login limiter backed by redis")
	}

	r := httpx.NewRouter(httpx.Deps{
		Config:  cfg,
		DB:      gdb,
		JWT:     auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL),
		Limiter: limiter,
		Ready:   ready,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("version", cfg.AppVersion).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
