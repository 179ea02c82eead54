package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/sercha-discover/internal/adapters/driven/auth"
	"github.com/custodia-labs/sercha-discover/internal/adapters/driven/dspace"
	"github.com/custodia-labs/sercha-discover/internal/adapters/driven/memory"
	"github.com/custodia-labs/sercha-discover/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/sercha-discover/internal/adapters/driven/redis"
	"github.com/custodia-labs/sercha-discover/internal/adapters/driven/secrets"
	"github.com/custodia-labs/sercha-discover/internal/adapters/driving/http"
	"github.com/custodia-labs/sercha-discover/internal/config"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-discover/internal/core/services"
	"github.com/custodia-labs/sercha-discover/internal/logging"
)

// app holds the adapters shared by every command
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *dspace.Client
	tokens driven.TokenStore
	events driven.SearchEventStore
	// checks are the readiness checks of the connected backends
	checks  map[string]http.Pinger
	closers []func() error
}

// setup loads configuration and connects the configured stores. Redis and
// Postgres are optional; in-memory stores stand in when they are not set.
func setup(ctx context.Context, c *cli.Command) (*app, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("debug") {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a := &app{
		cfg:    cfg,
		logger: logger,
		client: dspace.NewClient(dspace.Config{BaseURL: cfg.DSpace.URL, Timeout: cfg.DSpace.Timeout.Duration}),
		checks: map[string]http.Pinger{},
	}
	a.checks["repository"] = http.PingFunc(a.client.HealthCheck)

	if err := a.connectTokenStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.connectEventStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) connectTokenStore(ctx context.Context) error {
	if a.cfg.Redis.URL == "" {
		a.tokens = memory.NewTokenStore()
		a.logger.Debug("using in-memory token store")
		return nil
	}

	client, err := redisadapter.Connect(ctx, a.cfg.Redis.URL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Close)

	encryptor, err := secrets.NewEncryptorFromPassphrase(a.cfg.Redis.TokenSecret)
	if err != nil {
		return fmt.Errorf("token encryption: %w", err)
	}
	a.tokens = redisadapter.NewTokenStore(client, encryptor)
	a.checks["redis"] = http.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	a.logger.Info("using redis token store")
	return nil
}

func (a *app) connectEventStore(ctx context.Context) error {
	if a.cfg.Postgres.URL == "" {
		a.events = memory.NewSearchEventStore(memory.DefaultEventCapacity)
		a.logger.Debug("using in-memory search event store")
		return nil
	}

	db, err := postgres.Connect(ctx, postgres.DefaultConfig(a.cfg.Postgres.URL, a.cfg.Postgres.InitSchema))
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)

	a.events = postgres.NewSearchEventStore(db)
	a.checks["postgres"] = http.PingFunc(db.Ping)
	a.logger.Info("using postgres search event store")
	return nil
}

func (a *app) authService() driving.AuthService {
	return services.NewAuthService(services.AuthServiceConfig{
		Backend: a.client,
		Tokens:  a.tokens,
		Parser:  auth.NewAdapter(a.cfg.Auth.JWTSecret),
		Logger:  a.logger,
	})
}

// Close releases store connections in reverse order of opening
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close connection", "error", err)
		}
	}
	a.closers = nil
}
