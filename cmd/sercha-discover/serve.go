package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/sercha-discover/internal/adapters/driving/http"
	"github.com/custodia-labs/sercha-discover/internal/core/services"
	"github.com/custodia-labs/sercha-discover/internal/worker"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search session HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			if port := c.Int("port"); port > 0 {
				a.cfg.Server.Port = port
			}
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	registry := services.NewSessionRegistry(services.SessionRegistryConfig{
		Backend:      a.client,
		Events:       a.events,
		ItemsPerPage: a.cfg.Search.ItemsPerPage,
		IdleTTL:      a.cfg.Search.SessionTTL.Duration,
		Logger:       a.logger,
	})

	if a.cfg.Search.SessionTTL.Duration > 0 {
		sweeper := worker.NewSweeper(worker.SweeperConfig{
			Evictor:  registry,
			Interval: a.cfg.Search.SweepInterval.Duration,
			Logger:   a.logger,
		})
		sweeper.Start(ctx)
		defer sweeper.Stop()
		a.checks["sweeper"] = sweeper
	}

	server := http.NewServer(http.Config{
		Host:           a.cfg.Server.Host,
		Port:           a.cfg.Server.Port,
		Version:        version,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger,
	}, registry, a.authService(), a.checks)

	a.logger.Info("sercha-discover starting",
		"version", version,
		"repository", a.cfg.DSpace.URL,
		"addr", server.Addr(),
	)
	return server.Run(ctx)
}
