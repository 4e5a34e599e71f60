package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/agegraph/internal/config"
	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/logging"
	"github.com/vanshika/agegraph/internal/repository"
	"github.com/vanshika/agegraph/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err, "backend", cfg.Graph.Backend)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient, repository.WithColumnType(cfg.Graph.ColumnType))
	apiHandlers := server.NewAPIHandlers(logger, repo, cfg.Graph.ColumnType)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.GraphHealthService{
			Client: graphClient,
			Graphs: repo,
			Graph:  cfg.Graph.Name,
		},
		API:              apiHandlers,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowCredentials: cfg.HTTP.AllowCredentials,
	})

	srv := server.New(logger, cfg.HTTP, router)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	client, err := graph.New(ctx, graph.Options{
		Backend:         cfg.Graph.Backend,
		URI:             cfg.Graph.URI,
		Database:        cfg.Graph.Database,
		Username:        cfg.Graph.Username,
		Password:        cfg.Graph.Password,
		MaxConnections:  cfg.Graph.MaxConnections,
		LoadFromPlugins: cfg.Graph.LoadFromPlugins,
		SearchPath:      cfg.Graph.SearchPath,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "backend", cfg.Graph.Backend, "database", cfg.Graph.Database)
	return client, nil
}
