package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/vanshika/agegraph/internal/config"
	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/logging"
	"github.com/vanshika/agegraph/internal/repository"
	"github.com/vanshika/agegraph/internal/service"
)

var (
	errMissingDataset = errors.New("dataset not found")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		datasetDir  = flag.String("dataset-dir", "./seed-data", "Directory containing *.cypher scripts, loaded in name order")
		scriptPath  = flag.String("script", "", "Single cypher script to load (overrides dataset-dir)")
		graphName   = flag.String("graph", cfg.Graph.Name, "Target graph name")
		createGraph = flag.Bool("create-graph", false, "Create the graph first when it does not exist")
		workers     = flag.Int("workers", 4, "Number of concurrent workers per script")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "ingest")

	if *graphName == "" {
		logger.Error("graph name is required", "hint", "set -graph or GRAPH_NAME")
		os.Exit(1)
	}

	scripts, err := resolveScripts(*datasetDir, *scriptPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient, repository.WithColumnType(cfg.Graph.ColumnType))
	if *createGraph {
		if err := ensureGraph(ctx, repo, *graphName); err != nil {
			logger.Error("graph setup failed", "error", err, "graph", *graphName)
			os.Exit(1)
		}
	}

	runner := service.NewBatchRunner(repo, *workers, logger)

	start := time.Now()
	total := 0
	for _, path := range scripts {
		script, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read script", "error", err, "path", path)
			os.Exit(1)
		}

		logger.Info("loading script", "path", path, "graph", *graphName, "workers", *workers)
		n, err := runner.RunScript(ctx, *graphName, string(script))
		if err != nil {
			logger.Error("script failed", "error", err, "path", path)
			os.Exit(1)
		}
		total += n
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "scripts", len(scripts), "statements", total)
}

func resolveScripts(baseDir, scriptPath string) ([]string, error) {
	if scriptPath != "" {
		if _, err := os.Stat(scriptPath); err != nil {
			return nil, fmt.Errorf("stat %s: %w", scriptPath, err)
		}
		return []string{scriptPath}, nil
	}

	matches, err := filepath.Glob(filepath.Join(baseDir, "*.cypher"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no *.cypher files in %s", errMissingDataset, baseDir)
	}
	sort.Strings(matches)
	return matches, nil
}

func ensureGraph(ctx context.Context, repo *repository.Repository, name string) error {
	exists, err := repo.GraphExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return repo.CreateGraph(ctx, name)
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
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
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "backend", cfg.Graph.Backend, "database", cfg.Graph.Database)
	return client, nil
}
