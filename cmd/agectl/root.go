package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanshika/agegraph/internal/config"
	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/logging"
	"github.com/vanshika/agegraph/internal/repository"
)

// connectFunc opens a graph client for the loaded configuration.
type connectFunc func(ctx context.Context, cfg config.Config) (graph.Client, error)

type app struct {
	configPath string
	logLevel   string

	cfg     config.Config
	logger  *slog.Logger
	connect connectFunc
}

func newApp() *app {
	return &app{connect: connectGraph}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "agectl",
		Short:        "Decode graph values and run Cypher against a graph database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		newColumnsCmd(a),
		newDecodeCmd(a),
		newGraphCmd(a),
		newQueryCmd(a),
		newIngestCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), a.cfg.Logging).With("component", "agectl")
	return nil
}

// repository connects to the configured graph. The returned func closes the
// client.
func (a *app) repository(ctx context.Context) (*repository.Repository, func(), error) {
	client, err := a.connect(ctx, a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to graph: %w", err)
	}
	closeFn := func() {
		if err := client.Close(context.Background()); err != nil {
			a.logger.Warn("closing graph client failed", "error", err)
		}
	}
	return repository.New(client, repository.WithColumnType(a.cfg.Graph.ColumnType)), closeFn, nil
}

// graphName resolves the --graph flag against the configured default.
func (a *app) graphName(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Graph.Name != "" {
		return a.cfg.Graph.Name, nil
	}
	return "", fmt.Errorf("graph name is required: set --graph or GRAPH_NAME")
}

func connectGraph(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	return graph.New(ctx, graph.Options{
		Backend:         cfg.Graph.Backend,
		URI:             cfg.Graph.URI,
		Database:        cfg.Graph.Database,
		Username:        cfg.Graph.Username,
		Password:        cfg.Graph.Password,
		MaxConnections:  cfg.Graph.MaxConnections,
		LoadFromPlugins: cfg.Graph.LoadFromPlugins,
		SearchPath:      cfg.Graph.SearchPath,
	})
}

// inputArg returns arg, or all of stdin when arg is "-".
func inputArg(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
