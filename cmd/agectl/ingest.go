package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/agegraph/internal/service"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		graphFlag   string
		file        string
		workers     int
		createGraph bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run a semicolon-separated Cypher script against a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			graphName, err := a.graphName(graphFlag)
			if err != nil {
				return err
			}
			script, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			if createGraph {
				exists, err := repo.GraphExists(cmd.Context(), graphName)
				if err != nil {
					return err
				}
				if !exists {
					if err := repo.CreateGraph(cmd.Context(), graphName); err != nil {
						return err
					}
				}
			}

			start := time.Now()
			n, err := service.NewBatchRunner(repo, workers, a.logger).RunScript(cmd.Context(), graphName, string(script))
			if err != nil {
				return err
			}
			a.logger.Info("ingestion complete", "graph", graphName, "statements", n, "duration", time.Since(start).String())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ran %d statements\n", n)
			return err
		},
	}

	cmd.Flags().StringVar(&graphFlag, "graph", "", "Target graph (default from graph.name)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Cypher script to run")
	cmd.Flags().IntVar(&workers, "workers", 4, "Number of concurrent statements")
	cmd.Flags().BoolVar(&createGraph, "create-graph", false, "Create the graph first when it does not exist")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
