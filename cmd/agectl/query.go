package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanshika/agegraph/internal/server"
)

type queryOutput struct {
	Columns []string `json:"columns"`
	Rows    []any    `json:"rows"`
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		graphFlag  string
		paramsJSON string
	)

	cmd := &cobra.Command{
		Use:   "query <cypher|->",
		Short: "Run a Cypher query and print decoded rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphName, err := a.graphName(graphFlag)
			if err != nil {
				return err
			}
			query, err := inputArg(cmd, args[0])
			if err != nil {
				return err
			}

			var params map[string]any
			if paramsJSON != "" {
				if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
					return fmt.Errorf("invalid --params: %w", err)
				}
			}

			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			res, err := repo.Query(cmd.Context(), graphName, query, params)
			if err != nil {
				return err
			}
			rows, err := server.RenderRows(res)
			if err != nil {
				return err
			}

			out := queryOutput{Columns: res.Columns, Rows: rows}
			if out.Columns == nil {
				out.Columns = []string{}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&graphFlag, "graph", "", "Graph to query (default from graph.name)")
	cmd.Flags().StringVar(&paramsJSON, "params", "", `Query parameters as a JSON object, e.g. '{"name": "Alice"}'`)
	return cmd
}
