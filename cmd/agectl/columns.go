package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanshika/agegraph/internal/cypher"
)

type columnsOutput struct {
	Clause  string   `json:"clause"`
	Columns []string `json:"columns"`
}

func newColumnsCmd(a *app) *cobra.Command {
	var (
		columnType string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "columns <query|->",
		Short: "Derive the column definition list for a Cypher query",
		Long: `Derive the "(name type, ...)" column definition list that a SQL wrapper
needs around a Cypher query, from the query's first RETURN clause.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := inputArg(cmd, args[0])
			if err != nil {
				return err
			}
			ct := columnType
			if ct == "" {
				ct = a.cfg.Graph.ColumnType
			}

			clause := cypher.ColumnClauseFor(query, ct)
			if !asJSON {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), clause)
				return err
			}

			out := columnsOutput{Clause: clause, Columns: []string{}}
			for _, c := range cypher.ReturnColumns(query) {
				out.Columns = append(out.Columns, c.Name)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&columnType, "type", "", "Column type token (default from graph.column_type)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the clause and column names as JSON")
	return cmd
}
