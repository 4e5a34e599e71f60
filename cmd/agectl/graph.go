package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Create, drop and check graphs",
	}
	cmd.AddCommand(newGraphCreateCmd(a), newGraphDropCmd(a), newGraphExistsCmd(a))
	return cmd
}

func newGraphCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := repo.CreateGraph(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.logger.Info("graph created", "graph", args[0])
			return nil
		},
	}
}

func newGraphDropCmd(a *app) *cobra.Command {
	var cascade bool
	cmd := &cobra.Command{
		Use:   "drop <name>",
		Short: "Drop a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := repo.DropGraph(cmd.Context(), args[0], cascade); err != nil {
				return err
			}
			a.logger.Info("graph dropped", "graph", args[0], "cascade", cascade)
			return nil
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also drop the graph's labels and data")
	return cmd
}

func newGraphExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <name>",
		Short: "Print whether a graph exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			exists, err := repo.GraphExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), exists)
			return err
		},
	}
}
