package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/stepwise/internal/cli"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <model> [repository/key]",
	Short: "Show a stored model, or the per-step states of one entity",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		return cli.Inspect(cmd.Context(), env, args[0], target, format(cmd), cmd.OutOrStdout())
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <model> <repository/key>",
	Short: "Show what changes from step to step for one entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Diff(cmd.Context(), env, args[0], args[1], format(cmd), cmd.OutOrStdout())
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <model> [repository/key]",
	Short: "Print a Mermaid timeline of entity states",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		step, _ := cmd.Flags().GetString("step")
		return cli.Graph(cmd.Context(), env, args[0], target, step, cmd.OutOrStdout())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <model>",
	Short: "Print the status of every entity in every step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Status(cmd.Context(), env, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd, diffCmd, graphCmd, statusCmd)
	graphCmd.Flags().String("step", "", "Highlight a step")
}
