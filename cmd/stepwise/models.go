package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/stepwise/internal/cli"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage stored models",
}

var modelsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListModels(cmd.Context(), env, cmd.OutOrStdout())
	},
}

var modelsRmCmd = &cobra.Command{
	Use:   "rm <model>...",
	Short: "Delete stored models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RemoveModels(cmd.Context(), env, args, cmd.OutOrStdout())
	},
}

var kindsCmd = &cobra.Command{
	Use:         "kinds",
	Short:       "List the entity kinds and their fields",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"env": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Kinds(format(cmd), cmd.OutOrStdout())
	},
}

func init() {
	modelsCmd.AddCommand(modelsLsCmd, modelsRmCmd)
	rootCmd.AddCommand(modelsCmd, kindsCmd)
}
