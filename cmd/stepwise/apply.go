package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/stepwise/internal/cli"
)

var applyCmd = &cobra.Command{
	Use:   "apply <script>",
	Short: "Apply a model script and print the resulting model",
	Long: `Applies a YAML or JSON script: steps, reference tables and entity
operations, in order. The first failing operation aborts.

Without --save the script runs against a fresh model and nothing is stored.
With --library the argument names a script in a Loam document library, and
--watch re-applies it whenever the library changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ApplyOptions{Script: args[0], Format: format(cmd)}
		opts.Library, _ = cmd.Flags().GetString("library")
		opts.Model, _ = cmd.Flags().GetString("model")
		opts.Save, _ = cmd.Flags().GetBool("save")

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			return cli.RunWatch(sigCtx, env, opts, cmd.OutOrStdout())
		}
		_, err := cli.Apply(cmd.Context(), env, opts, cmd.OutOrStdout())
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <script>",
	Short: "Check that a script applies cleanly, without storing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		library, _ := cmd.Flags().GetString("library")
		if err := cli.Validate(cmd.Context(), env, args[0], library); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Script is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd, validateCmd)
	applyCmd.Flags().Bool("save", false, "Store the resulting model")
	applyCmd.Flags().String("model", "", "Model name (defaults to the script's model, then its file name)")
	applyCmd.Flags().String("library", "", "Loam library directory the script is read from")
	applyCmd.Flags().BoolP("watch", "w", false, "Re-apply on library changes (requires --library)")
	validateCmd.Flags().String("library", "", "Loam library directory the script is read from")
}
