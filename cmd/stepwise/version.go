package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number of stepwise",
	Annotations: map[string]string{"env": "none"},
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stepwise version %s\n", strings.TrimSpace(stepwise.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner first")
}
