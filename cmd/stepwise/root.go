package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/logging"
)

// env is built once per invocation by the root pre-run hook.
var env *cli.Env

var rootCmd = &cobra.Command{
	Use:   "stepwise",
	Short: "Stepwise propagates boundary conditions, loads and fields across analysis steps",
	Long: `Stepwise keeps step-scoped model entities (boundary conditions, loads,
interactions and predefined fields) and derives their state in every step
from a creation definition and a history of per-step calls.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env = nil
		if cmd.Annotations["env"] == "none" {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		var logger *slog.Logger
		if cmd.Annotations["log"] == "json" {
			lvl, _ := cfg.Level()
			logger = logging.NewJSON(os.Stderr, lvl)
		}
		env, err = cli.Setup(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("store", "", "Model store: file, redis or memory (env STEPWISE_STORE)")
	flags.String("dir", "", "Directory of the file store (env STEPWISE_DIR)")
	flags.String("redis-addr", "", "Redis address (env STEPWISE_REDIS_ADDR)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (env STEPWISE_LOG_LEVEL)")
	flags.Bool("debug", false, "Shorthand for --log-level=debug")
	flags.StringP("format", "o", cli.FormatText, "Output format: text, markdown or json")
}

// loadConfig reads the environment, then applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func format(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("format")
	return f
}
