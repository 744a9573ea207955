package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stepsort/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepsort",
	Short: "stepsort animates sorting algorithms one step at a time",
	Long: `stepsort renders classic sorting algorithms as bars in the terminal,
one comparison or swap per frame. The same engine is exposed over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the stepsort config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error, off)")
}

// loadConfig reads --config (required only when set explicitly) and
// applies --log-level on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, cfg.Validate()
}
