package main

import (
	"strings"

	"github.com/aretw0/stepsort/internal/cli"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart [numbers...]",
	Short: "Export a run as a Mermaid chart",
	Long: `Advances a run by --steps (or to completion with --steps=-1) and prints the
numbers as a Mermaid xychart. The highlighted pair is drawn as a second series.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := cli.OptionsFromConfig(cfg)
		flags := cmd.Flags()
		if flags.Changed("algorithm") {
			opts.Algorithm, _ = flags.GetString("algorithm")
		}
		if flags.Changed("size") {
			opts.Size, _ = flags.GetInt("size")
		}
		if flags.Changed("seed") {
			opts.Seed, _ = flags.GetUint64("seed")
		}
		if len(args) > 0 {
			opts.Input = strings.Join(args, " ")
		}
		opts.File, _ = flags.GetString("file")
		steps, _ := flags.GetInt("steps")

		return cli.Chart(cmd.Context(), opts, steps, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)

	f := chartCmd.Flags()
	f.StringP("algorithm", "a", "bubble", "Sorting algorithm")
	f.IntP("size", "n", 0, "Number of random values to sort (default from config)")
	f.Uint64("seed", 0, "Seed for the random vector")
	f.StringP("file", "f", "", "Read the numbers from a file")
	f.Int("steps", 0, "Steps to take before exporting (-1 runs to completion)")
}
