package main

import (
	"strings"

	"github.com/aretw0/stepsort/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [numbers...]",
	Short: "Animate a sorting algorithm in the terminal",
	Long: `Sorts a random vector (or the numbers given as arguments or --file) and
draws every step as bars. Highlighted bars are yellow while comparing and
green while switching.

In --step mode press Enter to advance one step; type a number to advance
that many, 'p' to play, 'r' to reset, 'a <name>' to change algorithm and
'q' to quit.`,
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
		if flags.Changed("floor") {
			opts.Floor, _ = flags.GetInt("floor")
		}
		if flags.Changed("ceil") {
			opts.Ceil, _ = flags.GetInt("ceil")
		}
		if flags.Changed("delay") {
			opts.Delay, _ = flags.GetDuration("delay")
		}
		if flags.Changed("seed") {
			opts.Seed, _ = flags.GetUint64("seed")
		}
		if len(args) > 0 {
			opts.Input = strings.Join(args, " ")
		}
		opts.File, _ = flags.GetString("file")
		opts.Limit, _ = flags.GetInt("limit")
		opts.StepMode, _ = flags.GetBool("step")
		opts.SessionID, _ = flags.GetString("session")
		opts.Fresh, _ = flags.GetBool("fresh")
		opts.Quiet, _ = flags.GetBool("quiet")
		opts.Bell, _ = flags.GetBool("bell")
		opts.Plain, _ = flags.GetBool("plain")
		opts.Style, _ = flags.GetString("style")

		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringP("algorithm", "a", "bubble", "Sorting algorithm (see 'stepsort list')")
	f.IntP("size", "n", 0, "Number of random values to sort (default from config, 100)")
	f.Int("floor", 1, "Smallest random value (inclusive)")
	f.Int("ceil", 21, "Largest random value (exclusive)")
	f.DurationP("delay", "d", 0, "Pause between steps while playing (default from config, 20ms)")
	f.Uint64("seed", 0, "Seed for the random vector and bogo sort (0 picks one)")
	f.StringP("file", "f", "", "Read the numbers from a file (CSV or whitespace separated)")
	f.Int("limit", 0, "Stop after this many steps (0 means no limit)")
	f.BoolP("step", "s", false, "Advance on Enter instead of playing")
	f.String("session", "", "Persist the run under this session ID and resume it later")
	f.Bool("fresh", false, "Discard the stored session before starting")
	f.BoolP("quiet", "q", false, "Skip the banner and the summary")
	f.Bool("bell", false, "Ring the terminal bell when the sort finishes")
	f.Bool("plain", false, "Disable colors and screen clearing")
	f.String("style", "", "Summary style: dark, light, notty, ... (auto-detected by default)")

	// Make 'run' the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
