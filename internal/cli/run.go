package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/stepsort"
	"github.com/aretw0/stepsort/internal/config"
	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/internal/presentation/tui"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/aretw0/stepsort/pkg/sorting"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config config.Config

	Algorithm string
	Input     string // Numbers separated by commas or whitespace
	File      string // File holding numbers, e.g. a one-line CSV
	Size      int
	Floor     int
	Ceil      int
	Seed      uint64
	Delay     time.Duration
	Limit     int

	StepMode  bool
	SessionID string
	Fresh     bool
	Quiet     bool
	Bell      bool
	Plain     bool   // No colors and no screen clearing
	Style     string // glamour style for the summary

	In  io.Reader
	Out io.Writer
}

// OptionsFromConfig seeds RunOptions with the run section of cfg.
func OptionsFromConfig(cfg config.Config) RunOptions {
	return RunOptions{
		Config:    cfg,
		Algorithm: cfg.Run.Algorithm,
		Size:      cfg.Run.Size,
		Floor:     cfg.Run.Floor,
		Ceil:      cfg.Run.Ceil,
		Seed:      cfg.Run.Seed,
		Delay:     cfg.Run.Delay,
	}
}

// Execute runs the terminal visualizer until the run finishes, the user
// quits or a signal arrives.
func Execute(opts RunOptions) error {
	logger, err := logging.FromLevel(opts.Config.LogLevel)
	if err != nil {
		return err
	}
	opts = opts.withDefaults()
	if opts.Out == os.Stdout && !tui.IsTerminal(os.Stdout) {
		opts.Plain = true
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	f, err := Run(sigCtx, opts, logger)
	logCompletion(opts.Out, f, err, sigCtx.Signal(), opts.Quiet)
	return handleExecutionError(err)
}

func (o RunOptions) withDefaults() RunOptions {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Algorithm == "" {
		o.Algorithm = string(sorting.Bubble)
	}
	if o.Size == 0 && o.Input == "" && o.File == "" {
		o.Size = sequence.DefaultSize
	}
	if o.Ceil == 0 {
		o.Floor, o.Ceil = sequence.DefaultFloor, sequence.DefaultCeil
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	return o
}

// resolveNumbers picks the input: explicit numbers, then a file, then a
// random vector drawn from the seed.
func resolveNumbers(opts RunOptions) ([]int, error) {
	switch {
	case opts.Input != "":
		return sequence.ParseInput(opts.Input)
	case opts.File != "":
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read numbers: %w", err)
		}
		return sequence.ParseInput(string(data))
	}
	if opts.Size > sequence.MaxLength {
		return nil, fmt.Errorf("size %d exceeds the maximum of %d", opts.Size, sequence.MaxLength)
	}
	return sequence.Generate(opts.Floor, opts.Ceil, opts.Size, sorting.NewSource(opts.Seed))
}

// Run drives one visualization on ctx and returns the last frame shown.
func Run(ctx context.Context, opts RunOptions, logger *slog.Logger) (frame domain.Frame, err error) {
	st, closeFn, err := newStepper(ctx, opts, logger)
	if err != nil {
		return frame, err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			logger.Warn("failed to close session store", "error", cerr)
		}
	}()

	if !opts.Quiet && !opts.Plain {
		tui.PrintBanner(opts.Out, stepsort.Version)
	}

	scr := newScreen(opts)
	numbers, frame, err := st.Current(ctx)
	if err != nil {
		return frame, err
	}
	scr.draw(numbers, frame)

	if opts.StepMode {
		frame, err = scr.stepLoop(ctx, st, readLines(ctx, opts.In), opts)
	} else {
		frame, err = scr.play(ctx, st, opts.Delay, opts.Limit)
	}
	if err != nil || opts.Quiet {
		return frame, err
	}

	final, _, _ := st.Current(ctx)
	return frame, scr.summary(final, frame, opts.Style)
}
