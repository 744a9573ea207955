package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/stepsort/internal/config"
	"github.com/aretw0/stepsort/internal/presentation/tui"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/runner"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/aretw0/stepsort/pkg/sorting"
	"github.com/muesli/termenv"
)

var errSwitchUnsupported = errors.New("persisted sessions keep their algorithm and numbers")

// stepper is what the screen drives: a local runner or a stored session.
type stepper interface {
	Current(ctx context.Context) ([]int, domain.Frame, error)
	Step(ctx context.Context) ([]int, domain.Frame, error)
	Reset(ctx context.Context) ([]int, domain.Frame, error)
	Switch(ctx context.Context, algorithm string) ([]int, domain.Frame, error)
	Load(ctx context.Context, numbers []int) ([]int, domain.Frame, error)
}

type localStepper struct {
	r *runner.Runner
}

func (s *localStepper) Current(context.Context) ([]int, domain.Frame, error) {
	return s.r.Numbers(), s.r.Frame(), nil
}

func (s *localStepper) Step(ctx context.Context) ([]int, domain.Frame, error) {
	f := s.r.Step(ctx)
	return s.r.Numbers(), f, nil
}

func (s *localStepper) Reset(ctx context.Context) ([]int, domain.Frame, error) {
	s.r.Reset(ctx)
	return s.Current(ctx)
}

func (s *localStepper) Switch(ctx context.Context, algorithm string) ([]int, domain.Frame, error) {
	if err := s.r.Switch(ctx, algorithm); err != nil {
		return nil, domain.Frame{}, err
	}
	return s.Current(ctx)
}

func (s *localStepper) Load(ctx context.Context, numbers []int) ([]int, domain.Frame, error) {
	s.r.Load(ctx, numbers)
	return s.Current(ctx)
}

type sessionStepper struct {
	m  *session.Manager
	id string
}

func unpack(v *session.View, err error) ([]int, domain.Frame, error) {
	if err != nil {
		return nil, domain.Frame{}, err
	}
	return v.Numbers, v.Frame, nil
}

func (s *sessionStepper) Current(ctx context.Context) ([]int, domain.Frame, error) {
	return unpack(s.m.Get(ctx, s.id))
}

func (s *sessionStepper) Step(ctx context.Context) ([]int, domain.Frame, error) {
	return unpack(s.m.Advance(ctx, s.id, 1))
}

func (s *sessionStepper) Reset(ctx context.Context) ([]int, domain.Frame, error) {
	return unpack(s.m.Reset(ctx, s.id))
}

func (s *sessionStepper) Switch(context.Context, string) ([]int, domain.Frame, error) {
	return nil, domain.Frame{}, errSwitchUnsupported
}

func (s *sessionStepper) Load(context.Context, []int) ([]int, domain.Frame, error) {
	return nil, domain.Frame{}, errSwitchUnsupported
}

// newStepper builds a local runner, or resumes (creating if needed) a
// persisted session when a session ID is given. Persisted sessions default
// to the file store.
func newStepper(ctx context.Context, opts RunOptions, logger *slog.Logger) (stepper, func() error, error) {
	noop := func() error { return nil }

	if opts.SessionID == "" {
		numbers, err := resolveNumbers(opts)
		if err != nil {
			return nil, noop, err
		}
		r, err := runner.New(opts.Algorithm, numbers,
			runner.WithID("local"),
			runner.WithSeed(opts.Seed),
			runner.WithLogger(logger),
		)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("run created", "algorithm", r.Algorithm(), "length", len(numbers), "seed", opts.Seed)
		return &localStepper{r: r}, noop, nil
	}

	cfg := opts.Config
	if cfg.Store.Backend == "" || cfg.Store.Backend == config.StoreMemory {
		cfg.Store.Backend = config.StoreFile
	}
	mgr, closeFn, err := BuildManager(ctx, cfg, logger, nil, domain.LifecycleHooks{})
	if err != nil {
		return nil, noop, err
	}

	if opts.Fresh {
		if err := mgr.Delete(ctx, opts.SessionID); err != nil {
			_ = closeFn()
			return nil, noop, err
		}
	}

	if err := openSession(ctx, mgr, opts); err != nil {
		_ = closeFn()
		return nil, noop, err
	}
	return &sessionStepper{m: mgr, id: opts.SessionID}, closeFn, nil
}

// openSession resumes opts.SessionID or creates it. A process that loses the
// race to create the same ID resumes the winner's session.
func openSession(ctx context.Context, mgr *session.Manager, opts RunOptions) error {
	v, err := mgr.Get(ctx, opts.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		numbers, nerr := resolveNumbers(opts)
		if nerr != nil {
			return nerr
		}
		_, err = mgr.Create(ctx, session.CreateParams{
			ID:        opts.SessionID,
			Algorithm: opts.Algorithm,
			Numbers:   numbers,
			Seed:      opts.Seed,
		})
		if err == nil {
			if !opts.Quiet {
				printSystemMessage(opts.Out, "Session '%s' active.", opts.SessionID)
			}
			return nil
		}
		if !errors.Is(err, session.ErrSessionExists) {
			return err
		}
		v, err = mgr.Get(ctx, opts.SessionID)
	}
	if err != nil {
		return err
	}
	if !opts.Quiet {
		printSystemMessage(opts.Out, "Resuming session '%s' at step %d.", opts.SessionID, v.Frame.Step)
	}
	return nil
}

// screen renders frames and tracks how long the run has been sorting.
type screen struct {
	out   io.Writer
	bars  *tui.Bars
	clear bool
	bell  bool
	now   func() time.Time
	rng   *rand.Rand

	start   time.Time
	stopped time.Time
}

func newScreen(opts RunOptions) *screen {
	width, height := tui.DefaultWidth, tui.DefaultHeight
	if f, ok := opts.Out.(*os.File); ok && !opts.Plain {
		width, height = tui.Size(f)
	}
	bars := tui.NewBars(width, max(height-4, 4))
	if opts.Plain {
		bars.Profile = termenv.Ascii
	}
	return &screen{
		out:   opts.Out,
		bars:  bars,
		clear: !opts.Plain,
		bell:  opts.Bell,
		now:   time.Now,
		rng:   sorting.NewSource(opts.Seed + 1),
	}
}

func (s *screen) elapsed() time.Duration {
	switch {
	case s.start.IsZero():
		return 0
	case !s.stopped.IsZero():
		return s.stopped.Sub(s.start)
	}
	return s.now().Sub(s.start)
}

func (s *screen) draw(numbers []int, f domain.Frame) {
	switch {
	case f.Step == 0:
		s.start, s.stopped = time.Time{}, time.Time{}
	case s.start.IsZero():
		s.start = s.now()
	}
	if f.Finished() && s.stopped.IsZero() {
		s.stopped = s.now()
		if s.bell {
			fmt.Fprint(s.out, "\a")
		}
	}

	if s.clear {
		fmt.Fprint(s.out, tui.ClearScreen)
	}
	fmt.Fprint(s.out, s.bars.Render(numbers, f))
	fmt.Fprintln(s.out, tui.Status(f, s.elapsed()))
}

// play steps once per delay until the run finishes. A positive limit stops
// the run after that many steps with domain.ErrStepLimit.
func (s *screen) play(ctx context.Context, st stepper, delay time.Duration, limit int) (domain.Frame, error) {
	_, f, err := st.Current(ctx)
	if err != nil {
		return f, err
	}
	if delay <= 0 {
		delay = time.Millisecond
	}
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for !f.Finished() {
		if limit > 0 && f.Step >= limit {
			return f, fmt.Errorf("%w: %s after %d steps", domain.ErrStepLimit, f.Algorithm, f.Step)
		}
		if err := ctx.Err(); err != nil {
			return f, err
		}
		select {
		case <-ctx.Done():
			return f, ctx.Err()
		case <-ticker.C:
		}

		var numbers []int
		numbers, f, err = st.Step(ctx)
		if err != nil {
			return f, err
		}
		s.draw(numbers, f)
	}
	return f, nil
}

const (
	stepHelp     = "[enter] step  [<n>] n steps  [p] play  [r] reset  [x] shuffle  [a <name>] algorithm  [q] quit"
	finishedHelp = "Sorted. [r] reset  [x] shuffle  [a <name>] algorithm  [q] quit"
)

// stepLoop advances on user commands read from lines. A finished run stays
// in the loop so it can be reset, shuffled or switched; closed input ends a
// finished run cleanly and an unfinished one with io.EOF.
func (s *screen) stepLoop(ctx context.Context, st stepper, lines <-chan string, opts RunOptions) (domain.Frame, error) {
	numbers, f, err := st.Current(ctx)
	if err != nil {
		return f, err
	}
	fmt.Fprintln(s.out, stepHelp)

	for {
		var line string
		select {
		case <-ctx.Done():
			return f, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if f.Finished() {
					return f, nil
				}
				return f, io.EOF
			}
			line = strings.TrimSpace(l)
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case "", "s", "n":
			if f.Finished() {
				fmt.Fprintln(s.out, finishedHelp)
				continue
			}
			numbers, f, err = st.Step(ctx)
		case "p", "play":
			if f, err = s.play(ctx, st, opts.Delay, opts.Limit); err != nil {
				return f, err
			}
			numbers, f, err = st.Current(ctx)
			if err != nil {
				return f, err
			}
			fmt.Fprintln(s.out, finishedHelp)
			continue
		case "r", "reset":
			numbers, f, err = st.Reset(ctx)
		case "x", "shuffle":
			var fresh []int
			fresh, err = sequence.Generate(opts.Floor, opts.Ceil, len(numbers), s.rng)
			if err == nil {
				numbers, f, err = st.Load(ctx, fresh)
			}
		case "a", "algorithm":
			numbers, f, err = st.Switch(ctx, strings.TrimSpace(arg))
		case "q", "quit", "exit":
			return f, nil
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil || n < 1 {
				fmt.Fprintf(s.out, "unknown command %q\n%s\n", line, stepHelp)
				continue
			}
			for i := 0; i < n && !f.Finished() && err == nil; i++ {
				numbers, f, err = st.Step(ctx)
			}
		}

		if err != nil {
			if errors.Is(err, domain.ErrUnknownAlgorithm) || errors.Is(err, errSwitchUnsupported) || errors.Is(err, domain.ErrInvalidSequence) {
				fmt.Fprintf(s.out, "error: %v\n", err)
				numbers, f, err = st.Current(ctx)
				if err == nil {
					continue
				}
			}
			return f, err
		}
		s.draw(numbers, f)
		if f.Finished() {
			fmt.Fprintln(s.out, finishedHelp)
		}
	}
}

// summary renders the closing markdown table.
func (s *screen) summary(numbers []int, f domain.Frame, style string) error {
	render, err := tui.NewRenderer(style, s.bars.Width)
	if err != nil {
		return err
	}
	out, err := render(tui.Summary(f, numbers, s.elapsed()))
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, out)
	return nil
}

// readLines pumps r into a channel until EOF or ctx is done. A read blocked
// on a terminal outlives ctx; the goroutine exits with the process.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
