package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/augmify/katana/cmd/katana/internal/config"
	"github.com/augmify/katana/cmd/katana/internal/todo"
	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/errors"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run a todo scenario and print the view tree",
		Long: `Mount the todo demo app, apply every step of a scenario file to its
store, and print the view tree after each step.

Scenario steps:
  add: {id, title, color}   Append a todo
  remove: ID                Delete a todo
  move: {id, to}            Move a todo to a new position
  toggle: ID                Flip a todo's done flag
  select: ID                Tap the todo's box (local selection state)

Settings are read from katana.yaml in the current directory unless --config
is given.

Flags:
  --config FILE   Read settings from FILE
  --dump          Print the final node tree as YAML
  --quiet         Only print the final view tree`,
		Usage: "katana run [--config FILE] [--dump] [--quiet] <scenario.yaml>",
		Run:   runRun,
	})
}

// transitionFPS is the frame rate transitions are sampled at for logging.
const transitionFPS = 60

type runOptions struct {
	configPath string
	dump       bool
	quiet      bool
}

func parseRunArgs(args []string) ([]string, runOptions, error) {
	opts := runOptions{}
	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--dump":
			opts.dump = true
		case arg == "--quiet":
			opts.quiet = true
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("--config requires a file path")
			}
			opts.configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--"):
			return nil, opts, fmt.Errorf("unknown flag %s", arg)
		default:
			filtered = append(filtered, arg)
		}
	}
	return filtered, opts, nil
}

func resolveConfig(opts runOptions) (*config.Resolved, error) {
	if opts.configPath != "" {
		return config.ResolveFile(opts.configPath)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Resolve(dir)
}

func runRun(args []string, out io.Writer) error {
	paths, opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	if len(paths) != 1 {
		return fmt.Errorf("exactly one scenario file is required\n\nUsage: katana run [--config FILE] <scenario.yaml>")
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg, os.Stderr)
	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Verbose, Logger: logger})
	defer errors.SetHandler(nil)

	sc, err := todo.LoadScenario(paths[0])
	if err != nil {
		return err
	}

	return runScenario(sc, cfg, logger, opts, out)
}

func runScenario(sc *todo.Scenario, cfg *config.Resolved, logger *slog.Logger, opts runOptions, out io.Writer) (err error) {
	defer errors.RecoverWithCallback("katana run", func(r any) {
		if contractErr, ok := errors.AsContractError(r); ok {
			err = contractErr
			return
		}
		err = fmt.Errorf("scenario aborted: %v", r)
	})

	reg := prometheus.NewRegistry()
	if cfg.Metrics {
		if err := core.RegisterMetrics(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	baseline, err := snapshot(reg)
	if err != nil {
		return err
	}

	animation.SetTransitioner(animation.TransitionerFunc(func(a animation.Animation, apply func()) {
		frames := a.Frames(transitionFPS)
		peak := 0.0
		for _, f := range frames {
			peak = max(peak, f.Progress)
		}
		logger.Debug("katana transition", "animation", a.String(), "frames", len(frames), "peak", peak)
		apply()
	}))
	defer animation.SetTransitioner(nil)

	logger.Info("katana scenario", "title", sc.Title, "todos", len(sc.Todos), "steps", len(sc.Steps),
		"animation", cfg.Animation.String())
	session := todo.NewSession(sc, logger, cfg.Animation)
	defer session.Close()

	if !opts.quiet {
		fmt.Fprintf(out, "== initial\n%s\n", session.Host())
	}
	for i, step := range sc.Steps {
		if err := session.Apply(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		if !opts.quiet {
			fmt.Fprintf(out, "== step %d: %s\n%s\n", i+1, step, session.Host())
		}
	}
	if opts.quiet {
		fmt.Fprintf(out, "%s\n", session.Host())
	}

	if opts.dump {
		data, err := core.DumpYAML(session.Root())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "== nodes\n%s\n", data)
	}

	if cfg.Metrics {
		fmt.Fprintln(out, "== metrics")
		if err := writeReport(reg, baseline, out); err != nil {
			return err
		}
	}
	return nil
}
