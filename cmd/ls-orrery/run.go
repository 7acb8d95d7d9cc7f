package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/starfield"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
)

// Headless fallback when stdout is not a terminal.
const (
	fallbackSteps = 100
	fallbackDelta = 1.0 / 30
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive orrery (the default command)",
	Args:  cobra.NoArgs,
	RunE:  runOrrery,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Bool("watch", false, "reload the system file when it changes")
	pf.Duration("frame-interval", 0, "time between frames (default 33ms)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	bindFlag("watch", "watch")
	bindFlag("frame_interval", "frame-interval")
	bindFlag("metrics_addr", "metrics-addr")

	rootCmd.AddCommand(runCmd)
}

// runOrrery starts the TUI, or prints a headless summary when stdout is
// not a terminal.
func runOrrery(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return simulate(cmd.OutOrStdout(), settings, fallbackSteps, fallbackDelta, false)
	}

	// stderr would corrupt the alternate screen, so logs go to a file or nowhere.
	logger, closeLog, err := openLogger(settings, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	system, err := config.Load(settings.System)
	if err != nil {
		return err
	}

	registry := render.NewRegistry()
	stateMgr := state.NewManager(state.DefaultConfig())
	collector := metrics.NewCollector(registry)
	observers := sim.Observers{stateMgr, collector}

	s, err := newSimulation(system, settings, registry, logger, observers)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("close simulation: %v", err)
		}
	}()

	if settings.MetricsAddr != "" {
		go func() {
			if err := collector.Serve(ctx, settings.MetricsAddr, logger.With("metrics")); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	var reloads <-chan config.Reload
	if settings.Watch && settings.System != "" {
		w, err := config.NewWatcher(settings.System, logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", settings.System, err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch %s: %w", settings.System, err)
		}
		defer w.Stop()
		reloads = w.Reloads
	} else if settings.Watch {
		logger.Warn("--watch ignored: the built-in system has no file to watch")
	}

	model := ui.New(s, stateMgr, ui.Options{
		FrameInterval: settings.FrameInterval,
		Reloads:       reloads,
		Logger:        logger,
		Observer:      observers,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// newSimulation builds the simulation from loaded settings.
func newSimulation(system config.System, settings config.Settings, registry *render.Registry, logger *logging.Logger, obs sim.Observer) (*sim.Simulation, error) {
	return sim.New(system, sim.Options{
		Stars:    starConfig(settings),
		Speed:    settings.Speed,
		Registry: registry,
		Logger:   logger,
		Observer: obs,
	})
}

func starConfig(settings config.Settings) starfield.Config {
	cfg := starfield.DefaultConfig()
	cfg.Count = settings.Stars.Count
	cfg.Radius = settings.Stars.Radius
	cfg.Seed = settings.Stars.Seed
	cfg.MinSize = settings.Stars.MinSize
	cfg.MaxSize = settings.Stars.MaxSize
	return cfg
}

// openLogger returns the configured logger. With no log file, headless
// commands log to stderr and the TUI discards logs.
func openLogger(settings config.Settings, headless bool) (*logging.Logger, func(), error) {
	level := logging.ParseLevel(settings.LogLevel)
	logger := logging.New(level)

	if settings.LogFile == "" {
		if !headless {
			logger.SetOutput(io.Discard)
		}
		return logger, func() {}, nil
	}

	f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}
