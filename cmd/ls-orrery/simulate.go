package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/render"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Step the simulation headlessly and print the result",
	Long: `Advance the system a fixed number of frames without a terminal UI, then
print a summary table of every body or, with --json, a snapshot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		steps, _ := cmd.Flags().GetInt("steps")
		dt, _ := cmd.Flags().GetFloat64("dt")
		asJSON, _ := cmd.Flags().GetBool("json")
		return simulate(cmd.OutOrStdout(), settings, steps, dt, asJSON)
	},
}

func init() {
	simulateCmd.Flags().Int("steps", 1, "number of frames to simulate")
	simulateCmd.Flags().Float64("dt", 1.0/30, "seconds of wall-clock time per frame")
	simulateCmd.Flags().Bool("json", false, "print a JSON snapshot instead of a table")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(w io.Writer, settings config.Settings, steps int, dt float64, asJSON bool) error {
	if steps < 0 {
		return fmt.Errorf("--steps must be >= 0, got %d", steps)
	}
	if dt < 0 {
		return fmt.Errorf("--dt must be >= 0, got %g", dt)
	}

	logger, closeLog, err := openLogger(settings, true)
	if err != nil {
		return err
	}
	defer closeLog()

	system, err := config.Load(settings.System)
	if err != nil {
		return err
	}

	s, err := newSimulation(system, settings, render.NewRegistry(), logger, nil)
	if err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		s.Advance(dt)
	}

	if asJSON {
		err = s.Export().WriteJSON(w)
	} else {
		s.WriteSummaryTable(w)
	}
	return errors.Join(err, s.Close())
}
