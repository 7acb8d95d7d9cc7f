package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a system descriptor parses and builds",
	Long: `Parse a system descriptor and construct every body from it, reporting the
first error. Without a file argument the --system setting is checked, and
without that the built-in solar system.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		path := settings.System
		if len(args) == 1 {
			path = args[0]
		}

		system, err := config.Load(path)
		if err != nil {
			return err
		}

		registry := render.NewRegistry()
		s, err := sim.New(system, sim.Options{Registry: registry})
		if err != nil {
			return err
		}
		bodies := len(s.Bodies())
		live := registry.Live()
		if err := s.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d bodies, %d render resources\n", system.Source, bodies, live)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
