package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-orrery/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ls-orrery",
	Short: "Terminal orrery",
	Long: `ls-orrery simulates a Sun, its planets and their moons, and draws them
top-down in the terminal over a seeded star field. Click a body to see its
details. With no subcommand it starts the interactive view.`,
	SilenceUsage: true,
	RunE:         runOrrery,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .ls-orrery.yaml)")
	pf.String("system", "", "system descriptor TOML (default: built-in solar system)")
	pf.Float64("speed", 0, "simulation speed factor (0..1000000)")
	pf.Int("star-count", 0, "number of background stars (100..5000)")
	pf.Float64("star-radius", 0, "star sphere radius (50..500)")
	pf.Int64("seed", 0, "star field seed")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "write logs to this file (TUI logs are discarded otherwise)")

	bindFlag("system", "system")
	bindFlag("speed", "speed")
	bindFlag("stars.count", "star-count")
	bindFlag("stars.radius", "star-radius")
	bindFlag("stars.seed", "seed")
	bindFlag("log_level", "log-level")
	bindFlag("log_file", "log-file")
}

// bindFlag binds a persistent flag to a settings key. An unset flag does
// not shadow the config file or environment.
func bindFlag(key, flag string) {
	_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-orrery")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv()

	// A missing config file is fine; defaults apply.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: config: %v\n", err)
		}
	}
}
