package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/starfield"
)

const histogramWidth = 40

var starsCmd = &cobra.Command{
	Use:   "stars",
	Short: "Generate a star field and print its statistics",
	Long: `Generate the background star field for the configured count, radius and
seed and report how it came out: distance from the sphere, size range,
palette use and a polar-angle histogram against the uniform expectation.
The same seed always prints the same field.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		bins, _ := cmd.Flags().GetInt("bins")
		asJSON, _ := cmd.Flags().GetBool("json")
		points, _ := cmd.Flags().GetBool("points")

		cfg := starConfig(settings)
		stars := starfield.Generate(cfg)
		w := cmd.OutOrStdout()

		switch {
		case points:
			writePoints(w, stars)
			return nil
		case asJSON:
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Seed int64 `json:"seed"`
				starfield.Summary
			}{cfg.Seed, starfield.Summarize(stars, cfg.Radius, bins)})
		default:
			writeStarSummary(w, cfg, starfield.Summarize(stars, cfg.Radius, bins))
			return nil
		}
	},
}

func init() {
	starsCmd.Flags().Int("bins", 9, "polar-angle histogram bins")
	starsCmd.Flags().Bool("json", false, "print statistics as JSON")
	starsCmd.Flags().Bool("points", false, "print every star as x y z size color")
	rootCmd.AddCommand(starsCmd)
}

func writeStarSummary(w io.Writer, cfg starfield.Config, s starfield.Summary) {
	fmt.Fprintf(w, "Star field: %d stars, radius %g, seed %d\n", s.Count, s.Radius, cfg.Seed)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "Max radius error:  %.3g\n", s.MaxRadiusError)
	fmt.Fprintf(w, "Size:              %.3f .. %.3f (mean %.3f)\n", s.MinSize, s.MaxSize, s.MeanSize)

	fmt.Fprint(w, "Colors:           ")
	for _, c := range s.Colors {
		fmt.Fprintf(w, " %s×%d", c.Color, c.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Polar angle    Count  Expected")
	var peak int
	for _, b := range s.Polar {
		peak = max(peak, b.Count)
	}
	for _, b := range s.Polar {
		bar := 0
		if peak > 0 {
			bar = b.Count * histogramWidth / peak
		}
		fmt.Fprintf(w, "%5.0f-%-5.0f° %7d %9.0f  %s\n", b.From, b.To, b.Count, b.Expected, strings.Repeat("█", bar))
	}
}

func writePoints(w io.Writer, stars []starfield.Star) {
	for _, s := range stars {
		fmt.Fprintf(w, "%.4f %.4f %.4f %.3f %s\n", s.Position.X, s.Position.Y, s.Position.Z, s.Size, s.Color.Hex())
	}
}
