package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ORRERY_SPEED.
const EnvPrefix = "ORRERY"

// Range bounds a tunable parameter. A zero Step means continuous.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Clamp snaps v to the step grid anchored at Min and limits it to the range.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Slider ranges for the interactive controls.
var (
	SpeedRange      = Range{Min: 0, Max: 1_000_000}
	StarCountRange  = Range{Min: 100, Max: 5000, Step: 100}
	StarRadiusRange = Range{Min: 50, Max: 500, Step: 10}
)

// StarSettings configures the background star field.
type StarSettings struct {
	Count   int     `mapstructure:"count"`
	Radius  float64 `mapstructure:"radius"`
	Seed    int64   `mapstructure:"seed"`
	MinSize float64 `mapstructure:"min_size"`
	MaxSize float64 `mapstructure:"max_size"`
}

// Settings holds runtime configuration. Values are populated from
// .ls-orrery.yaml, ORRERY_* env vars, and CLI flags.
type Settings struct {
	Speed         float64       `mapstructure:"speed"`
	Stars         StarSettings  `mapstructure:"stars"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	System        string        `mapstructure:"system"`
	Watch         bool          `mapstructure:"watch"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	MetricsAddr   string        `mapstructure:"metrics_addr"`
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	viper.SetDefault("speed", 483712.0)
	viper.SetDefault("stars.count", 4000)
	viper.SetDefault("stars.radius", 100.0)
	viper.SetDefault("stars.seed", 42)
	viper.SetDefault("stars.min_size", 1.0)
	viper.SetDefault("stars.max_size", 3.0)
	viper.SetDefault("frame_interval", 33*time.Millisecond)
	viper.SetDefault("system", "")
	viper.SetDefault("watch", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("metrics_addr", "")
}

// BindEnv makes nested keys reachable from the environment, so stars.count
// reads ORRERY_STARS_COUNT.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// LoadSettings reads settings from viper, applying built-in defaults for any values
// not set by a config file, the environment, or flags. Slider values are
// clamped into their ranges.
func LoadSettings() (Settings, error) {
	SetDefaults()

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s.Normalize(), nil
}

// Normalize clamps slider values and repairs an inverted size range.
func (s Settings) Normalize() Settings {
	s.Speed = SpeedRange.Clamp(s.Speed)
	s.Stars.Count = int(StarCountRange.Clamp(float64(s.Stars.Count)))
	s.Stars.Radius = StarRadiusRange.Clamp(s.Stars.Radius)
	if s.Stars.MinSize <= 0 {
		s.Stars.MinSize = 1
	}
	if s.Stars.MaxSize < s.Stars.MinSize {
		s.Stars.MinSize, s.Stars.MaxSize = s.Stars.MaxSize, s.Stars.MinSize
		if s.Stars.MinSize <= 0 {
			s.Stars.MinSize = s.Stars.MaxSize
		}
	}
	if s.FrameInterval <= 0 {
		s.FrameInterval = 33 * time.Millisecond
	}
	return s
}
