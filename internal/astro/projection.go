package astro

import "math"

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X float64 // Screen X (normalized, 1.0 = Extent)
	Y float64 // Screen Y, up positive
	R float64 // Original planar distance in scene units
}

// ScaleMode defines how radial distances are mapped to screen space.
type ScaleMode int

const (
	// ScaleLog uses log10(r+1), normalized so Extent maps to 1.
	ScaleLog ScaleMode = iota

	// ScaleSqrt compresses the outer system less aggressively than log.
	ScaleSqrt

	// ScaleLinear keeps true proportions.
	ScaleLinear
)

// String returns a short label for HUD display.
func (m ScaleMode) String() string {
	switch m {
	case ScaleLog:
		return "Log"
	case ScaleSqrt:
		return "Sqrt"
	case ScaleLinear:
		return "Linear"
	default:
		return "?"
	}
}

// ProjectionConfig configures the top-down projection.
type ProjectionConfig struct {
	Scale  float64   // Zoom factor
	Mode   ScaleMode // Radial mapping
	Extent float64   // Scene distance that maps to 1.0 at zoom 1
}

// DefaultProjectionConfig returns a reasonable default configuration.
func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{
		Scale:  1.0,
		Mode:   ScaleLog,
		Extent: 100,
	}
}

// ProjectTopDown projects a scene vector onto the screen, looking down the
// orbit axis. X points right and -Z points up.
func ProjectTopDown(v Vec3, cfg ProjectionConfig) ProjectedPoint {
	r := v.PlanarRadius()
	d := ScaleRadius(r, cfg)

	angle := math.Atan2(-v.Z, v.X)
	return ProjectedPoint{
		X: d * math.Cos(angle) * cfg.Scale,
		Y: d * math.Sin(angle) * cfg.Scale,
		R: r,
	}
}

// ScaleRadius applies the configured scaling mode to a radial distance.
// The result is 1.0 at cfg.Extent in every mode.
func ScaleRadius(r float64, cfg ProjectionConfig) float64 {
	extent := cfg.Extent
	if extent <= 0 {
		extent = 1
	}
	if r <= 0 {
		return 0
	}

	switch cfg.Mode {
	case ScaleSqrt:
		return math.Sqrt(r / extent)
	case ScaleLinear:
		return r / extent
	default:
		return math.Log10(r+1) / math.Log10(extent+1)
	}
}
