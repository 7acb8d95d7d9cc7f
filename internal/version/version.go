// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Hot reload of system files, Prometheus metrics, stars statistics command
// 0.2.0 - TOML system descriptors, mouse picking and info panel, star field sliders
// 0.1.0 - Initial release: top-down orrery view, seeded star field, headless simulate
