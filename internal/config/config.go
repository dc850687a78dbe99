// Package config handles optimizer configuration loading and management.
package config

// Config holds all voxilator settings.
type Config struct {
	Optimize OptimizeConfig `yaml:"optimize"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OptimizeConfig holds the defaults for the filter and scale passes.
type OptimizeConfig struct {
	// ScaleFactor is the merge window seed; SCALExSCALE blocks of faces
	// merge into one under the square shape. Minimum 2.
	ScaleFactor int `yaml:"scale_factor"`
	// WindowShape is square, horizontal-strip or vertical-strip.
	WindowShape string `yaml:"window_shape"`
	// FilterStrategy is selected or unselected.
	FilterStrategy string `yaml:"filter_strategy"`
	// SelectedFacesOnly limits scaling to selected faces.
	SelectedFacesOnly bool `yaml:"selected_faces_only"`
	// PreserveUV keeps texture footprints across merges.
	PreserveUV bool `yaml:"preserve_uv"`
}

// CleanupConfig holds the post-pass mesh cleanup settings.
type CleanupConfig struct {
	// WeldThreshold is the distance under which duplicate vertices are
	// merged after an operation.
	WeldThreshold float64 `yaml:"weld_threshold"`
	// JoinObjects rejoins all objects into one after a filter pass.
	JoinObjects bool `yaml:"join_objects"`
	// RecenterOrigin moves the joined object's origin to its center of
	// mass after a filter pass.
	RecenterOrigin bool `yaml:"recenter_origin"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Optimize: OptimizeConfig{
			ScaleFactor:    2,
			WindowShape:    "square",
			FilterStrategy: "unselected",
		},
		Cleanup: CleanupConfig{
			WeldThreshold:  0.0001,
			JoinObjects:    true,
			RecenterOrigin: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
