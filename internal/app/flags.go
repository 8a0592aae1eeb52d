package app

import (
	"flag"

	"worldengine/internal/config"
)

// Config holds the viewer's command-line options.
type Config struct {
	Generate *config.Generate
	Settings string
	Open     string
	Scale    int
	TPS      int
}

// NewConfig returns the viewer defaults.
func NewConfig() *Config {
	return &Config{Generate: config.NewGenerate(), Settings: config.DefaultPath}
}

// Bind attaches the configuration to the provided FlagSet. Scale and TPS
// default to the settings file when left at 0.
func (c *Config) Bind(fs *flag.FlagSet) {
	c.Generate.Bind(fs)
	fs.StringVar(&c.Settings, "settings", c.Settings, "settings file")
	fs.StringVar(&c.Open, "open", c.Open, "world file to open at start and reload with O")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
}

// Apply fills unset options from the settings file.
func (c *Config) Apply(s config.Settings) {
	if c.Scale <= 0 {
		c.Scale = s.Viewer.Scale
	}
	if c.TPS <= 0 {
		c.TPS = s.Viewer.TPS
	}
}
