package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/orrery/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string          `mapstructure:"state_dir" yaml:"state_dir"`
	Engine        EngineSection   `mapstructure:"engine" yaml:"engine"`
	Channels      ChannelsSection `mapstructure:"channels" yaml:"channels"`
	Logging       LoggingSection  `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// EngineSection controls frame cadence and navigation limits.
type EngineSection struct {
	RefreshRate int `mapstructure:"refresh_rate" yaml:"refresh_rate"`
	HistoryMax  int `mapstructure:"history_max" yaml:"history_max"`
	LoadDelayMS int `mapstructure:"load_delay_ms" yaml:"load_delay_ms"`
}

// ChannelsSection sizes the actor inboxes.
type ChannelsSection struct {
	Embedder      int `mapstructure:"embedder" yaml:"embedder"`
	Constellation int `mapstructure:"constellation" yaml:"constellation"`
	Compositor    int `mapstructure:"compositor" yaml:"compositor"`
	Pipeline      int `mapstructure:"pipeline" yaml:"pipeline"`
}

// LoggingSection controls log level and output format.
type LoggingSection struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".orrery", "state"),
		Engine: EngineSection{
			RefreshRate: schema.DefaultRefreshRate,
			HistoryMax:  schema.DefaultHistoryMax,
			LoadDelayMS: int(schema.DefaultLoadDelay / time.Millisecond),
		},
		Channels: ChannelsSection{
			Embedder:      schema.DefaultEmbedderBuffer,
			Constellation: schema.DefaultConstellationBuffer,
			Compositor:    schema.DefaultCompositorBuffer,
			Pipeline:      schema.DefaultPipelineBuffer,
		},
		Logging: LoggingSection{
			Level:  "info",
			Format: "console",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".orrery", "config.yaml"), nil
}

// EngineConfig lowers the file representation into the engine's runtime config.
func (c Config) EngineConfig() schema.EngineConfig {
	return schema.EngineConfig{
		RefreshRate:         c.Engine.RefreshRate,
		EmbedderBuffer:      c.Channels.Embedder,
		ConstellationBuffer: c.Channels.Constellation,
		CompositorBuffer:    c.Channels.Compositor,
		PipelineBuffer:      c.Channels.Pipeline,
		HistoryMax:          c.Engine.HistoryMax,
		StateDir:            c.StateDir,
		LoadDelay:           time.Duration(c.Engine.LoadDelayMS) * time.Millisecond,
	}
}
