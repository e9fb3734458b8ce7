package schema

import (
	"fmt"
	"time"
)

// EngineConfig defines defaults and limits for the coordination core.
type EngineConfig struct {
	// RefreshRate is the frame-refresh cadence in Hz.
	RefreshRate int
	// EmbedderBuffer is the embedder event channel capacity. Events beyond
	// it are dropped with a warning rather than blocking the engine.
	EmbedderBuffer int
	// ConstellationBuffer is the constellation inbox capacity.
	ConstellationBuffer int
	// CompositorBuffer is the compositor inbox capacity.
	CompositorBuffer int
	// PipelineBuffer is the per-pipeline inbox capacity.
	PipelineBuffer int
	// HistoryMax bounds per-webview session history. Oldest entries beyond
	// it are evicted and their pipelines exited.
	HistoryMax int
	// StateDir enables session snapshots when non-empty.
	StateDir string
	// LoadDelay is the synthetic content pipeline's simulated load latency.
	LoadDelay time.Duration
}

const (
	// DefaultRefreshRate is the default frame cadence in Hz.
	DefaultRefreshRate = 120
	// DefaultEmbedderBuffer is the default embedder event channel capacity.
	DefaultEmbedderBuffer = 1024
	// DefaultConstellationBuffer is the default constellation inbox capacity.
	DefaultConstellationBuffer = 128
	// DefaultCompositorBuffer is the default compositor inbox capacity.
	DefaultCompositorBuffer = 128
	// DefaultPipelineBuffer is the default per-pipeline inbox capacity.
	DefaultPipelineBuffer = 32
	// DefaultHistoryMax is the default per-webview history bound.
	DefaultHistoryMax = 64
	// DefaultLoadDelay is the default synthetic load latency.
	DefaultLoadDelay = 2 * time.Millisecond
)

// FramePeriod converts the configured refresh rate into a frame duration.
func (cfg EngineConfig) FramePeriod() time.Duration {
	rate := cfg.RefreshRate
	if rate <= 0 {
		rate = DefaultRefreshRate
	}
	return time.Second / time.Duration(rate)
}

// NormalizeEngineConfig applies defaults and validates the config.
func NormalizeEngineConfig(cfg EngineConfig) (EngineConfig, error) {
	if cfg.RefreshRate < 0 {
		return EngineConfig{}, fmt.Errorf("%w: refresh rate %d", ErrInvalidConfig, cfg.RefreshRate)
	}
	if cfg.EmbedderBuffer < 0 || cfg.ConstellationBuffer < 0 || cfg.CompositorBuffer < 0 || cfg.PipelineBuffer < 0 {
		return EngineConfig{}, fmt.Errorf("%w: channel buffers must not be negative", ErrInvalidConfig)
	}
	if cfg.HistoryMax < 0 {
		return EngineConfig{}, fmt.Errorf("%w: history max %d", ErrInvalidConfig, cfg.HistoryMax)
	}
	if cfg.LoadDelay < 0 {
		return EngineConfig{}, fmt.Errorf("%w: load delay %s", ErrInvalidConfig, cfg.LoadDelay)
	}
	if cfg.RefreshRate == 0 {
		cfg.RefreshRate = DefaultRefreshRate
	}
	if cfg.EmbedderBuffer == 0 {
		cfg.EmbedderBuffer = DefaultEmbedderBuffer
	}
	if cfg.ConstellationBuffer == 0 {
		cfg.ConstellationBuffer = DefaultConstellationBuffer
	}
	if cfg.CompositorBuffer == 0 {
		cfg.CompositorBuffer = DefaultCompositorBuffer
	}
	if cfg.PipelineBuffer == 0 {
		cfg.PipelineBuffer = DefaultPipelineBuffer
	}
	if cfg.HistoryMax == 0 {
		cfg.HistoryMax = DefaultHistoryMax
	}
	if cfg.LoadDelay == 0 {
		cfg.LoadDelay = DefaultLoadDelay
	}
	return cfg, nil
}
