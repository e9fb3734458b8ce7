package schema

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeEngineConfigDefaults(t *testing.T) {
	cfg, err := NormalizeEngineConfig(EngineConfig{})
	if err != nil {
		t.Fatalf("normalize empty config: %v", err)
	}
	if cfg.RefreshRate != DefaultRefreshRate {
		t.Fatalf("refresh rate = %d, want %d", cfg.RefreshRate, DefaultRefreshRate)
	}
	if cfg.EmbedderBuffer != DefaultEmbedderBuffer {
		t.Fatalf("embedder buffer = %d, want %d", cfg.EmbedderBuffer, DefaultEmbedderBuffer)
	}
	if cfg.ConstellationBuffer != DefaultConstellationBuffer {
		t.Fatalf("constellation buffer = %d, want %d", cfg.ConstellationBuffer, DefaultConstellationBuffer)
	}
	if cfg.CompositorBuffer != DefaultCompositorBuffer {
		t.Fatalf("compositor buffer = %d, want %d", cfg.CompositorBuffer, DefaultCompositorBuffer)
	}
	if cfg.PipelineBuffer != DefaultPipelineBuffer {
		t.Fatalf("pipeline buffer = %d, want %d", cfg.PipelineBuffer, DefaultPipelineBuffer)
	}
	if cfg.HistoryMax != DefaultHistoryMax {
		t.Fatalf("history max = %d, want %d", cfg.HistoryMax, DefaultHistoryMax)
	}
	if cfg.LoadDelay != DefaultLoadDelay {
		t.Fatalf("load delay = %s, want %s", cfg.LoadDelay, DefaultLoadDelay)
	}
	if cfg.StateDir != "" {
		t.Fatalf("state dir defaulted to %q, want empty", cfg.StateDir)
	}
}

func TestNormalizeEngineConfigKeepsExplicitValues(t *testing.T) {
	in := EngineConfig{
		RefreshRate:         60,
		EmbedderBuffer:      8,
		ConstellationBuffer: 4,
		CompositorBuffer:    4,
		PipelineBuffer:      2,
		HistoryMax:          3,
		StateDir:            "/tmp/orrery-test",
		LoadDelay:           time.Millisecond,
	}
	cfg, err := NormalizeEngineConfig(in)
	if err != nil {
		t.Fatalf("normalize explicit config: %v", err)
	}
	if cfg != in {
		t.Fatalf("normalize mutated explicit config: got %+v want %+v", cfg, in)
	}
}

func TestNormalizeEngineConfigRejectsNegatives(t *testing.T) {
	cases := []struct {
		name string
		cfg  EngineConfig
	}{
		{"refresh-rate", EngineConfig{RefreshRate: -1}},
		{"embedder-buffer", EngineConfig{EmbedderBuffer: -1}},
		{"constellation-buffer", EngineConfig{ConstellationBuffer: -1}},
		{"compositor-buffer", EngineConfig{CompositorBuffer: -1}},
		{"pipeline-buffer", EngineConfig{PipelineBuffer: -1}},
		{"history-max", EngineConfig{HistoryMax: -1}},
		{"load-delay", EngineConfig{LoadDelay: -time.Millisecond}},
	}
	for _, tc := range cases {
		_, err := NormalizeEngineConfig(tc.cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("case %q expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}
}

func TestFramePeriod(t *testing.T) {
	if got := (EngineConfig{RefreshRate: 120}).FramePeriod(); got != time.Second/120 {
		t.Fatalf("frame period at 120 Hz = %s", got)
	}
	if got := (EngineConfig{RefreshRate: 60}).FramePeriod(); got != time.Second/60 {
		t.Fatalf("frame period at 60 Hz = %s", got)
	}
	if got := (EngineConfig{}).FramePeriod(); got != time.Second/DefaultRefreshRate {
		t.Fatalf("frame period for zero config = %s", got)
	}
}
