// Package content runs synthetic pipelines: placeholder content event loops
// that load, render frames, and answer animation ticks so the coordination
// core can be exercised without a real script/layout/paint stack.
package content

import (
	"context"
	"time"

	"pkt.systems/orrery/constellation"
	"pkt.systems/orrery/internal/logx"
	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

// Options shape every pipeline the starter launches.
type Options struct {
	// LoadDelay is the simulated load time before the renderer reports
	// ready. Zero or negative selects the engine default.
	LoadDelay time.Duration
	// Animate makes each pipeline declare a running animation as soon as
	// it is granted paint permission.
	Animate bool
}

// Starter launches one goroutine per pipeline.
type Starter struct {
	opts Options
}

// NewStarter constructs a content starter.
func NewStarter(opts Options) *Starter {
	if opts.LoadDelay <= 0 {
		opts.LoadDelay = schema.DefaultLoadDelay
	}
	return &Starter{opts: opts}
}

// StartPipeline implements constellation.PipelineStarter.
func (s *Starter) StartPipeline(ctx context.Context, spec constellation.PipelineSpec) error {
	p := &pipeline{
		spec: spec,
		opts: s.opts,
		log:  logx.WithPipeline(ctx, spec.WebView, spec.ID),
	}
	go p.run()
	return nil
}

// pipeline is one synthetic content event loop. All fields are confined to
// the run goroutine.
type pipeline struct {
	spec constellation.PipelineSpec
	opts Options

	log       pslog.Logger
	epoch     schema.Epoch
	granted   bool
	throttled bool
	announced bool
	viewport  schema.ViewportDetails
	scroll    []schema.ScrollState
	dark      bool
}

func (p *pipeline) run() {
	p.log.Debug("content pipeline started", "url", p.spec.URL)
	defer p.log.Debug("content pipeline stopped")
	p.viewport = p.spec.Viewport
	p.sendConstellation(schema.LoadProgressMsg{Pipeline: p.spec.ID, Status: schema.LoadStarted})

	load := time.NewTimer(p.opts.LoadDelay)
	loading := true
	for loading {
		select {
		case <-load.C:
			loading = false
			p.sendConstellation(schema.RendererReadyMsg{Pipeline: p.spec.ID})
		case msg := <-p.spec.Inbox:
			if !p.handle(msg) {
				load.Stop()
				return
			}
		}
	}

	for {
		if !p.handle(<-p.spec.Inbox) {
			return
		}
	}
}

// handle processes one message; false stops the loop.
func (p *pipeline) handle(msg schema.PipelineMsg) bool {
	p.log.Trace("content message", "target", msg.LogTarget())
	switch m := msg.(type) {
	case schema.PipelineExitMsg:
		return false
	case schema.PipelinePaintPermissionMsg:
		p.granted = m.Granted
		if m.Granted {
			p.renderFrame()
			if p.opts.Animate && !p.announced {
				p.announced = true
				p.sendConstellation(schema.AnimationStateChangedMsg{Pipeline: p.spec.ID, Animating: true})
			}
		}
	case schema.PipelineTickAnimationMsg:
		if p.granted && !p.throttled {
			p.renderFrame()
		}
	case schema.PipelineResizeInactiveMsg:
		p.viewport = m.Viewport
	case schema.PipelineViewportChangedMsg:
		p.viewport = m.Viewport
		if p.granted {
			p.renderFrame()
		}
	case schema.PipelineSetScrollStatesMsg:
		p.scroll = m.Scroll
	case schema.PipelinePaintMetricMsg:
		p.log.Debug("content paint metric", "kind", m.Event.Kind)
	case schema.PipelineSetThrottledMsg:
		p.throttled = m.Throttled
	case schema.PipelineThemeChangedMsg:
		p.dark = m.Dark
	default:
		p.log.Error("content message unhandled", "target", msg.LogTarget())
	}
	return true
}

// renderFrame composites the next epoch and announces it.
func (p *pipeline) renderFrame() {
	p.epoch++
	p.sendCompositor(schema.PipelineFrameMsg{Pipeline: p.spec.ID, Epoch: p.epoch})
}

func (p *pipeline) sendConstellation(msg schema.ConstellationMsg) {
	if err := p.spec.Constellation(msg); err != nil {
		p.log.Warn("content constellation send failed", "target", msg.LogTarget(), "err", err)
	}
}

func (p *pipeline) sendCompositor(msg schema.CompositorMsg) {
	if err := p.spec.Compositor(msg); err != nil {
		p.log.Warn("content compositor send failed", "target", msg.LogTarget(), "err", err)
	}
}
