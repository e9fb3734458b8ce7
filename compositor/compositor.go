// Package compositor schedules paints. The compositor goroutine owns the
// frame-refresh driver and its observer set, tracks each webview's painter
// pipeline, and coalesces deferred repaints into driven frames.
package compositor

import (
	"context"
	"sort"
	"time"

	"pkt.systems/orrery/embedder"
	"pkt.systems/orrery/refresh"
	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

// Deps wires the compositor to its collaborators.
type Deps struct {
	// Refresh is the frame scheduler. The compositor takes ownership and
	// closes it when the loop exits.
	Refresh *refresh.BaseDriver
	// Constellation sends a message to the constellation inbox.
	Constellation func(schema.ConstellationMsg) error
	// Sink receives embedder events (frame-ready notifications).
	Sink embedder.Sink
	// Logger defaults to the background context logger.
	Logger pslog.Logger
}

// Compositor is the paint scheduling actor. All fields are confined to the
// Run goroutine; producers talk to it through Send.
type Compositor struct {
	inbox         chan schema.CompositorMsg
	refresh       *refresh.BaseDriver
	anim          *refresh.AnimationObserver
	webviews      map[schema.WebViewID]*paintView
	byPipeline    map[schema.PipelineID]*paintView
	pending       map[refresh.RepaintReason]bool
	sink          embedder.Sink
	constellation func(schema.ConstellationMsg) error
	log           pslog.Logger
	done          chan struct{}
}

// paintView is the compositor's view of one webview: its painter pipeline,
// render endpoint, animation set, and frame epochs.
type paintView struct {
	id             schema.WebViewID
	pipeline       schema.PipelineID
	render         chan<- schema.PipelineMsg
	animating      map[schema.PipelineID]bool
	produced       schema.Epoch
	presented      schema.Epoch
	firstPaintSent bool
	viewport       schema.ViewportDetails
}

// ID implements refresh.AnimatingView.
func (v *paintView) ID() schema.WebViewID { return v.id }

// Animating implements refresh.AnimatingView.
func (v *paintView) Animating() bool { return len(v.animating) > 0 }

// New constructs a Compositor with the given inbox capacity.
func New(buffer int, deps Deps) *Compositor {
	if buffer <= 0 {
		buffer = schema.DefaultCompositorBuffer
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	constellation := deps.Constellation
	if constellation == nil {
		constellation = func(schema.ConstellationMsg) error { return schema.ErrEngineClosed }
	}
	c := &Compositor{
		inbox:         make(chan schema.CompositorMsg, buffer),
		refresh:       deps.Refresh,
		webviews:      make(map[schema.WebViewID]*paintView),
		byPipeline:    make(map[schema.PipelineID]*paintView),
		pending:       make(map[refresh.RepaintReason]bool),
		sink:          deps.Sink,
		constellation: constellation,
		log:           logger,
		done:          make(chan struct{}),
	}
	c.anim = refresh.NewAnimationObserver(constellation, logger)
	return c
}

// Send posts a message to the compositor. It blocks while the inbox is full
// and returns ErrEngineClosed once the loop has exited.
func (c *Compositor) Send(msg schema.CompositorMsg) error {
	select {
	case <-c.done:
		return schema.ErrEngineClosed
	default:
	}
	select {
	case c.inbox <- msg:
		return nil
	case <-c.done:
		return schema.ErrEngineClosed
	}
}

// TrySend posts without blocking. A full inbox drops the message with a
// warning; only a stopped loop is an error. Host spins and actor loops use
// this so nobody wedges on a busy compositor.
func (c *Compositor) TrySend(msg schema.CompositorMsg) error {
	select {
	case <-c.done:
		return schema.ErrEngineClosed
	default:
	}
	select {
	case c.inbox <- msg:
	default:
		c.log.Warn("compositor inbox full", "target", msg.LogTarget())
	}
	return nil
}

// Done is closed when the run loop has stopped.
func (c *Compositor) Done() <-chan struct{} { return c.done }

// Run drains the inbox until a CompositorExitMsg arrives. It owns every
// field of the Compositor; nothing else touches them.
func (c *Compositor) Run() {
	c.log.Debug("compositor loop started")
	defer close(c.done)
	for {
		msg := <-c.inbox
		c.log.Trace("compositor message", "target", msg.LogTarget())
		switch m := msg.(type) {
		case schema.CompositorExitMsg:
			if err := c.refresh.Close(); err != nil {
				c.log.Warn("refresh driver close failed", "err", err)
			}
			c.log.Debug("compositor loop stopped")
			return
		case schema.SetPainterMsg:
			c.handleSetPainter(m)
		case schema.PainterAnimationsChangedMsg:
			c.handleAnimationsChanged(m)
		case schema.PainterViewportChangedMsg:
			c.handleViewportChanged(m)
		case schema.ClearPainterMsg:
			c.handleClearPainter(m)
		case schema.PipelineFrameMsg:
			c.handlePipelineFrame(m)
		case schema.FlushRepaintsMsg:
			c.handleFlushRepaints()
		default:
			c.log.Error("compositor message unhandled", "target", msg.LogTarget())
		}
	}
}

// AnimatingWebViews implements refresh.Painter. The result is sorted so
// batched ticks are deterministic.
func (c *Compositor) AnimatingWebViews() []schema.WebViewID {
	ids := make([]schema.WebViewID, 0, len(c.webviews))
	for id, view := range c.webviews {
		if view.Animating() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Compositor) handleSetPainter(m schema.SetPainterMsg) {
	view := c.view(m.WebView)
	if view.pipeline != 0 {
		delete(c.byPipeline, view.pipeline)
	}
	view.pipeline = m.Pipeline
	view.render = m.Render
	view.produced = 0
	view.presented = 0
	view.firstPaintSent = false
	c.byPipeline[m.Pipeline] = view
	c.pending[refresh.RepaintNewPainter] = true
	c.sendConstellation(schema.CompositorAckMsg{Pipeline: m.Pipeline})
	c.log.Debug("compositor painter set", "webview", m.WebView, "pipeline", m.Pipeline)
	c.repaintIfAllowed()
}

func (c *Compositor) handleAnimationsChanged(m schema.PainterAnimationsChangedMsg) {
	view := c.view(m.WebView)
	if m.Animating {
		view.animating[m.Pipeline] = true
	} else {
		delete(view.animating, m.Pipeline)
	}
	c.log.Debug("compositor animations changed",
		"webview", m.WebView, "pipeline", m.Pipeline, "animating", m.Animating)
	if c.anim.NotifyAnimationStateChanged(view) {
		c.refresh.AddObserver(c.anim)
	}
}

func (c *Compositor) handleViewportChanged(m schema.PainterViewportChangedMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("viewport change for unknown webview", "webview", m.WebView)
		return
	}
	view.viewport = m.Viewport
	c.forwardRender(view, schema.PipelineViewportChangedMsg{Viewport: m.Viewport})
	c.pending[refresh.RepaintResize] = true
	c.repaintIfAllowed()
}

func (c *Compositor) handleClearPainter(m schema.ClearPainterMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		return
	}
	if view.pipeline != 0 {
		delete(c.byPipeline, view.pipeline)
	}
	delete(c.webviews, m.WebView)
	c.log.Debug("compositor painter cleared", "webview", m.WebView)
}

func (c *Compositor) handlePipelineFrame(m schema.PipelineFrameMsg) {
	view, ok := c.byPipeline[m.Pipeline]
	if !ok {
		c.log.Trace("frame from retired pipeline", "pipeline", m.Pipeline)
		return
	}
	if m.Epoch > view.produced {
		view.produced = m.Epoch
	}
	c.pending[refresh.RepaintNewFrameReady] = true
	c.repaintIfAllowed()
}

// handleFlushRepaints is the host painting on a wake. A host paint is never
// deferred, so it flushes whatever repaints were parked behind the pending
// frame. Observer dispatch still happens at most once per driven frame; the
// pending-frame guard inside NotifyWillPaint absorbs extra spins.
func (c *Compositor) handleFlushRepaints() {
	c.pending[refresh.RepaintSpin] = true
	c.repaintIfAllowed()
}

// repaintIfAllowed paints unless every pending reason defers to the
// scheduled frame. New composited frames wait for the frame boundary while
// animation observers are registered; everything else paints now.
func (c *Compositor) repaintIfAllowed() {
	if len(c.pending) == 0 {
		return
	}
	deferred := true
	for reason := range c.pending {
		if !c.refresh.WaitToPaint(reason) {
			deferred = false
			break
		}
	}
	if deferred {
		return
	}
	c.render()
}

func (c *Compositor) render() {
	reasons := len(c.pending)
	clear(c.pending)
	c.refresh.NotifyWillPaint(c)
	for _, view := range c.orderedViews() {
		if view.pipeline == 0 || view.produced <= view.presented {
			continue
		}
		view.presented = view.produced
		if c.sink != nil {
			c.sink.OnEmbedderEvent(embedder.Event{
				WebView: view.id,
				Msg:     schema.FrameReadyMsg{Pipeline: view.pipeline, Epoch: view.presented},
			})
		}
		if !view.firstPaintSent {
			view.firstPaintSent = true
			c.sendConstellation(schema.PaintMetricMsg{
				Pipeline: view.pipeline,
				Event:    schema.PaintMetricEvent{Kind: schema.MetricFirstPaint, At: time.Now()},
			})
		}
	}
	c.log.Trace("compositor painted", "reasons", reasons)
}

func (c *Compositor) orderedViews() []*paintView {
	views := make([]*paintView, 0, len(c.webviews))
	for _, view := range c.webviews {
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].id < views[j].id })
	return views
}

func (c *Compositor) view(id schema.WebViewID) *paintView {
	view, ok := c.webviews[id]
	if !ok {
		view = &paintView{id: id, animating: make(map[schema.PipelineID]bool)}
		c.webviews[id] = view
	}
	return view
}

func (c *Compositor) sendConstellation(msg schema.ConstellationMsg) {
	if err := c.constellation(msg); err != nil {
		c.log.Warn("constellation send failed", "target", msg.LogTarget(), "err", err)
	}
}

func (c *Compositor) forwardRender(view *paintView, msg schema.PipelineMsg) {
	if view.render == nil {
		return
	}
	select {
	case view.render <- msg:
	default:
		c.log.Warn("render channel full",
			"webview", view.id, "pipeline", view.pipeline, "target", msg.LogTarget())
	}
}
