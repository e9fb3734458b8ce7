// Package constellation is the coordination actor: it owns the webview and
// pipeline registries, per-webview navigation history, and the paint
// permission machine, all mutated by a single run loop draining one inbox.
package constellation

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/orrery/embedder"
	"pkt.systems/orrery/internal/logx"
	"pkt.systems/orrery/internal/persist"
	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

// Deps wires the constellation to its collaborators. Compositor and Starter
// are required; the rest are optional.
type Deps struct {
	// Compositor sends a message to the compositor inbox.
	Compositor func(schema.CompositorMsg) error
	// Sink receives embedder events.
	Sink embedder.Sink
	// Starter launches content pipelines.
	Starter PipelineStarter
	// Resources is told to exit during shutdown.
	Resources ResourceExiter
	// Session persists snapshots when non-nil.
	Session *persist.Store
	// Logger defaults to the background context logger.
	Logger pslog.Logger
}

// Constellation is the coordination actor. All registry state is confined
// to the Run goroutine; producers talk to it through Send and TrySend.
type Constellation struct {
	cfg        schema.EngineConfig
	inbox      chan schema.ConstellationMsg
	compositor func(schema.CompositorMsg) error
	sink       embedder.Sink
	starter    PipelineStarter
	resources  ResourceExiter
	session    *persist.Store
	log        pslog.Logger

	pipelines map[schema.PipelineID]*Pipeline
	webviews  map[schema.WebViewID]*webView
	order     []schema.WebViewID
	focused   schema.WebViewID

	nextWebView  uint64
	nextPipeline uint64

	done chan struct{}
}

// webView is the registry entry for one webview. painter is the pipeline of
// this webview currently holding paint permission; pending is the candidate
// nominated to take over. Swaps within a webview supersede each other, swaps
// in different webviews proceed independently.
type webView struct {
	id        schema.WebViewID
	nav       navigationContext
	viewport  schema.ViewportDetails
	throttled bool
	painter   schema.PipelineID
	pending   *painterCandidate
}

// painterCandidate tracks the pipeline nominated to take over painting.
// armed means the compositor has been told to swap and the grant waits for
// its acknowledgment.
type painterCandidate struct {
	pipeline schema.PipelineID
	navType  schema.NavigationType
	armed    bool
}

// New constructs a Constellation.
func New(cfg schema.EngineConfig, deps Deps) (*Constellation, error) {
	normalized, err := schema.NormalizeEngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Compositor == nil {
		return nil, fmt.Errorf("%w: compositor send required", schema.ErrInvalidConfig)
	}
	if deps.Starter == nil {
		return nil, fmt.Errorf("%w: pipeline starter required", schema.ErrInvalidConfig)
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Constellation{
		cfg:        cfg,
		inbox:      make(chan schema.ConstellationMsg, cfg.ConstellationBuffer),
		compositor: deps.Compositor,
		sink:       deps.Sink,
		starter:    deps.Starter,
		resources:  deps.Resources,
		session:    deps.Session,
		log:        logger,
		pipelines:  make(map[schema.PipelineID]*Pipeline),
		webviews:   make(map[schema.WebViewID]*webView),
		done:       make(chan struct{}),
	}, nil
}

// Send posts a message to the constellation. It blocks while the inbox is
// full and returns ErrEngineClosed once the loop has exited.
func (c *Constellation) Send(msg schema.ConstellationMsg) error {
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
// warning; only a stopped loop is an error. Actor loops use this so no actor
// ever blocks on another actor's inbox.
func (c *Constellation) TrySend(msg schema.ConstellationMsg) error {
	select {
	case <-c.done:
		return schema.ErrEngineClosed
	default:
	}
	select {
	case c.inbox <- msg:
	default:
		c.log.Warn("constellation inbox full", "target", msg.LogTarget())
	}
	return nil
}

// Done is closed when the run loop has stopped.
func (c *Constellation) Done() <-chan struct{} { return c.done }

// Run drains the inbox until an ExitMsg arrives. It owns every registry
// field; nothing else touches them.
func (c *Constellation) Run() {
	c.log.Debug("constellation loop started")
	defer close(c.done)
	for {
		msg := <-c.inbox
		c.log.Trace("constellation message", "target", msg.LogTarget())
		if !c.dispatch(msg) {
			c.log.Debug("constellation loop stopped")
			return
		}
	}
}

// dispatch routes one message. It returns false to stop the run loop.
func (c *Constellation) dispatch(msg schema.ConstellationMsg) bool {
	switch m := msg.(type) {
	case schema.ExitMsg:
		c.handleExit()
		return false
	case schema.NewWebViewMsg:
		c.handleNewWebView(m)
	case schema.CloseWebViewMsg:
		c.handleCloseWebView(m)
	case schema.FocusWebViewMsg:
		c.handleFocusWebView(m)
	case schema.BlurWebViewMsg:
		c.handleBlurWebView()
	case schema.LoadURLMsg:
		c.handleLoadURL(m)
	case schema.ReloadMsg:
		c.handleReload(m)
	case schema.TraverseHistoryMsg:
		c.handleTraverseHistory(m)
	case schema.ChangeViewportDetailsMsg:
		c.handleChangeViewportDetails(m)
	case schema.SetWebViewThrottledMsg:
		c.handleSetWebViewThrottled(m)
	case schema.ThemeChangeMsg:
		c.handleThemeChange(m)
	case schema.LogEntryMsg:
		c.handleLogEntry(m)
	case schema.RendererReadyMsg:
		c.handleRendererReady(m)
	case schema.AnimationStateChangedMsg:
		c.handleAnimationStateChanged(m)
	case schema.LoadProgressMsg:
		c.handleLoadProgress(m)
	case schema.CompositorAckMsg:
		c.handleCompositorAck(m)
	case schema.TickAnimationMsg:
		c.handleTickAnimation(m)
	case schema.SetScrollStatesMsg:
		c.handleSetScrollStates(m)
	case schema.PaintMetricMsg:
		c.handlePaintMetric(m)
	default:
		c.log.Error("constellation message unhandled", "target", msg.LogTarget())
	}
	return true
}

func (c *Constellation) handleExit() {
	// Snapshot first, while the history registries can still resolve URLs.
	c.snapshotSession()
	for id, p := range c.pipelines {
		c.sendPipeline(p, schema.PipelineExitMsg{})
		delete(c.pipelines, id)
	}
	if c.resources != nil {
		c.resources.Exit()
	}
	c.sendCompositor(schema.CompositorExitMsg{})
	c.emit(0, schema.ShutdownCompleteMsg{})
	for _, view := range c.webviews {
		view.painter = 0
		view.pending = nil
	}
}

func (c *Constellation) handleNewWebView(m schema.NewWebViewMsg) {
	c.nextWebView++
	id := schema.WebViewID(c.nextWebView)
	view := &webView{id: id, viewport: m.Viewport}
	c.webviews[id] = view
	c.order = append(c.order, id)
	c.log.Info("constellation webview created", "webview", id, "url", m.URL)
	c.emit(id, schema.WebViewOpenedMsg{WebView: id})
	if c.focused == 0 {
		c.focused = id
		c.emit(id, schema.WebViewFocusedMsg{WebView: id})
	}
	c.startLoad(view, m.URL)
}

func (c *Constellation) handleCloseWebView(m schema.CloseWebViewMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	for id, p := range c.pipelines {
		if p.WebView != view.id {
			continue
		}
		c.sendPipeline(p, schema.PipelineExitMsg{})
		delete(c.pipelines, id)
	}
	c.sendCompositor(schema.ClearPainterMsg{WebView: view.id})
	delete(c.webviews, view.id)
	for i, id := range c.order {
		if id == view.id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.focused == view.id {
		c.focused = 0
		c.emit(0, schema.WebViewBlurredMsg{})
	}
	c.log.Info("constellation webview closed", "webview", view.id)
	c.emit(view.id, schema.WebViewClosedMsg{WebView: view.id})
	c.snapshotSession()
}

func (c *Constellation) handleFocusWebView(m schema.FocusWebViewMsg) {
	if _, ok := c.webviews[m.WebView]; !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	c.focused = m.WebView
	c.emit(m.WebView, schema.WebViewFocusedMsg{WebView: m.WebView})
}

func (c *Constellation) handleBlurWebView() {
	c.focused = 0
	c.emit(0, schema.WebViewBlurredMsg{})
}

func (c *Constellation) handleLoadURL(m schema.LoadURLMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	c.startLoad(view, m.URL)
}

func (c *Constellation) handleReload(m schema.ReloadMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	cur, ok := c.pipelines[view.nav.current]
	if !ok {
		c.log.Warn("constellation reload without committed page", "webview", view.id)
		return
	}
	c.startLoad(view, cur.URL)
}

// startLoad creates a fresh load-type pipeline and nominates it as the
// painter candidate. The old painter keeps painting until the swap commits.
func (c *Constellation) startLoad(view *webView, url string) {
	c.dropPendingPainter(view)
	c.nextPipeline++
	id := schema.PipelineID(c.nextPipeline)
	p := &Pipeline{
		ID:      id,
		WebView: view.id,
		URL:     url,
		NavType: schema.NavigationLoad,
		sender:  make(chan schema.PipelineMsg, c.cfg.PipelineBuffer),
	}
	log := c.log.With("webview", view.id, "pipeline", id)
	ctx := logx.ContextWithWebViewLogger(context.Background(), log, view.id)
	ctx = logx.ContextWithPipeline(ctx, id)
	spec := PipelineSpec{
		ID:            id,
		WebView:       view.id,
		URL:           url,
		NavType:       schema.NavigationLoad,
		Viewport:      view.viewport,
		Inbox:         p.sender,
		Constellation: c.Send,
		Compositor:    c.compositor,
	}
	if err := c.starter.StartPipeline(ctx, spec); err != nil {
		log.Error("constellation pipeline start failed", "url", url, "err", err)
		return
	}
	c.pipelines[id] = p
	view.pending = &painterCandidate{pipeline: id, navType: schema.NavigationLoad}
	log.Info("constellation load started", "url", url)
}

func (c *Constellation) handleTraverseHistory(m schema.TraverseHistoryMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	c.dropPendingPainter(view)
	var target schema.PipelineID
	switch m.Direction {
	case schema.TraverseForward:
		target, ok = view.nav.forward()
	default:
		target, ok = view.nav.back()
	}
	if !ok {
		c.log.Info("constellation history empty", "webview", view.id, "direction", m.Direction)
		return
	}
	if _, ok := c.pipelines[target]; !ok {
		c.log.Warn("constellation traversal target missing", "webview", view.id, "pipeline", target)
		switch m.Direction {
		case schema.TraverseForward:
			view.nav.back()
		default:
			view.nav.forward()
		}
		return
	}
	view.pending = &painterCandidate{pipeline: target, navType: schema.NavigationTraverse}
	c.log.Info("constellation history traversal", "webview", view.id, "direction", m.Direction, "pipeline", target)
	c.updatePainter(view)
}

func (c *Constellation) handleChangeViewportDetails(m schema.ChangeViewportDetailsMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	view.viewport = m.Viewport
	for _, p := range c.pipelines {
		if p.WebView != view.id || p.ID == view.painter {
			continue
		}
		c.sendPipeline(p, schema.PipelineResizeInactiveMsg{Viewport: m.Viewport})
	}
	if view.painter != 0 {
		// The painter hears about the resize on the active path.
		c.sendCompositor(schema.PainterViewportChangedMsg{WebView: view.id, Viewport: m.Viewport})
	}
}

func (c *Constellation) handleSetWebViewThrottled(m schema.SetWebViewThrottledMsg) {
	view, ok := c.webviews[m.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", m.WebView, "target", m.LogTarget())
		return
	}
	view.throttled = m.Throttled
	for _, p := range c.pipelines {
		if p.WebView != view.id {
			continue
		}
		c.sendPipeline(p, schema.PipelineSetThrottledMsg{Throttled: m.Throttled})
	}
}

func (c *Constellation) handleThemeChange(m schema.ThemeChangeMsg) {
	for _, p := range c.pipelines {
		c.sendPipeline(p, schema.PipelineThemeChangedMsg{Dark: m.Dark})
	}
}

func (c *Constellation) handleLogEntry(m schema.LogEntryMsg) {
	log := c.log
	if m.WebView != 0 {
		log = log.With("webview", m.WebView)
	}
	switch m.Level {
	case schema.LogLevelDebug:
		log.Debug(m.Message)
	case schema.LogLevelWarn:
		log.Warn(m.Message)
	case schema.LogLevelError:
		log.Error(m.Message)
	default:
		log.Info(m.Message)
	}
}

func (c *Constellation) handleRendererReady(m schema.RendererReadyMsg) {
	p, ok := c.pipelines[m.Pipeline]
	if !ok {
		c.log.Warn("constellation unknown pipeline", "pipeline", m.Pipeline, "target", m.LogTarget())
		return
	}
	view, ok := c.webviews[p.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", p.WebView, "target", m.LogTarget())
		return
	}
	if view.pending == nil || view.pending.pipeline != m.Pipeline || view.pending.armed {
		c.log.Debug("constellation renderer ready ignored", "pipeline", m.Pipeline)
		return
	}
	c.updatePainter(view)
}

// updatePainter revokes paint permission from the webview's painter, then
// tells the compositor to swap to the candidate. The grant itself waits for
// the compositor's acknowledgment, so permission is never held by two
// pipelines of one webview at once.
func (c *Constellation) updatePainter(view *webView) {
	if view.pending == nil || view.pending.armed {
		return
	}
	next, ok := c.pipelines[view.pending.pipeline]
	if !ok {
		c.log.Warn("constellation painter candidate missing", "pipeline", view.pending.pipeline)
		view.pending = nil
		return
	}
	if cur, ok := c.pipelines[view.painter]; ok {
		c.sendPipeline(cur, schema.PipelinePaintPermissionMsg{Granted: false})
	}
	view.painter = 0
	view.pending.armed = true
	c.log.Debug("constellation painter swap armed", "webview", next.WebView, "pipeline", next.ID)
	c.sendCompositor(schema.SetPainterMsg{WebView: next.WebView, Pipeline: next.ID, Render: next.sender})
}

func (c *Constellation) handleCompositorAck(m schema.CompositorAckMsg) {
	p, ok := c.pipelines[m.Pipeline]
	if !ok {
		c.log.Warn("constellation unexpected compositor ack", "pipeline", m.Pipeline)
		return
	}
	view, ok := c.webviews[p.WebView]
	if !ok {
		c.log.Warn("constellation unknown webview", "webview", p.WebView, "target", m.LogTarget())
		return
	}
	if view.pending == nil || !view.pending.armed || view.pending.pipeline != m.Pipeline {
		c.log.Warn("constellation unexpected compositor ack", "pipeline", m.Pipeline)
		return
	}
	navType := view.pending.navType
	view.pending = nil
	c.sendPipeline(p, schema.PipelinePaintPermissionMsg{Granted: true})
	view.painter = p.ID
	if navType == schema.NavigationLoad {
		c.exitPipelines(view.nav.navigate(p.ID))
	}
	c.exitPipelines(view.nav.trim(c.cfg.HistoryMax))
	c.log.Info("constellation painter committed",
		"webview", view.id, "pipeline", p.ID, "nav", navType)
	c.emitHistory(view)
	c.emit(view.id, schema.LoadStatusChangedMsg{Status: schema.LoadComplete})
	c.snapshotSession()
}

func (c *Constellation) handleTickAnimation(m schema.TickAnimationMsg) {
	for _, id := range m.WebViews {
		view, ok := c.webviews[id]
		if !ok {
			c.log.Warn("constellation unknown webview", "webview", id, "target", m.LogTarget())
			continue
		}
		if view.throttled {
			c.log.Trace("constellation tick skipped", "webview", id, "reason", "throttled")
			continue
		}
		p, ok := c.pipelines[view.painter]
		if !ok {
			continue
		}
		c.sendPipeline(p, schema.PipelineTickAnimationMsg{})
	}
}

func (c *Constellation) handleAnimationStateChanged(m schema.AnimationStateChangedMsg) {
	p, ok := c.pipelines[m.Pipeline]
	if !ok {
		c.log.Warn("constellation unknown pipeline", "pipeline", m.Pipeline, "target", m.LogTarget())
		return
	}
	p.Animating = m.Animating
	c.sendCompositor(schema.PainterAnimationsChangedMsg{
		WebView:   p.WebView,
		Pipeline:  p.ID,
		Animating: m.Animating,
	})
}

func (c *Constellation) handleLoadProgress(m schema.LoadProgressMsg) {
	p, ok := c.pipelines[m.Pipeline]
	if !ok {
		c.log.Warn("constellation unknown pipeline", "pipeline", m.Pipeline, "target", m.LogTarget())
		return
	}
	c.emit(p.WebView, schema.LoadStatusChangedMsg{Status: m.Status})
}

func (c *Constellation) handleSetScrollStates(m schema.SetScrollStatesMsg) {
	p, ok := c.pipelines[m.Pipeline]
	if !ok {
		c.log.Warn("constellation unknown pipeline", "pipeline", m.Pipeline, "target", m.LogTarget())
		return
	}
	c.sendPipeline(p, schema.PipelineSetScrollStatesMsg{Scroll: m.Scroll})
}

func (c *Constellation) handlePaintMetric(m schema.PaintMetricMsg) {
	p, ok := c.pipelines[m.Pipeline]
	if !ok {
		c.log.Warn("constellation unknown pipeline", "pipeline", m.Pipeline, "target", m.LogTarget())
		return
	}
	c.sendPipeline(p, schema.PipelinePaintMetricMsg{Event: m.Event})
}

// dropPendingPainter retires a candidate that a newer navigation in the same
// webview supersedes. A load-type candidate never reached the history, so its
// pipeline is exited; a traversal candidate's pipeline stays, it lives in the
// history.
func (c *Constellation) dropPendingPainter(view *webView) {
	if view.pending == nil {
		return
	}
	if view.pending.navType == schema.NavigationLoad {
		if p, ok := c.pipelines[view.pending.pipeline]; ok {
			c.log.Debug("constellation pending load superseded", "pipeline", p.ID)
			c.sendPipeline(p, schema.PipelineExitMsg{})
			delete(c.pipelines, p.ID)
		}
	} else {
		c.log.Debug("constellation pending traversal superseded", "pipeline", view.pending.pipeline)
	}
	view.pending = nil
}

func (c *Constellation) exitPipelines(ids []schema.PipelineID) {
	for _, id := range ids {
		p, ok := c.pipelines[id]
		if !ok {
			continue
		}
		c.sendPipeline(p, schema.PipelineExitMsg{})
		delete(c.pipelines, id)
	}
}

func (c *Constellation) emitHistory(view *webView) {
	ids := view.nav.entries()
	urls := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.pipelines[id]; ok {
			urls = append(urls, p.URL)
		} else {
			urls = append(urls, "")
		}
	}
	c.emit(view.id, schema.HistoryChangedMsg{Entries: urls, Current: view.nav.currentIndex()})
}

func (c *Constellation) snapshotSession() {
	if c.session == nil {
		return
	}
	snap := persist.Snapshot{SavedAt: time.Now()}
	for _, id := range c.order {
		view, ok := c.webviews[id]
		if !ok {
			continue
		}
		sess := persist.WebViewSession{
			Current: view.nav.currentIndex(),
			Focused: id == c.focused,
		}
		for _, pid := range view.nav.entries() {
			if p, ok := c.pipelines[pid]; ok {
				sess.URLs = append(sess.URLs, p.URL)
			}
		}
		if len(sess.URLs) == 0 {
			continue
		}
		snap.WebViews = append(snap.WebViews, sess)
	}
	if err := c.session.Save(snap); err != nil {
		c.log.Warn("constellation session snapshot failed", "err", err)
	}
}

func (c *Constellation) emit(id schema.WebViewID, msg schema.EmbedderMsg) {
	if c.sink == nil {
		return
	}
	c.sink.OnEmbedderEvent(embedder.Event{WebView: id, Msg: msg})
}

func (c *Constellation) sendPipeline(p *Pipeline, msg schema.PipelineMsg) {
	select {
	case p.sender <- msg:
	default:
		c.log.Warn("constellation pipeline send dropped",
			"pipeline", p.ID, "target", msg.LogTarget())
	}
}

func (c *Constellation) sendCompositor(msg schema.CompositorMsg) {
	if err := c.compositor(msg); err != nil {
		c.log.Warn("constellation compositor send failed", "target", msg.LogTarget(), "err", err)
	}
}
