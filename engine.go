// Package orrery is the frame-refresh scheduling and coordination core of a
// browser-style engine. It composes the constellation, compositor, refresh
// driver, and embedder boundary into one startable unit: hosts post
// navigation messages, drain embedder events, and spin the engine whenever
// the waker fires.
package orrery

import (
	"context"
	"errors"
	"io"
	"sync"

	"pkt.systems/orrery/compositor"
	"pkt.systems/orrery/constellation"
	"pkt.systems/orrery/embedder"
	"pkt.systems/orrery/internal/content"
	"pkt.systems/orrery/internal/persist"
	"pkt.systems/orrery/refresh"
	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

// Engine composes the coordination actors behind one lifecycle.
type Engine interface {
	// Start launches the actor loops and replays any persisted session.
	Start(ctx context.Context) error
	// Wait blocks until the loops have stopped.
	Wait() error
	// Stop requests shutdown and waits for the loops within ctx.
	Stop(ctx context.Context) error
	// Spin flushes deferred repaints. Hosts call it on every waker fire.
	Spin()
	// Post delivers a host message to the constellation.
	Post(msg schema.ConstellationMsg) error
	// Events returns the host-side event receiver.
	Events() *embedder.Receiver
}

// Deps captures host-provided collaborators. Waker should wake the host's
// event loop; the rest are optional. A nil Driver gets a timer at the
// configured refresh rate and a nil Starter gets the synthetic content
// starter.
type Deps struct {
	// Waker nudges the host loop on events and frame fires.
	Waker embedder.EventLoopWaker
	// Driver schedules frame callbacks.
	Driver refresh.Driver
	// Starter launches content pipelines.
	Starter constellation.PipelineStarter
	// Resources is told to exit during shutdown.
	Resources constellation.ResourceExiter
	// Logger defaults to the background context logger.
	Logger pslog.Logger
}

// Option adjusts engine construction.
type Option func(*engineOptions)

type engineOptions struct {
	sinks   []embedder.Sink
	session *persist.Store
}

// WithEventSink tees embedder events into an extra sink alongside the host
// receiver.
func WithEventSink(sink embedder.Sink) Option {
	return func(o *engineOptions) {
		if sink != nil {
			o.sinks = append(o.sinks, sink)
		}
	}
}

// WithSessionStore substitutes the session store derived from the configured
// state dir.
func WithSessionStore(store *persist.Store) Option {
	return func(o *engineOptions) { o.session = store }
}

// New constructs an engine without starting it.
func New(cfg schema.EngineConfig, deps Deps, opts ...Option) (Engine, error) {
	normalized, err := schema.NormalizeEngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}

	options := engineOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	session := options.session
	if session == nil && cfg.StateDir != "" {
		session, err = persist.NewStoreWithLogger(cfg.StateDir, logger)
		if err != nil {
			return nil, err
		}
	}

	proxy, receiver := embedder.NewPair(deps.Waker, cfg.EmbedderBuffer, logger)
	var sink embedder.Sink = proxy
	if len(options.sinks) > 0 {
		sink = eventFanout{sinks: append([]embedder.Sink{proxy}, options.sinks...)}
	}

	e := &engine{
		cfg:      cfg,
		log:      logger,
		proxy:    proxy,
		receiver: receiver,
		session:  session,
	}

	driver := deps.Driver
	if driver == nil {
		timer := refresh.NewTimerDriver(cfg.FramePeriod(), logger)
		e.owned = timer
		driver = timer
	}

	e.comp = compositor.New(cfg.CompositorBuffer, compositor.Deps{
		Refresh:       refresh.New(deps.Waker, driver, logger),
		Constellation: func(msg schema.ConstellationMsg) error { return e.cons.TrySend(msg) },
		Sink:          sink,
		Logger:        logger,
	})

	starter := deps.Starter
	if starter == nil {
		starter = content.NewStarter(content.Options{LoadDelay: cfg.LoadDelay, Animate: true})
	}

	cons, err := constellation.New(cfg, constellation.Deps{
		Compositor: e.comp.Send,
		Sink:       sink,
		Starter:    starter,
		Resources:  deps.Resources,
		Session:    session,
		Logger:     logger,
	})
	if err != nil {
		if e.owned != nil {
			_ = e.owned.Close()
		}
		return nil, err
	}
	e.cons = cons
	return e, nil
}

type engine struct {
	cfg      schema.EngineConfig
	log      pslog.Logger
	proxy    *embedder.Proxy
	receiver *embedder.Receiver
	comp     *compositor.Compositor
	cons     *constellation.Constellation
	session  *persist.Store
	owned    io.Closer

	mu      sync.Mutex
	started bool
}

func (e *engine) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		e.log.Warn("engine start rejected", "reason", "already started")
		return errors.New("engine already started")
	}
	e.started = true
	e.mu.Unlock()

	e.log.Info(
		"engine start",
		"refresh_rate", e.cfg.RefreshRate,
		"frame_period", e.cfg.FramePeriod(),
		"state_dir", e.cfg.StateDir,
	)
	go e.comp.Run()
	go e.cons.Run()
	go e.reap()
	go func() {
		select {
		case <-ctx.Done():
			_ = e.cons.Send(schema.ExitMsg{})
		case <-e.cons.Done():
		}
	}()
	e.restoreSession()
	return nil
}

func (e *engine) Wait() error {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		return errors.New("engine not started")
	}
	<-e.cons.Done()
	<-e.comp.Done()
	return nil
}

func (e *engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		return nil
	}
	e.log.Info("engine stop requested")
	if err := e.cons.Send(schema.ExitMsg{}); err != nil && !errors.Is(err, schema.ErrEngineClosed) {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	stopped := make(chan struct{})
	go func() {
		<-e.cons.Done()
		<-e.comp.Done()
		close(stopped)
	}()
	select {
	case <-stopped:
		e.log.Info("engine stopped")
		return nil
	case <-ctx.Done():
		e.log.Warn("engine stop timed out", "err", ctx.Err())
		return ctx.Err()
	}
}

func (e *engine) Spin() {
	_ = e.comp.TrySend(schema.FlushRepaintsMsg{})
}

func (e *engine) Post(msg schema.ConstellationMsg) error {
	return e.cons.Send(msg)
}

func (e *engine) Events() *embedder.Receiver {
	return e.receiver
}

// reap tears down engine-owned resources once both loops have stopped: the
// timer driver is joined and the receiver closed so draining hosts see a
// clean end of stream. Buffered events stay readable after close.
func (e *engine) reap() {
	<-e.cons.Done()
	<-e.comp.Done()
	if e.owned != nil {
		_ = e.owned.Close()
	}
	e.receiver.Close()
	e.log.Debug("engine loops stopped", "dropped_events", e.proxy.Dropped())
}

// restoreSession replays persisted webviews as fresh loads at each entry's
// current URL. Restore failures are logged and skipped; a stale session
// never blocks startup.
func (e *engine) restoreSession() {
	if e.session == nil {
		return
	}
	snapshot, ok, err := e.session.Load()
	if err != nil {
		e.log.Warn("engine session restore failed", "err", err)
		return
	}
	if !ok || len(snapshot.WebViews) == 0 {
		return
	}
	restored := 0
	var focus schema.WebViewID
	for _, view := range snapshot.WebViews {
		if view.Current < 0 || view.Current >= len(view.URLs) {
			continue
		}
		url := view.URLs[view.Current]
		if url == "" {
			continue
		}
		if err := e.cons.Send(schema.NewWebViewMsg{URL: url}); err != nil {
			e.log.Warn("engine session restore aborted", "err", err)
			return
		}
		restored++
		// A fresh constellation numbers webviews in post order, so the
		// nth restored view gets id n.
		if view.Focused && focus == 0 {
			focus = schema.WebViewID(restored)
		}
	}
	if focus > 1 {
		// The first webview is focused on creation already.
		if err := e.cons.Send(schema.FocusWebViewMsg{WebView: focus}); err != nil {
			e.log.Warn("engine session restore focus failed", "err", err)
		}
	}
	if restored > 0 {
		e.log.Info("engine session restored", "webviews", restored, "saved_at", snapshot.SavedAt)
	}
}
