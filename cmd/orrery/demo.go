package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/orrery"
	"pkt.systems/orrery/embedder"
	"pkt.systems/orrery/internal/appconfig"
	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

func newDemoCmd(flags *rootFlags) *cobra.Command {
	var cfgPath string
	var stateDir string
	var url string
	var secondURL string
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted engine session: load, animate, traverse, resize",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if stateDir != "" {
				cfg.StateDir = stateDir
			}
			level := flags.logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			format := flags.logFormat
			if format == "" {
				format = cfg.Logging.Format
			}
			logger, err := newLogger(os.Stderr, level, format)
			if err != nil {
				return err
			}
			ctx := pslog.ContextWithLogger(cmd.Context(), logger)
			return runDemo(ctx, cfg.EngineConfig(), demoScript{
				url:       url,
				secondURL: secondURL,
				duration:  duration,
			}, logger)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "override the session state directory")
	cmd.Flags().StringVar(&url, "url", "https://example.org/", "first page to load")
	cmd.Flags().StringVar(&secondURL, "second-url", "https://example.org/two", "second page to load")
	cmd.Flags().DurationVar(&duration, "duration", 2*time.Second, "animation time between steps")
	return cmd
}

// demoScript is the scripted host scenario.
type demoScript struct {
	url       string
	secondURL string
	duration  time.Duration
}

func runDemo(ctx context.Context, cfg schema.EngineConfig, script demoScript, logger pslog.Logger) error {
	waker := embedder.NewChannelWaker()
	eng, err := orrery.New(cfg, orrery.Deps{Waker: waker, Logger: logger})
	if err != nil {
		return err
	}
	if err := eng.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eng.Stop(stopCtx); err != nil {
			logger.Warn("demo engine stop failed", "err", err)
		}
	}()

	host := &demoHost{eng: eng, waker: waker, events: eng.Events(), log: logger}
	viewport := schema.ViewportDetails{Width: 1280, Height: 720, ScaleFactor: 1}

	logger.Info("demo opening webview", "url", script.url)
	if err := eng.Post(schema.NewWebViewMsg{URL: script.url, Viewport: viewport}); err != nil {
		return err
	}
	view, err := host.awaitWebView(ctx)
	if err != nil {
		return err
	}
	if err := host.awaitFrame(ctx); err != nil {
		return err
	}
	host.animate(ctx, script.duration)

	logger.Info("demo loading second page", "webview", view, "url", script.secondURL)
	if err := eng.Post(schema.LoadURLMsg{WebView: view, URL: script.secondURL}); err != nil {
		return err
	}
	if err := host.awaitLoadComplete(ctx); err != nil {
		return err
	}
	host.animate(ctx, script.duration)

	logger.Info("demo traversing history", "webview", view, "direction", schema.TraverseBack)
	if err := eng.Post(schema.TraverseHistoryMsg{WebView: view, Direction: schema.TraverseBack}); err != nil {
		return err
	}
	if err := host.awaitLoadComplete(ctx); err != nil {
		return err
	}
	logger.Info("demo traversing history", "webview", view, "direction", schema.TraverseForward)
	if err := eng.Post(schema.TraverseHistoryMsg{WebView: view, Direction: schema.TraverseForward}); err != nil {
		return err
	}
	if err := host.awaitLoadComplete(ctx); err != nil {
		return err
	}

	resized := schema.ViewportDetails{Width: 1920, Height: 1080, ScaleFactor: 1}
	logger.Info("demo resizing", "webview", view, "width", resized.Width, "height", resized.Height)
	if err := eng.Post(schema.ChangeViewportDetailsMsg{WebView: view, Viewport: resized}); err != nil {
		return err
	}
	if err := host.awaitFrame(ctx); err != nil {
		return err
	}
	host.animate(ctx, script.duration)

	logger.Info("demo requesting shutdown")
	if err := eng.Post(schema.ExitMsg{}); err != nil && !errors.Is(err, schema.ErrEngineClosed) {
		return err
	}
	if err := host.awaitShutdown(ctx); err != nil {
		return err
	}
	return eng.Wait()
}

// demoHost is the embedder side of the demo: it spins the engine on every
// wake, drains events, and narrates them through the logger.
type demoHost struct {
	eng    orrery.Engine
	waker  *embedder.ChannelWaker
	events *embedder.Receiver
	log    pslog.Logger
}

// pumpUntil spins and drains until want matches an event. A nil predicate
// never matches; use animate for time-bounded pumping.
func (h *demoHost) pumpUntil(ctx context.Context, want func(embedder.Event) bool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.waker.C():
			h.eng.Spin()
			for {
				ev, ok := h.events.TryNext()
				if !ok {
					break
				}
				h.logEvent(ev)
				if want != nil && want(ev) {
					return nil
				}
			}
		}
	}
}

// animate pumps frames for a fixed duration.
func (h *demoHost) animate(ctx context.Context, d time.Duration) {
	deadline := time.After(d)
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-h.waker.C():
			h.eng.Spin()
			for {
				ev, ok := h.events.TryNext()
				if !ok {
					break
				}
				h.logEvent(ev)
			}
		}
	}
}

func (h *demoHost) awaitWebView(ctx context.Context) (schema.WebViewID, error) {
	var id schema.WebViewID
	err := h.pumpUntil(ctx, func(ev embedder.Event) bool {
		if m, ok := ev.Msg.(schema.WebViewOpenedMsg); ok {
			id = m.WebView
			return true
		}
		return false
	})
	return id, err
}

func (h *demoHost) awaitFrame(ctx context.Context) error {
	return h.pumpUntil(ctx, func(ev embedder.Event) bool {
		_, ok := ev.Msg.(schema.FrameReadyMsg)
		return ok
	})
}

func (h *demoHost) awaitLoadComplete(ctx context.Context) error {
	return h.pumpUntil(ctx, func(ev embedder.Event) bool {
		m, ok := ev.Msg.(schema.LoadStatusChangedMsg)
		return ok && m.Status == schema.LoadComplete
	})
}

func (h *demoHost) awaitShutdown(ctx context.Context) error {
	return h.pumpUntil(ctx, func(ev embedder.Event) bool {
		_, ok := ev.Msg.(schema.ShutdownCompleteMsg)
		return ok
	})
}

func (h *demoHost) logEvent(ev embedder.Event) {
	switch m := ev.Msg.(type) {
	case schema.WebViewOpenedMsg:
		h.log.Info("demo webview opened", "webview", m.WebView)
	case schema.WebViewFocusedMsg:
		h.log.Info("demo webview focused", "webview", m.WebView)
	case schema.WebViewBlurredMsg:
		h.log.Info("demo webview blurred")
	case schema.WebViewClosedMsg:
		h.log.Info("demo webview closed", "webview", m.WebView)
	case schema.HistoryChangedMsg:
		h.log.Info("demo history changed",
			"webview", ev.WebView, "entries", strings.Join(m.Entries, " "), "current", m.Current)
	case schema.LoadStatusChangedMsg:
		h.log.Info("demo load status", "webview", ev.WebView, "status", m.Status)
	case schema.FrameReadyMsg:
		h.log.Debug("demo frame presented", "webview", ev.WebView, "pipeline", m.Pipeline, "epoch", m.Epoch)
	case schema.ShutdownCompleteMsg:
		h.log.Info("demo shutdown acknowledged")
	default:
		h.log.Debug("demo event", "target", ev.Msg.LogTarget())
	}
}
