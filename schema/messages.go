package schema

// ConstellationMsg is a message bound for the constellation run loop. The
// union is sealed; every variant carries a unique static log-routing target
// named after its primary producer.
type ConstellationMsg interface {
	// LogTarget returns the static log-routing target for the variant.
	LogTarget() string
	isConstellationMsg()
}

// ExitMsg asks the constellation to shut the engine down: exit every
// pipeline, release shared resources, acknowledge, and stop the loop.
type ExitMsg struct{}

// NewWebViewMsg creates a webview and starts a load-type pipeline for URL.
type NewWebViewMsg struct {
	URL      string
	Viewport ViewportDetails
}

// CloseWebViewMsg destroys a webview and every pipeline in its history.
type CloseWebViewMsg struct {
	WebView WebViewID
}

// FocusWebViewMsg moves embedder focus to a webview.
type FocusWebViewMsg struct {
	WebView WebViewID
}

// BlurWebViewMsg clears embedder focus.
type BlurWebViewMsg struct{}

// LoadURLMsg starts a fresh load-type pipeline in an existing webview. The
// old painter keeps painting until the new pipeline's swap commits.
type LoadURLMsg struct {
	WebView WebViewID
	URL     string
}

// ReloadMsg reloads the webview's current document in a new pipeline.
type ReloadMsg struct {
	WebView WebViewID
}

// TraverseHistoryMsg pops one entry off the webview's back or forward stack
// and makes it the painter candidate immediately. An empty stack is logged
// and the message dropped.
type TraverseHistoryMsg struct {
	WebView   WebViewID
	Direction TraverseDirection
}

// ChangeViewportDetailsMsg records a new viewport and broadcasts the resize
// to every pipeline of the webview except the current painter, which gets it
// through the compositor's active path.
type ChangeViewportDetailsMsg struct {
	WebView  WebViewID
	Viewport ViewportDetails
}

// SetWebViewThrottledMsg throttles or unthrottles a webview. Throttled
// webviews are skipped by animation ticks.
type SetWebViewThrottledMsg struct {
	WebView   WebViewID
	Throttled bool
}

// ThemeChangeMsg broadcasts a theme switch to every pipeline.
type ThemeChangeMsg struct {
	Dark bool
}

// LogEntryMsg injects a log line from the embedder into the engine log.
type LogEntryMsg struct {
	WebView WebViewID
	Level   LogLevel
	Message string
}

// RendererReadyMsg signals that a pipeline has rendered its first frame and
// can take over painting.
type RendererReadyMsg struct {
	Pipeline PipelineID
}

// AnimationStateChangedMsg signals that a pipeline started or stopped
// running animations.
type AnimationStateChangedMsg struct {
	Pipeline  PipelineID
	Animating bool
}

// LoadProgressMsg reports document load progress from a pipeline.
type LoadProgressMsg struct {
	Pipeline PipelineID
	Status   LoadStatus
}

// CompositorAckMsg acknowledges that the compositor finished swapping its
// painter to the given pipeline. Paint permission is granted on receipt.
type CompositorAckMsg struct {
	Pipeline PipelineID
}

// TickAnimationMsg requests one animation tick for a batch of webviews. The
// animation frame-refresh observer is the primary producer; embedders may
// also post it to force a tick.
type TickAnimationMsg struct {
	WebViews []WebViewID
}

// SetScrollStatesMsg routes updated scroll offsets to a pipeline.
type SetScrollStatesMsg struct {
	Pipeline PipelineID
	Scroll   []ScrollState
}

// PaintMetricMsg routes a paint timing sample to the owning pipeline.
type PaintMetricMsg struct {
	Pipeline PipelineID
	Event    PaintMetricEvent
}

func (ExitMsg) isConstellationMsg()                  {}
func (NewWebViewMsg) isConstellationMsg()            {}
func (CloseWebViewMsg) isConstellationMsg()          {}
func (FocusWebViewMsg) isConstellationMsg()          {}
func (BlurWebViewMsg) isConstellationMsg()           {}
func (LoadURLMsg) isConstellationMsg()               {}
func (ReloadMsg) isConstellationMsg()                {}
func (TraverseHistoryMsg) isConstellationMsg()       {}
func (ChangeViewportDetailsMsg) isConstellationMsg() {}
func (SetWebViewThrottledMsg) isConstellationMsg()   {}
func (ThemeChangeMsg) isConstellationMsg()           {}
func (LogEntryMsg) isConstellationMsg()              {}
func (RendererReadyMsg) isConstellationMsg()         {}
func (AnimationStateChangedMsg) isConstellationMsg() {}
func (LoadProgressMsg) isConstellationMsg()          {}
func (CompositorAckMsg) isConstellationMsg()         {}
func (TickAnimationMsg) isConstellationMsg()         {}
func (SetScrollStatesMsg) isConstellationMsg()       {}
func (PaintMetricMsg) isConstellationMsg()           {}

// LogTarget implements ConstellationMsg.
func (ExitMsg) LogTarget() string { return "constellation<FromEmbedder>::Exit" }

// LogTarget implements ConstellationMsg.
func (NewWebViewMsg) LogTarget() string { return "constellation<FromEmbedder>::NewWebView" }

// LogTarget implements ConstellationMsg.
func (CloseWebViewMsg) LogTarget() string { return "constellation<FromEmbedder>::CloseWebView" }

// LogTarget implements ConstellationMsg.
func (FocusWebViewMsg) LogTarget() string { return "constellation<FromEmbedder>::FocusWebView" }

// LogTarget implements ConstellationMsg.
func (BlurWebViewMsg) LogTarget() string { return "constellation<FromEmbedder>::BlurWebView" }

// LogTarget implements ConstellationMsg.
func (LoadURLMsg) LogTarget() string { return "constellation<FromEmbedder>::LoadURL" }

// LogTarget implements ConstellationMsg.
func (ReloadMsg) LogTarget() string { return "constellation<FromEmbedder>::Reload" }

// LogTarget implements ConstellationMsg.
func (TraverseHistoryMsg) LogTarget() string { return "constellation<FromEmbedder>::TraverseHistory" }

// LogTarget implements ConstellationMsg.
func (ChangeViewportDetailsMsg) LogTarget() string {
	return "constellation<FromEmbedder>::ChangeViewportDetails"
}

// LogTarget implements ConstellationMsg.
func (SetWebViewThrottledMsg) LogTarget() string {
	return "constellation<FromEmbedder>::SetWebViewThrottled"
}

// LogTarget implements ConstellationMsg.
func (ThemeChangeMsg) LogTarget() string { return "constellation<FromEmbedder>::ThemeChange" }

// LogTarget implements ConstellationMsg.
func (LogEntryMsg) LogTarget() string { return "constellation<FromEmbedder>::LogEntry" }

// LogTarget implements ConstellationMsg.
func (RendererReadyMsg) LogTarget() string { return "constellation<FromPipeline>::RendererReady" }

// LogTarget implements ConstellationMsg.
func (AnimationStateChangedMsg) LogTarget() string {
	return "constellation<FromPipeline>::AnimationStateChanged"
}

// LogTarget implements ConstellationMsg.
func (LoadProgressMsg) LogTarget() string { return "constellation<FromPipeline>::LoadProgress" }

// LogTarget implements ConstellationMsg.
func (CompositorAckMsg) LogTarget() string { return "constellation<FromCompositor>::CompositorAck" }

// LogTarget implements ConstellationMsg.
func (TickAnimationMsg) LogTarget() string { return "constellation<FromCompositor>::TickAnimation" }

// LogTarget implements ConstellationMsg.
func (SetScrollStatesMsg) LogTarget() string {
	return "constellation<FromCompositor>::SetScrollStates"
}

// LogTarget implements ConstellationMsg.
func (PaintMetricMsg) LogTarget() string { return "constellation<FromCompositor>::PaintMetric" }
